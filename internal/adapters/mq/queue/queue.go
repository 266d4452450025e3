// Package queue defines the contract for enqueuing and consuming mentor
// registrations.
//
// Implementations may use channels or more advanced structures. The MVP
// starts with an in-memory bounded queue that absorbs registration bursts
// ahead of the indexing workers.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/mentorverse/sensei/internal/domain/model"
	"github.com/mentorverse/sensei/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 100000
	defaultBufferSize    = 100000
)

// Registration represents the payload type flowing through the queue.
// Using the model.MentorRegistration type for type safety.
type Registration = model.MentorRegistration

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a registration to the queue.
	// Returns false if the queue is full and the registration was not enqueued.
	Enqueue(ctx context.Context, r Registration) bool

	// Dequeue returns a channel that will receive registrations as they
	// become available. The channel will be closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Registration

	// Len returns the current number of queued registrations.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new registrations can be enqueued and the dequeue
	// channel will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	registrations chan Registration
	capacity      int
	bufferSize    int
	mu            sync.RWMutex
	closed        bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		bufferSize: defaultBufferSize,
	}

	// Apply all options
	for _, opt := range opts {
		opt(q)
	}

	// Initialize the registrations channel with the configured buffer size
	q.registrations = make(chan Registration, q.bufferSize)

	// Initialize metrics
	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds a registration to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r Registration) bool {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordQueueProcessingLatency(float64(latency))
	}()

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	// Check if we're at capacity
	if len(q.registrations) >= q.capacity {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "capacity_exceeded")
		return false
	}

	select {
	case q.registrations <- r:
		metrics.RecordQueueEnqueue()
		// Update queue size and utilization
		currentSize := len(q.registrations)
		metrics.UpdateQueueSize(currentSize)
		utilization := float64(currentSize) / float64(q.capacity)
		metrics.UpdateQueueUtilization(utilization)
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false // context cancelled
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false // queue is full
	}
}

// Dequeue returns a channel that will receive registrations as they become
// available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Registration {
	// Wrap the channel to track dequeue metrics
	dequeueChan := make(chan Registration)
	go func() {
		defer close(dequeueChan)
		for reg := range q.registrations {
			select {
			case dequeueChan <- reg:
				metrics.RecordQueueDequeue()
				// Update queue size and utilization after dequeue
				currentSize := len(q.registrations)
				metrics.UpdateQueueSize(currentSize)
				utilization := float64(currentSize) / float64(q.capacity)
				metrics.UpdateQueueUtilization(utilization)
			case <-ctx.Done():
				return
			}
		}
	}()
	return dequeueChan
}

// Len returns the current number of queued registrations.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.registrations)
	metrics.UpdateQueueSize(size)
	utilization := float64(size) / float64(q.capacity)
	metrics.UpdateQueueUtilization(utilization)
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}

	// Close the registrations channel to signal consumers to stop
	close(q.registrations)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
