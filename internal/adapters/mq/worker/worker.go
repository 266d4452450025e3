// Package worker defines worker contracts for asynchronous mentor indexing
// and roster updates.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mentorverse/sensei/internal/adapters/mq/queue"
	"github.com/mentorverse/sensei/internal/domain/matching"
	"github.com/mentorverse/sensei/internal/domain/model"
	"github.com/mentorverse/sensei/pkg/logger"
	"github.com/mentorverse/sensei/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 20 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Registration abstracts what workers read off the queue.
// Using the model.MentorRegistration type for consistency.
type Registration = model.MentorRegistration

// Indexer computes the match index for a mentor.
type Indexer interface {
	Index(ctx context.Context, m model.Mentor) (matching.MentorIndex, error)
}

// Upserter writes an indexed registration into the roster.
type Upserter interface {
	Upsert(ctx context.Context, reg model.MentorRegistration, idx matching.MentorIndex) (bool, error)
}

// Queue defines how workers receive registrations.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Registration
}

// Worker processes registrations and writes roster updates using the
// provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining registrations before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing registrations.
type InMemoryWorker struct {
	queue   Queue
	indexer Indexer
	roster  Upserter
	name    string

	// Called after each successfully processed registration.
	onProcessed func()

	// Shutdown control
	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, indexer Indexer, roster Upserter, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		indexer:  indexer,
		roster:   roster,
		name:     "worker", // default name
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"), // will be updated by options
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	regChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case reg, ok := <-regChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			// Process the registration
			if err := w.processRegistration(ctx, reg); err != nil {
				w.logger.Error(ctx, "error processing registration", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	// Signal shutdown
	w.signalShutdown()

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) signalShutdown() {
	w.shutdownOnce.Do(func() {
		close(w.shutdown)
	})
}

// processRegistration handles a single registration.
func (w *InMemoryWorker) processRegistration(ctx context.Context, reg queue.Registration) error {
	// Track overall processing latency
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	// Track indexing latency
	indexStart := time.Now()
	idx, err := w.indexer.Index(ctx, reg.Mentor)
	indexLatency := time.Since(indexStart).Milliseconds()

	// Record indexing latency metric
	metrics.RecordIndexingLatency(float64(indexLatency))

	if err != nil {
		// Record indexing error metric
		metrics.RecordIndexingError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "indexing_error")
		metrics.RecordErrorByType("indexing_error", "high")
		w.logger.Error(ctx, "indexing failed for registration",
			logger.String("registrationID", reg.ID),
			logger.String("mentorID", reg.MentorID),
			logger.Error(err),
		)
		return fmt.Errorf("failed to index registration %s: %w", reg.ID, err)
	}

	// Update the roster
	if _, err := w.roster.Upsert(ctx, reg, idx); err != nil {
		// Record roster error metric
		metrics.RecordRosterError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "roster_error")
		metrics.RecordErrorByType("roster_error", "high")
		w.logger.Error(ctx, "roster update failed for registration",
			logger.String("registrationID", reg.ID),
			logger.String("mentorID", reg.MentorID),
			logger.Error(err),
		)
		return fmt.Errorf("roster update failed: %w", err)
	}

	if w.onProcessed != nil {
		w.onProcessed()
	}

	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	indexer Indexer
	roster  Upserter

	// Shutdown control
	shutdown chan struct{}
	stopOnce sync.Once

	// Metrics tracking
	processedCount    atomic.Int64
	lastProcessedTime time.Time

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, indexer Indexer, roster Upserter) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:           make([]*InMemoryWorker, workerCount),
		queue:             queue,
		indexer:           indexer,
		roster:            roster,
		shutdown:          make(chan struct{}),
		lastProcessedTime: time.Now(),
		logger:            logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			indexer,
			roster,
			WithName("worker-"+strconv.Itoa(i)),
			WithProcessedHook(pool.RecordProcessedMessage),
		)
	}

	// Initialize worker metrics
	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerIdleCount(0)
	metrics.UpdateWorkerMessagesPerSecond(0.0)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}

	// Start metrics updater
	go p.startMetricsUpdater(ctx)
}

// startMetricsUpdater starts a background goroutine that updates worker metrics.
func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

// updateMetrics updates worker-related metrics.
func (p *Pool) updateMetrics() {
	// Calculate registrations per second since the last tick
	now := time.Now()
	timeDiff := now.Sub(p.lastProcessedTime).Seconds()
	if timeDiff > 0 {
		processed := p.processedCount.Swap(0)
		metrics.UpdateWorkerMessagesPerSecond(float64(processed) / timeDiff)
	}
	p.lastProcessedTime = now
}

// RecordProcessedMessage increments the processed registration count.
func (p *Pool) RecordProcessedMessage() {
	p.processedCount.Add(1)
}

// Stop stops all workers without draining the queue.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.shutdown)
	})

	// Signal shutdown to all workers
	for _, worker := range p.workers {
		worker.signalShutdown()
	}

	// Wait for all workers to finish
	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool. The queue is
// closed first so workers drain the remaining registrations before
// exiting on the closed dequeue channel.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new registrations
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	// Stop the metrics updater
	p.stopOnce.Do(func() {
		close(p.shutdown)
	})

	// Wait for all workers to finish or context to timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
