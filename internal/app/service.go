// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"runtime"
	"strings"
	"sync"
	"time"

	regqueue "github.com/mentorverse/sensei/internal/adapters/mq/queue"
	workerpool "github.com/mentorverse/sensei/internal/adapters/mq/worker"
	"github.com/mentorverse/sensei/internal/adapters/repository"
	"github.com/mentorverse/sensei/internal/domain/dedupe"
	"github.com/mentorverse/sensei/internal/domain/matching"
	"github.com/mentorverse/sensei/internal/domain/matchmaker"
	"github.com/mentorverse/sensei/internal/domain/model"
	"github.com/mentorverse/sensei/internal/domain/types"
	"github.com/mentorverse/sensei/pkg/logger"
	"github.com/mentorverse/sensei/pkg/metrics"
)

const statsRefreshInterval = 15 * time.Second

// Sentinel errors returned by the service.
var (
	ErrTooManyMentors = errors.New("too many mentors in request")
	ErrBacklogFull    = errors.New("registration backlog full")
)

// mentorIndexer adapts the pure matching index function to the
// worker.Indexer interface.
type mentorIndexer struct{}

func (mentorIndexer) Index(ctx context.Context, m model.Mentor) (matching.MentorIndex, error) {
	return matching.IndexMentor(m), nil
}

// Service implements the API dependencies for the matchmaking system.
type Service struct {
	mu sync.RWMutex

	// Core components
	roster     repository.Store
	deduper    dedupe.Deduper
	regQueue   regqueue.Queue
	workerPool *workerpool.Pool

	// Configuration
	workerCount          int
	queueSize            int
	dedupeSize           int
	maxRosterLimit       int
	maxMentorsPerRequest int

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the registration queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxRosterLimit caps how many entries a roster listing may return.
func WithMaxRosterLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxRosterLimit = limit
		}
	}
}

// WithMaxMentorsPerRequest caps the candidate pool size accepted by Match.
func WithMaxMentorsPerRequest(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxMentorsPerRequest = limit
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:          runtime.NumCPU() * 2, // Default to 2x CPU cores
		queueSize:            100000,               // Default queue size
		dedupeSize:           50000,                // Default dedupe cache size
		maxRosterLimit:       100,
		maxMentorsPerRequest: 1000,
		logger:               nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting matchmaking service...")

	// Initialize components
	s.roster = repository.NewTreapStore(ctx)
	s.logger.Info(ctx, "using treap store")
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.regQueue = regqueue.NewInMemoryQueue(
		regqueue.WithCapacity(s.queueSize),
		regqueue.WithBufferSize(s.queueSize),
	)

	// Create and start the indexing worker pool
	s.workerPool = workerpool.NewPool(s.workerCount, s.regQueue, mentorIndexer{}, s.roster)
	s.workerPool.Start(ctx)

	s.stopCh = make(chan struct{})
	go s.refreshStats(ctx)

	s.started = true
	s.logger.Info(ctx, "matchmaking service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping matchmaking service...")

	// Stop worker pool
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	// Close roster store
	if s.roster != nil {
		if closer, ok := s.roster.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}

	// Close queue
	if q, ok := s.regQueue.(*regqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	// Signal the stats refresher to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "matchmaking service stopped")
}

// refreshStats keeps the service-level gauges warm between scrapes.
func (s *Service) refreshStats(ctx context.Context) {
	ticker := time.NewTicker(statsRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.GetStats()
		}
	}
}

// Match runs the matchmaking pipeline over the mentors supplied in the
// request and returns up to the standard number of matches.
func (s *Service) Match(ctx context.Context, req *model.MatchRequest) (matchmaker.Result, error) {
	if len(req.Mentors) > s.maxMentorsPerRequest {
		metrics.RecordErrorByComponent("service", "pool_too_large")
		return matchmaker.Result{}, fmt.Errorf("%w: %d exceeds limit %d", ErrTooManyMentors, len(req.Mentors), s.maxMentorsPerRequest)
	}

	start := time.Now()
	defer func() {
		metrics.RecordMatchDuration(float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordMatchRequest(metrics.MatchSourceRequest)

	result := matchmaker.Match(req.Profile, req.Mentors)

	metrics.RecordResultsReturned(len(result.Mentors))
	metrics.RecordTopScore(result.TopScore)
	if result.Fallback {
		metrics.RecordFallbackSelection()
	}

	return result, nil
}

// MatchRoster runs the matchmaking pipeline against the registered mentor
// roster instead of a caller-supplied pool.
func (s *Service) MatchRoster(ctx context.Context, req *model.RosterMatchRequest) (matchmaker.Result, error) {
	start := time.Now()
	defer func() {
		metrics.RecordMatchDuration(float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordMatchRequest(metrics.MatchSourceRoster)

	pool, err := s.roster.Pool(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("service", "roster_pool")
		return matchmaker.Result{}, fmt.Errorf("loading mentor pool: %w", err)
	}

	result := matchmaker.MatchPool(req.Profile, pool)

	metrics.RecordResultsReturned(len(result.Mentors))
	metrics.RecordTopScore(result.TopScore)
	if result.Fallback {
		metrics.RecordFallbackSelection()
	}

	return result, nil
}

// RegistrationOutcome reports how an intake submission was handled.
type RegistrationOutcome = types.RegistrationOutcome

// RegisterMentor submits a mentor to the roster intake pipeline. Exact
// resubmits are suppressed by the deduper; changed payloads flow through
// and replace the mentor's roster entry once a worker picks them up.
func (s *Service) RegisterMentor(ctx context.Context, m model.Mentor) (RegistrationOutcome, error) {
	mentorID := mentorKey(m)
	regID := registrationKey(m, mentorID)

	if s.SeenAndRecord(ctx, regID) {
		s.logger.Debug(ctx, "duplicate registration detected, skipping",
			logger.String("registrationID", regID),
			logger.String("mentorID", mentorID),
		)
		return RegistrationOutcome{RegistrationID: regID, MentorID: mentorID, Duplicate: true}, nil
	}

	reg := model.MentorRegistration{
		ID:         regID,
		MentorID:   mentorID,
		Mentor:     m,
		ReceivedAt: time.Now(),
	}

	if !s.regQueue.Enqueue(ctx, reg) {
		// Allow the registration to be retried once there is room again.
		s.deduper.Unrecord(ctx, regID)
		metrics.RecordRegistrationRejected()
		if s.regQueue.IsClosed() {
			return RegistrationOutcome{}, regqueue.ErrClosed
		}
		return RegistrationOutcome{}, ErrBacklogFull
	}

	metrics.RecordRegistrationAccepted()
	metrics.UpdateQueueSize(s.regQueue.Len(ctx))

	return RegistrationOutcome{RegistrationID: regID, MentorID: mentorID}, nil
}

// SeenAndRecord atomically checks if a registration id was seen and records
// it if not. Returns true if the registration was already seen, false if it
// was newly recorded. This is the ONLY method for deduplication.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordRegistrationDuplicate()
	}
	return seen
}

// Unrecord removes a registration ID from the seen list, allowing it to be
// retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// TopMentors returns the n most available mentors from the roster. The
// limit is capped by the configured maximum.
func (s *Service) TopMentors(ctx context.Context, n int) ([]types.Entry, error) {
	if n > s.maxRosterLimit {
		n = s.maxRosterLimit
	}
	return s.roster.TopN(ctx, n)
}

// MentorRank returns the roster position for a given mentor id.
func (s *Service) MentorRank(ctx context.Context, mentorID string) (types.Entry, error) {
	return s.roster.Rank(ctx, mentorID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":        s.started,
		"workerCount":    s.workerCount,
		"queueSize":      s.queueSize,
		"dedupeSize":     s.dedupeSize,
		"maxRosterLimit": s.maxRosterLimit,
	}

	if s.started {
		queueLen := s.regQueue.Len(ctx)
		totalMentors := s.roster.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalMentors"] = totalMentors

		if snap, ok := s.roster.(interface{ Snapshot() *repository.Snapshot }); ok {
			if snapshot := snap.Snapshot(); snapshot != nil {
				stats["snapshotAgeMs"] = time.Since(snapshot.TakenAt).Milliseconds()
				stats["snapshotMentors"] = len(snapshot.RankByMentor)
			}
		}

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateRosterMentors(totalMentors)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// mentorKey resolves the stable roster identity for a mentor: an explicit
// mentorId passed on the wire wins, otherwise the slugified display name.
func mentorKey(m model.Mentor) string {
	if id, ok := m.ExtraString("mentorId"); ok && strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id)
	}
	return slugify(m.Name)
}

// registrationKey resolves the idempotency key for a submission: an
// explicit registrationId wins, otherwise a deterministic digest of the
// payload so exact resubmits dedupe and edits do not.
func registrationKey(m model.Mentor, mentorID string) string {
	if id, ok := m.ExtraString("registrationId"); ok && strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id)
	}

	h := fnv.New64a()
	if payload, err := json.Marshal(m); err == nil {
		_, _ = h.Write(payload)
	} else {
		_, _ = h.Write([]byte(m.Name))
	}
	return fmt.Sprintf("%s_%016x", mentorID, h.Sum64())
}

func slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		isWord := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isWord {
			pendingDash = b.Len() > 0
			continue
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
