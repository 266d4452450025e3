package repository

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mentorverse/sensei/internal/domain/matching"
	"github.com/mentorverse/sensei/internal/domain/matchmaker"
	"github.com/mentorverse/sensei/internal/domain/model"
	"github.com/mentorverse/sensei/internal/domain/types"
	"github.com/mentorverse/sensei/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: open slots DESC, then mentor ID ASC (deterministic). The BST
// comparator treats "less" as "ranks earlier", so an in-order traversal
// walks the roster from most to least available.

// record stores one mentor's indexed registration.
type record struct {
	slots          int
	registrationID string
	updatedAt      time.Time
	mentor         model.Mentor
	index          matching.MentorIndex
}

// Snapshot is an immutable view of the roster state, published
// periodically for cheap reads.
type Snapshot struct {
	// Rank and slots in O(1) for reads.
	RankByMentor  map[string]int
	SlotsByMentor map[string]int

	// Fast Top-K cache, most available first.
	TopCache []types.Entry

	// TakenAt is when this snapshot was published.
	TakenAt time.Time
}

// treap node
type node struct {
	id    string
	slots int
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aSlots, aID) ranks earlier than (bSlots, bID):
// more open slots first, ties broken by mentor ID ascending.
func less(aSlots int, aID string, bSlots int, bID string) bool {
	if aSlots != bSlots {
		return aSlots > bSlots
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// slotsToPriority keeps the most available mentors near the treap root,
// where the hot TopN traversals start. Slot counts are never negative.
func slotsToPriority(slots int) uint64 {
	return uint64(slots)
}

func insert(n *node, id string, slots int) *node {
	if n == nil {
		return &node{id: id, slots: slots, prio: slotsToPriority(slots), size: 1}
	}
	if less(slots, id, n.slots, n.id) {
		n.left = insert(n.left, id, slots)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, slots)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, slots int) *node {
	if n == nil {
		return nil
	}
	if slots == n.slots && id == n.id {
		// Merge children by rotating the higher priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, slots)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, slots)
		}
	} else if less(slots, id, n.slots, n.id) {
		n.left = deleteNode(n.left, id, slots)
	} else {
		n.right = deleteNode(n.right, id, slots)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit entries in roster order.
func collectTopN(n *node, limit int, records map[string]record, out *[]types.Entry) {
	if n == nil || len(*out) >= limit {
		return
	}

	collectTopN(n.left, limit, records, out)

	if len(*out) < limit {
		if rec, exists := records[n.id]; exists {
			*out = append(*out, types.Entry{MentorID: n.id, Name: rec.mentor.Name, Slots: rec.slots})
		}
	}

	if len(*out) < limit {
		collectTopN(n.right, limit, records, out)
	}
}

// TreapStore is the in-memory roster backing registration intake and
// roster matchmaking.
type TreapStore struct {
	mu                    sync.RWMutex
	root                  *node
	byID                  map[string]record
	snapshotInterval      time.Duration
	topCacheSize          int
	metricsUpdateInterval time.Duration

	snapshot atomic.Pointer[Snapshot]

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewTreapStore constructs a treap store with configuration options. The
// context bounds the background snapshot and metrics goroutines.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		snapshotInterval:      time.Second,
		topCacheSize:          500,
		metricsUpdateInterval: 5 * time.Second,
		byID:                  make(map[string]record),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.startPeriodicSnapshots(ctx)
	s.startMetricsUpdater(ctx)

	return s
}

// startPeriodicSnapshots publishes roster snapshots at the configured
// interval until the context or store is closed.
func (s *TreapStore) startPeriodicSnapshots(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.snapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.publishSnapshot()
			}
		}
	}()
}

func (s *TreapStore) publishSnapshot() {
	start := time.Now()
	s.mu.RLock()
	s.publishSnapshotLocked()
	s.mu.RUnlock()

	ms := float64(time.Since(start).Milliseconds())
	metrics.RecordRepositorySnapshotRebuildDuration(ms)
	metrics.UpdateRepositorySnapshotLastDurationMs(ms)
	metrics.UpdateRepositorySnapshotLastUnix(float64(time.Now().Unix()))
	metrics.IncrementRepositorySnapshotCount()
}

// Close shuts down the background goroutines.
func (s *TreapStore) Close() error {
	select {
	case <-s.stopChan:
		// already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// Upsert registers or replaces a mentor in O(log n) expected time. Unlike
// a best-score board, a re-registration always wins: mentors re-submit
// when their availability changes, in either direction.
func (s *TreapStore) Upsert(ctx context.Context, reg model.MentorRegistration, idx matching.MentorIndex) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	created := false

	s.mu.Lock()
	if old, ok := s.byID[reg.MentorID]; ok {
		s.root = deleteNode(s.root, reg.MentorID, old.slots)
	} else {
		created = true
	}
	s.byID[reg.MentorID] = record{
		slots:          idx.Slots,
		registrationID: reg.ID,
		updatedAt:      time.Now(),
		mentor:         reg.Mentor,
		index:          idx,
	}
	s.root = insert(s.root, reg.MentorID, idx.Slots)
	s.mu.Unlock()

	metrics.RecordRosterUpdate()
	if created {
		metrics.UpdateRepositoryRecordsTotal(s.Count(ctx))
	}

	return created, nil
}

// Rank returns the roster position for a mentor.
func (s *TreapStore) Rank(ctx context.Context, mentorID string) (types.Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.byID[mentorID]; !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return types.Entry{}, ErrNotFound
	}

	all := make([]types.Entry, 0, len(s.byID))
	collectAll(s.root, s.byID, &all)
	sortEntries(all)
	assignRanksWithTies(all)

	for _, entry := range all {
		if entry.MentorID == mentorID {
			return entry, nil
		}
	}

	return types.Entry{}, ErrNotFound
}

// TopN returns the n most available mentors, best first.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Entry, 0, n)
	collectTopN(s.root, n, s.byID, &out)

	assignRanksWithTies(out)
	return out, nil
}

// Pool returns every registered mentor with its precomputed match index.
func (s *TreapStore) Pool(ctx context.Context) ([]matchmaker.PoolEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]matchmaker.PoolEntry, 0, len(s.byID))
	collectPool(s.root, s.byID, &out)
	return out, nil
}

// Count returns the total number of registered mentors.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Snapshot returns the last published roster snapshot, or nil when none
// has been published yet.
func (s *TreapStore) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// publishSnapshotLocked rebuilds and publishes a snapshot. Callers must
// hold at least the read lock.
func (s *TreapStore) publishSnapshotLocked() {
	topCache := make([]types.Entry, 0, s.topCacheSize)
	collectTopN(s.root, s.topCacheSize, s.byID, &topCache)

	rankByMentor := make(map[string]int, len(s.byID))
	slotsByMentor := make(map[string]int, len(s.byID))

	all := make([]types.Entry, 0, len(s.byID))
	collectAll(s.root, s.byID, &all)
	assignRanksWithTies(all)

	for _, entry := range all {
		rankByMentor[entry.MentorID] = entry.Rank
		slotsByMentor[entry.MentorID] = entry.Slots
	}

	for i := range topCache {
		if rank, exists := rankByMentor[topCache[i].MentorID]; exists {
			topCache[i].Rank = rank
		}
	}

	s.snapshot.Store(&Snapshot{
		RankByMentor:  rankByMentor,
		SlotsByMentor: slotsByMentor,
		TopCache:      topCache,
		TakenAt:       time.Now(),
	})
}

// startMetricsUpdater refreshes roster gauges at the configured interval.
func (s *TreapStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *TreapStore) updateMetrics() {
	s.mu.RLock()
	count := len(s.byID)
	s.mu.RUnlock()

	metrics.UpdateRosterMentors(count)
	metrics.UpdateRepositoryRecordsTotal(count)
}

// collectAll appends all entries in roster order.
func collectAll(n *node, byID map[string]record, out *[]types.Entry) {
	if n == nil {
		return
	}
	collectAll(n.left, byID, out)
	if rec, ok := byID[n.id]; ok {
		*out = append(*out, types.Entry{
			MentorID: n.id,
			Name:     rec.mentor.Name,
			Slots:    rec.slots,
		})
	}
	collectAll(n.right, byID, out)
}

// collectPool appends all pool entries in roster order.
func collectPool(n *node, byID map[string]record, out *[]matchmaker.PoolEntry) {
	if n == nil {
		return
	}
	collectPool(n.left, byID, out)
	if rec, ok := byID[n.id]; ok {
		*out = append(*out, matchmaker.PoolEntry{Mentor: rec.mentor, Index: rec.index})
	}
	collectPool(n.right, byID, out)
}

// sortEntries orders entries by slots descending, mentor ID ascending, to
// match the tree comparator.
func sortEntries(entries []types.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Slots != entries[j].Slots {
			return entries[i].Slots > entries[j].Slots
		}
		return entries[i].MentorID < entries[j].MentorID
	})
}

// assignRanksWithTies assigns ranks so mentors with the same slot count
// share a rank, and the next distinct count takes the following rank.
func assignRanksWithTies(entries []types.Entry) {
	if len(entries) == 0 {
		return
	}

	currentRank := 1
	for i := 0; i < len(entries); i++ {
		entries[i].Rank = currentRank

		sameCount := 1
		for j := i + 1; j < len(entries) && entries[j].Slots == entries[i].Slots; j++ {
			entries[j].Rank = currentRank
			sameCount++
		}

		currentRank++
		i += sameCount - 1
	}
}
