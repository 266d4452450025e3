package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mentorverse/sensei/internal/domain/matching"
	"github.com/mentorverse/sensei/internal/domain/model"
)

// rosterRegistration builds a registration whose availability yields the
// given number of open slots.
func rosterRegistration(mentorID string, slots int) (model.MentorRegistration, matching.MentorIndex) {
	availability := make(map[string]any)
	day := 0
	for remaining := slots; remaining > 0; day++ {
		times := make([]any, 0, 3)
		for i := 0; i < 3 && remaining > 0; i++ {
			times = append(times, fmt.Sprintf("%dpm", 1+i))
			remaining--
		}
		availability[fmt.Sprintf("2024-07-%02d", day+1)] = times
	}

	mentor := model.Mentor{
		Name:         "Mentor " + mentorID,
		Title:        "Staff Engineer",
		Company:      "Finova",
		Expertise:    []string{"Go", "Kubernetes"},
		Availability: availability,
	}
	reg := model.MentorRegistration{
		ID:         mentorID + "-reg",
		MentorID:   mentorID,
		Mentor:     mentor,
		ReceivedAt: time.Now(),
	}
	return reg, matching.IndexMentor(mentor)
}

func mustUpsert(t *testing.T, store *TreapStore, mentorID string, slots int) bool {
	t.Helper()
	reg, idx := rosterRegistration(mentorID, slots)
	created, err := store.Upsert(context.Background(), reg, idx)
	if err != nil {
		t.Fatalf("unexpected error upserting %s: %v", mentorID, err)
	}
	return created
}

func TestTreapStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}()

	// Test empty store
	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	// Test registering first mentor
	if created := mustUpsert(t, store, "mentor1", 5); !created {
		t.Error("expected first registration to create a record")
	}

	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	// Test rank query
	entry, err := store.Rank(ctx, "mentor1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 1 {
		t.Errorf("expected rank 1, got %d", entry.Rank)
	}
	if entry.Slots != 5 {
		t.Errorf("expected 5 slots, got %d", entry.Slots)
	}
	if entry.Name != "Mentor mentor1" {
		t.Errorf("expected name 'Mentor mentor1', got %q", entry.Name)
	}

	// Test TopN
	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].MentorID != "mentor1" {
		t.Errorf("expected mentor1, got %s", entries[0].MentorID)
	}
}

func TestTreapStore_Reregistration(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}()

	// Initial registration
	if created := mustUpsert(t, store, "mentor1", 5); !created {
		t.Error("expected first registration to create a record")
	}

	// Re-register with fewer slots; the newer registration wins because
	// availability legitimately shrinks when sessions get booked.
	if created := mustUpsert(t, store, "mentor1", 2); created {
		t.Error("expected re-registration to replace, not create")
	}

	entry, err := store.Rank(ctx, "mentor1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Slots != 2 {
		t.Errorf("expected 2 slots after shrinking re-registration, got %d", entry.Slots)
	}

	// Re-register with more slots
	if created := mustUpsert(t, store, "mentor1", 8); created {
		t.Error("expected re-registration to replace, not create")
	}

	entry, err = store.Rank(ctx, "mentor1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Slots != 8 {
		t.Errorf("expected 8 slots after growing re-registration, got %d", entry.Slots)
	}

	// Count must not grow across re-registrations
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
}

func TestTreapStore_Ordering(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}()

	// Register mentors with different availability
	mentors := []struct {
		id    string
		slots int
	}{
		{"mentor1", 6},
		{"mentor2", 9},
		{"mentor3", 2},
		{"mentor4", 12},
		{"mentor5", 4},
	}

	for _, m := range mentors {
		if created := mustUpsert(t, store, m.id, m.slots); !created {
			t.Errorf("expected registration to create a record for %s", m.id)
		}
	}

	// Test TopN ordering
	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 5 {
		t.Errorf("expected 5 entries, got %d", len(entries))
	}

	// Verify descending order by slots
	for i := 0; i < len(entries)-1; i++ {
		if entries[i].Slots < entries[i+1].Slots {
			t.Errorf("entries not in descending order: %d < %d", entries[i].Slots, entries[i+1].Slots)
		}
	}

	// Verify ranks are assigned correctly (all slot counts distinct)
	for i, entry := range entries {
		expectedRank := i + 1
		if entry.Rank != expectedRank {
			t.Errorf("entry %d: expected rank %d, got %d", i, expectedRank, entry.Rank)
		}
	}

	// Verify specific ordering
	expectedOrder := []string{"mentor4", "mentor2", "mentor1", "mentor5", "mentor3"}
	for i, expectedID := range expectedOrder {
		if entries[i].MentorID != expectedID {
			t.Errorf("position %d: expected %s, got %s", i, expectedID, entries[i].MentorID)
		}
	}
}

func TestTreapStore_TieBreaking(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}()

	// Register mentors with the same availability but different IDs
	mustUpsert(t, store, "mentorB", 7)
	mustUpsert(t, store, "mentorA", 7)

	// Test TopN to see tie-breaking
	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}

	// With the same slot count, mentorA should come before mentorB
	if entries[0].MentorID != "mentorA" {
		t.Errorf("expected mentorA first, got %s", entries[0].MentorID)
	}
	if entries[1].MentorID != "mentorB" {
		t.Errorf("expected mentorB second, got %s", entries[1].MentorID)
	}

	// Tied mentors share a rank
	if entries[0].Rank != 1 || entries[1].Rank != 1 {
		t.Errorf("expected tied mentors to share rank 1, got %d and %d", entries[0].Rank, entries[1].Rank)
	}
}

func TestTreapStore_DenseRanks(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}()

	// Two ties and a straggler: ranks should be 1,1,2,2,3
	mentors := []struct {
		id    string
		slots int
	}{
		{"m1", 5},
		{"m2", 5},
		{"m3", 3},
		{"m4", 3},
		{"m5", 1},
	}
	for _, m := range mentors {
		mustUpsert(t, store, m.id, m.slots)
	}

	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedRanks := []int{1, 1, 2, 2, 3}
	if len(entries) != len(expectedRanks) {
		t.Fatalf("expected %d entries, got %d", len(expectedRanks), len(entries))
	}
	for i, want := range expectedRanks {
		if entries[i].Rank != want {
			t.Errorf("entry %d (%s): expected rank %d, got %d", i, entries[i].MentorID, want, entries[i].Rank)
		}
	}

	// Individual rank lookup must agree with the roster view
	entry, err := store.Rank(ctx, "m4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 2 {
		t.Errorf("expected m4 rank 2, got %d", entry.Rank)
	}

	entry, err = store.Rank(ctx, "m5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 3 {
		t.Errorf("expected m5 rank 3, got %d", entry.Rank)
	}
}

func TestTreapStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}()

	numGoroutines := 10
	numUpdates := 100

	// Start multiple goroutines registering different mentors
	done := make(chan bool, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			for j := 0; j < numUpdates; j++ {
				mentorID := fmt.Sprintf("mentor%d_%d", id, j)
				reg, idx := rosterRegistration(mentorID, j%13)
				if _, err := store.Upsert(ctx, reg, idx); err != nil {
					t.Errorf("goroutine %d: unexpected error: %v", id, err)
				}
			}
			done <- true
		}(i)
	}

	// Wait for all goroutines to complete
	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	// Verify final state
	expectedCount := numGoroutines * numUpdates
	if count := store.Count(ctx); count != expectedCount {
		t.Errorf("expected count %d, got %d", expectedCount, count)
	}

	// Test TopN still works
	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 10 {
		t.Errorf("expected 10 entries, got %d", len(entries))
	}

	// Verify ordering
	for i := 0; i < len(entries)-1; i++ {
		if entries[i].Slots < entries[i+1].Slots {
			t.Errorf("entries not in descending order: %d < %d", entries[i].Slots, entries[i+1].Slots)
		}
	}
}

func TestTreapStore_EdgeCases(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}()

	// Test invalid TopN limit
	if _, err := store.TopN(ctx, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}

	if _, err := store.TopN(ctx, -1); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}

	// Test querying a mentor that never registered
	if _, err := store.Rank(ctx, "nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// A mentor with no availability still joins the roster
	if created := mustUpsert(t, store, "busy", 0); !created {
		t.Error("expected registration to create a record")
	}

	entry, err := store.Rank(ctx, "busy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Slots != 0 {
		t.Errorf("expected 0 slots, got %d", entry.Slots)
	}
	if entry.Rank != 1 {
		t.Errorf("expected rank 1 in a single-mentor roster, got %d", entry.Rank)
	}

	// Zero-slot mentors sort after everyone with availability
	mustUpsert(t, store, "available", 1)

	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].MentorID != "available" || entries[1].MentorID != "busy" {
		t.Errorf("expected [available busy], got [%s %s]", entries[0].MentorID, entries[1].MentorID)
	}
}

func TestTreapStore_PeriodicSnapshots(t *testing.T) {
	ctx := context.Background()
	// Create store with a very short snapshot interval for testing
	store := NewTreapStore(ctx, WithSnapshotInterval(10*time.Millisecond))
	defer func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}()

	// Add some data
	mustUpsert(t, store, "mentor1", 4)
	mustUpsert(t, store, "mentor2", 9)
	mustUpsert(t, store, "mentor3", 6)

	// Wait for at least one snapshot cycle
	time.Sleep(50 * time.Millisecond)

	// Verify that snapshots were created
	snapshot := store.Snapshot()
	if snapshot == nil {
		t.Fatal("expected snapshot to be created, but it was nil")
	}

	// Verify snapshot contents
	if len(snapshot.RankByMentor) != 3 {
		t.Errorf("expected snapshot to contain 3 ranks, got %d", len(snapshot.RankByMentor))
	}
	if len(snapshot.SlotsByMentor) != 3 {
		t.Errorf("expected snapshot to contain 3 slot counts, got %d", len(snapshot.SlotsByMentor))
	}
	if len(snapshot.TopCache) != 3 {
		t.Errorf("expected top cache with 3 entries, got %d", len(snapshot.TopCache))
	}
	if snapshot.TakenAt.IsZero() {
		t.Error("expected snapshot timestamp to be set")
	}

	// Top cache entries carry the same ranks as the rank map
	for _, entry := range snapshot.TopCache {
		if rank := snapshot.RankByMentor[entry.MentorID]; rank != entry.Rank {
			t.Errorf("top cache rank mismatch for %s: cache=%d, map=%d", entry.MentorID, entry.Rank, rank)
		}
	}
}

func TestTreapStore_Pool(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}()

	mustUpsert(t, store, "mentor1", 2)
	mustUpsert(t, store, "mentor2", 8)
	mustUpsert(t, store, "mentor3", 5)

	pool, err := store.Pool(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pool) != 3 {
		t.Fatalf("expected pool of 3, got %d", len(pool))
	}

	// Pool comes back in roster order: most available first
	expectedNames := []string{"Mentor mentor2", "Mentor mentor3", "Mentor mentor1"}
	for i, want := range expectedNames {
		if pool[i].Mentor.Name != want {
			t.Errorf("pool position %d: expected %q, got %q", i, want, pool[i].Mentor.Name)
		}
	}

	// Each pool entry carries the precomputed index
	expectedSlots := []int{8, 5, 2}
	for i, want := range expectedSlots {
		if pool[i].Index.Slots != want {
			t.Errorf("pool position %d: expected %d indexed slots, got %d", i, want, pool[i].Index.Slots)
		}
	}

	// Re-registration replaces the pooled mentor, not duplicates it
	reg, _ := rosterRegistration("mentor1", 10)
	reg.Mentor.Expertise = []string{"Rust"}
	idx := matching.IndexMentor(reg.Mentor)
	if _, err := store.Upsert(ctx, reg, idx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pool, err = store.Pool(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pool) != 3 {
		t.Fatalf("expected pool of 3 after re-registration, got %d", len(pool))
	}
	if pool[0].Mentor.Name != "Mentor mentor1" {
		t.Errorf("expected re-registered mentor1 first, got %q", pool[0].Mentor.Name)
	}
	if len(pool[0].Mentor.Expertise) != 1 || pool[0].Mentor.Expertise[0] != "Rust" {
		t.Errorf("expected replaced expertise [Rust], got %v", pool[0].Mentor.Expertise)
	}
}

func TestTreapStore_SnapshotConsistency(t *testing.T) {
	ctx := context.Background()
	// Use very short snapshot interval for testing
	store := NewTreapStore(ctx, WithSnapshotInterval(5*time.Millisecond))
	defer func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}()

	// Register initial roster
	mentors := []struct {
		id    string
		slots int
	}{
		{"mentor1", 4},
		{"mentor2", 8},
		{"mentor3", 6},
		{"mentor4", 12},
		{"mentor5", 10},
	}

	for _, m := range mentors {
		if created := mustUpsert(t, store, m.id, m.slots); !created {
			t.Errorf("expected registration to create a record for %s", m.id)
		}
	}

	// Wait for snapshot to be created
	time.Sleep(20 * time.Millisecond)

	// Verify snapshot exists and is consistent
	snapshot := store.Snapshot()
	if snapshot == nil {
		t.Fatal("expected snapshot to exist")
	}

	// Verify snapshot contains the whole roster
	if len(snapshot.RankByMentor) != 5 {
		t.Errorf("expected snapshot to contain 5 mentors, got %d", len(snapshot.RankByMentor))
	}

	// Verify snapshot data matches live data
	for _, m := range mentors {
		liveEntry, err := store.Rank(ctx, m.id)
		if err != nil {
			t.Fatalf("failed to get live rank for %s: %v", m.id, err)
		}

		snapshotRank, exists := snapshot.RankByMentor[m.id]
		if !exists {
			t.Errorf("mentor %s missing from snapshot ranks", m.id)
			continue
		}

		snapshotSlots, exists := snapshot.SlotsByMentor[m.id]
		if !exists {
			t.Errorf("mentor %s missing from snapshot slots", m.id)
			continue
		}

		if snapshotRank != liveEntry.Rank {
			t.Errorf("mentor %s rank mismatch: snapshot=%d, live=%d", m.id, snapshotRank, liveEntry.Rank)
		}
		if snapshotSlots != liveEntry.Slots {
			t.Errorf("mentor %s slots mismatch: snapshot=%d, live=%d", m.id, snapshotSlots, liveEntry.Slots)
		}
	}

	// Verify TopCache is properly ordered
	if len(snapshot.TopCache) == 0 {
		t.Error("expected TopCache to contain entries")
	}
	for i := 1; i < len(snapshot.TopCache); i++ {
		if snapshot.TopCache[i].Slots > snapshot.TopCache[i-1].Slots {
			t.Errorf("TopCache not in descending order: %d > %d",
				snapshot.TopCache[i].Slots, snapshot.TopCache[i-1].Slots)
		}
	}
}

func TestTreapStore_SnapshotDuringUpdates(t *testing.T) {
	ctx := context.Background()
	// Use very short snapshot interval to catch snapshot during updates
	store := NewTreapStore(ctx, WithSnapshotInterval(1*time.Millisecond))
	defer func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}()

	// Start continuous registrations in background
	stopUpdates := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(100 * time.Microsecond)
		defer ticker.Stop()

		counter := 0
		for {
			select {
			case <-stopUpdates:
				return
			case <-ticker.C:
				mentorID := fmt.Sprintf("updating_mentor_%d", counter%10)
				reg, idx := rosterRegistration(mentorID, counter%15)
				_, _ = store.Upsert(ctx, reg, idx)
				counter++
			}
		}
	}()

	// Let updates run for a while
	time.Sleep(10 * time.Millisecond)

	// Stop updates
	close(stopUpdates)
	wg.Wait()

	// Verify store is still consistent after snapshots during updates
	if count := store.Count(ctx); count == 0 {
		t.Error("expected store to contain mentors after snapshots during updates")
	}

	// Verify we can still query the roster
	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("TopN failed after snapshots during updates: %v", err)
	}
	if len(entries) == 0 {
		t.Error("expected TopN to return entries after snapshots during updates")
	}

	// Verify ordering survived
	for i := 1; i < len(entries); i++ {
		if entries[i].Slots > entries[i-1].Slots {
			t.Errorf("entries not in descending order: %d > %d", entries[i].Slots, entries[i-1].Slots)
		}
	}
}

func TestTreapStore_EmptyAndSingleElement(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}()

	// Test empty store operations
	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	// Test TopN on empty store
	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("TopN on empty store failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected 0 entries from empty store, got %d", len(entries))
	}

	// Test Pool on empty store
	pool, err := store.Pool(ctx)
	if err != nil {
		t.Fatalf("Pool on empty store failed: %v", err)
	}
	if len(pool) != 0 {
		t.Errorf("expected empty pool, got %d entries", len(pool))
	}

	// Test Rank on empty store
	if _, err := store.Rank(ctx, "nonexistent"); err == nil {
		t.Error("expected error when querying nonexistent mentor in empty store")
	}

	// Add single mentor
	if created := mustUpsert(t, store, "single", 3); !created {
		t.Error("expected registration to create a record")
	}

	// Test single mentor operations
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	entries, err = store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("TopN on single-mentor store failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Rank != 1 {
		t.Errorf("expected rank 1, got %d", entries[0].Rank)
	}
	if entries[0].MentorID != "single" {
		t.Errorf("expected mentor ID 'single', got %s", entries[0].MentorID)
	}
	if entries[0].Slots != 3 {
		t.Errorf("expected 3 slots, got %d", entries[0].Slots)
	}

	// Test TopN with limit 1
	entries, err = store.TopN(ctx, 1)
	if err != nil {
		t.Fatalf("TopN(1) failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry from TopN(1), got %d", len(entries))
	}
}

func TestTreapStore_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := NewTreapStore(ctx)
	defer func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}()

	// Insert some data
	if created := mustUpsert(t, store, "mentor1", 5); !created {
		t.Error("expected registration to create a record")
	}

	// Cancel context
	cancel()

	// Operations should still work (context only bounds background goroutines)
	reg, idx := rosterRegistration("mentor2", 7)
	created, err := store.Upsert(ctx, reg, idx)
	if err != nil {
		t.Fatalf("Upsert failed after context cancellation: %v", err)
	}
	if !created {
		t.Error("expected registration to create a record after context cancellation")
	}

	entry, err := store.Rank(ctx, "mentor1")
	if err != nil {
		t.Fatalf("Rank failed after context cancellation: %v", err)
	}
	if entry.Slots != 5 {
		t.Errorf("expected 5 slots, got %d", entry.Slots)
	}

	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("TopN failed after context cancellation: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}
}

func TestTreapStore_CloseBehavior(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)

	// Insert some data
	if created := mustUpsert(t, store, "mentor1", 5); !created {
		t.Error("expected registration to create a record")
	}

	// Close the store
	if err := store.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}

	// Operations should still work after close (background goroutines stopped)
	reg, idx := rosterRegistration("mentor2", 7)
	created, err := store.Upsert(ctx, reg, idx)
	if err != nil {
		t.Fatalf("Upsert failed after close: %v", err)
	}
	if !created {
		t.Error("expected registration to create a record after close")
	}

	entry, err := store.Rank(ctx, "mentor1")
	if err != nil {
		t.Fatalf("Rank failed after close: %v", err)
	}
	if entry.Slots != 5 {
		t.Errorf("expected 5 slots, got %d", entry.Slots)
	}

	// Multiple closes should not panic
	if err := store.Close(); err != nil {
		t.Errorf("second Close returned error: %v", err)
	}
}

func BenchmarkTreapStore_MixedOperations(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("failed to close store: %v\n", err)
		}
	}()

	// Pre-populate a production-sized roster
	numMentors := 100_000
	for i := 0; i < numMentors; i++ {
		reg, idx := rosterRegistration(fmt.Sprintf("bench_mentor_%d", i), i%15)
		_, _ = store.Upsert(ctx, reg, idx)
	}

	b.ResetTimer()
	b.ReportAllocs()

	// Distribute operations: 40% registrations, 30% rank queries, 20% TopN, 10% Count
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			opType := i % 10

			switch {
			case opType < 4: // 40% - registration churn
				reg, idx := rosterRegistration(fmt.Sprintf("bench_mentor_%d", i%numMentors), i%15)
				_, _ = store.Upsert(ctx, reg, idx)

			case opType < 7: // 30% - rank queries
				_, _ = store.Rank(ctx, fmt.Sprintf("bench_mentor_%d", i%numMentors))

			case opType < 9: // 20% - TopN queries (various sizes)
				size := 10 + (i % 100) // 10 to 109
				_, _ = store.TopN(ctx, size)

			default: // 10% - Count operations
				store.Count(ctx)
			}
			i++
		}
	})
}
