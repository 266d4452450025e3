package repository

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mentorverse/sensei/internal/domain/matching"
	"github.com/mentorverse/sensei/internal/domain/model"
)

// BenchmarkResult holds the measurements for one roster operation.
type BenchmarkResult struct {
	Operation     string
	TotalOps      int64
	TotalTime     time.Duration
	AvgLatency    time.Duration
	P50Latency    time.Duration
	P90Latency    time.Duration
	P95Latency    time.Duration
	P99Latency    time.Duration
	Throughput    float64 // ops/sec
	MemoryUsage   uint64  // bytes
	SnapshotCount int64
	ErrorCount    int64
	SuccessRate   float64
}

// APIPerformance tracks the per-operation results of a stress run.
type APIPerformance struct {
	Upsert *BenchmarkResult
	Rank   *BenchmarkResult
	TopN   *BenchmarkResult
	Pool   *BenchmarkResult
	Count  *BenchmarkResult
}

// StressTestConfig drives a combined read/write stress run against the
// roster store.
type StressTestConfig struct {
	TotalMentors      int
	ConcurrentWorkers int
	TestDuration      time.Duration
	SnapshotInterval  time.Duration
	TopCacheSize      int

	// Operation mix (fractions of all calls; the remainder goes to Count).
	UpsertRatio float64
	RankRatio   float64
	TopNRatio   float64
	PoolRatio   float64

	// TopN query size distribution.
	TopNSizes       []int
	TopNSizeWeights []float64
}

// DefaultStressTestConfig returns a mix modeled on production traffic:
// registration churn, individual rank lookups, directory views, and the
// occasional full-pool fetch for roster matchmaking.
func DefaultStressTestConfig() *StressTestConfig {
	return &StressTestConfig{
		TotalMentors:      250_000,
		ConcurrentWorkers: 200,
		TestDuration:      30 * time.Second,
		SnapshotInterval:  time.Second,
		TopCacheSize:      1000,

		UpsertRatio: 0.35,
		RankRatio:   0.30,
		TopNRatio:   0.20,
		PoolRatio:   0.05,

		TopNSizes:       []int{10, 25, 50, 100, 250},
		TopNSizeWeights: []float64{0.40, 0.25, 0.20, 0.10, 0.05},
	}
}

// ComprehensiveStressTest populates a roster and hammers every store
// operation concurrently for the configured duration.
func ComprehensiveStressTest(b *testing.B, config *StressTestConfig) {
	if config == nil {
		config = DefaultStressTestConfig()
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.TestDuration+time.Minute)
	defer cancel()

	store := NewTreapStore(ctx,
		WithSnapshotInterval(config.SnapshotInterval),
		WithTopCacheSize(config.TopCacheSize),
	)
	defer func() {
		if err := store.Close(); err != nil {
			b.Errorf("failed to close store: %v", err)
		}
	}()

	b.Logf("Pre-populating roster with %d mentors...", config.TotalMentors)
	start := time.Now()
	populateRoster(ctx, store, config.TotalMentors)
	b.Logf("Pre-population completed in %v", time.Since(start))

	b.Log("Running stress mix against all roster operations...")
	perf := runStressMix(ctx, store, config)

	reportStressResults(b, perf, config)
}

// slotBuckets is a realistic availability distribution: a fifth of mentors
// advertise nothing, most offer a handful of slots, a few offer many.
var slotBuckets = []struct {
	min, max int
	weight   float64
}{
	{0, 0, 0.20},
	{1, 2, 0.35},
	{3, 5, 0.30},
	{6, 12, 0.15},
}

var benchSkills = []string{
	"Go", "Rust", "Python", "JavaScript", "React", "Node.js", "Kubernetes",
	"Terraform", "PostgreSQL", "Kafka", "GraphQL", "Machine Learning",
}

var benchCompanies = []string{
	"Finova", "Harbor Health", "Cloudline", "Metric Labs", "Gamecraft",
	"Ledgerworks", "Signal Peak", "Atlas Freight",
}

var benchTitles = []string{
	"Staff Engineer", "Engineering Manager", "Principal Engineer",
	"Product Lead", "Data Engineer", "SRE",
}

// benchRegistration builds a synthetic mentor registration with a weighted
// random availability.
func benchRegistration(r *rand.Rand, mentorID string) (model.MentorRegistration, matching.MentorIndex) {
	expertise := make([]string, 0, 5)
	for _, skill := range benchSkills {
		if r.Float64() < 0.30 {
			expertise = append(expertise, skill)
		}
	}

	slots := pickSlotCount(r)
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
		Title:        benchTitles[r.Intn(len(benchTitles))],
		Company:      benchCompanies[r.Intn(len(benchCompanies))],
		Expertise:    expertise,
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

func pickSlotCount(r *rand.Rand) int {
	roll := r.Float64()
	cumulative := 0.0
	for _, bucket := range slotBuckets {
		cumulative += bucket.weight
		if roll <= cumulative {
			if bucket.max == bucket.min {
				return bucket.min
			}
			return bucket.min + r.Intn(bucket.max-bucket.min+1)
		}
	}
	return 0
}

// populateRoster fills the store with synthetic mentors in parallel
// batches.
func populateRoster(ctx context.Context, store *TreapStore, count int) {
	const batchSize = 10000
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, runtime.NumCPU()*2)

	for i := 0; i < count; i += batchSize {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(startIdx int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			endIdx := startIdx + batchSize
			if endIdx > count {
				endIdx = count
			}

			r := rand.New(rand.NewSource(int64(startIdx))) //nolint:gosec // deterministic population

			for j := startIdx; j < endIdx; j++ {
				reg, idx := benchRegistration(r, fmt.Sprintf("mentor_%d", j))
				_, _ = store.Upsert(ctx, reg, idx)
			}
		}(i)
	}

	wg.Wait()
}

// runStressMix drives all operations simultaneously according to the
// configured ratios.
func runStressMix(ctx context.Context, store *TreapStore, config *StressTestConfig) *APIPerformance {
	var wg sync.WaitGroup

	upsertMetrics := &MetricsCollector{}
	rankMetrics := &MetricsCollector{}
	topNMetrics := &MetricsCollector{}
	poolMetrics := &MetricsCollector{}
	countMetrics := &MetricsCollector{}

	testStart := time.Now()
	deadline := testStart.Add(config.TestDuration)

	for i := 0; i < config.ConcurrentWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(int64(workerID) + time.Now().UnixNano())) //nolint:gosec // stress traffic

			for ctx.Err() == nil && time.Now().Before(deadline) {
				choice := r.Float64()

				switch {
				case choice < config.UpsertRatio:
					reg, idx := benchRegistration(r, fmt.Sprintf("mentor_%d", r.Intn(config.TotalMentors)))

					start := time.Now()
					_, err := store.Upsert(ctx, reg, idx)
					upsertMetrics.Record(time.Since(start), err == nil)

				case choice < config.UpsertRatio+config.RankRatio:
					mentorID := fmt.Sprintf("mentor_%d", r.Intn(config.TotalMentors))

					start := time.Now()
					_, err := store.Rank(ctx, mentorID)
					rankMetrics.Record(time.Since(start), err == nil)

				case choice < config.UpsertRatio+config.RankRatio+config.TopNRatio:
					size := config.TopNSizes[0]
					roll := r.Float64()
					cumulative := 0.0
					for i, weight := range config.TopNSizeWeights {
						cumulative += weight
						if roll <= cumulative {
							size = config.TopNSizes[i]
							break
						}
					}

					start := time.Now()
					_, err := store.TopN(ctx, size)
					topNMetrics.Record(time.Since(start), err == nil)

				case choice < config.UpsertRatio+config.RankRatio+config.TopNRatio+config.PoolRatio:
					start := time.Now()
					_, err := store.Pool(ctx)
					poolMetrics.Record(time.Since(start), err == nil)

				default:
					start := time.Now()
					_ = store.Count(ctx)
					countMetrics.Record(time.Since(start), true)
				}

				time.Sleep(time.Duration(r.Intn(100)) * time.Microsecond)
			}
		}(i)
	}

	wg.Wait()

	totalTime := time.Since(testStart)
	snapshotCount := int64(totalTime / config.SnapshotInterval)

	return &APIPerformance{
		Upsert: upsertMetrics.CalculateResult("Upsert", totalTime, snapshotCount),
		Rank:   rankMetrics.CalculateResult("Rank", totalTime, snapshotCount),
		TopN:   topNMetrics.CalculateResult("TopN", totalTime, snapshotCount),
		Pool:   poolMetrics.CalculateResult("Pool", totalTime, snapshotCount),
		Count:  countMetrics.CalculateResult("Count", totalTime, snapshotCount),
	}
}

// MetricsCollector collects latency and success samples for one operation.
type MetricsCollector struct {
	latencies  []time.Duration
	successOps int64
	totalOps   int64
	mu         sync.Mutex
}

// Record adds a single operation sample.
func (mc *MetricsCollector) Record(latency time.Duration, success bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.latencies = append(mc.latencies, latency)
	mc.totalOps++
	if success {
		mc.successOps++
	}
}

// CalculateResult derives the benchmark result from collected samples.
func (mc *MetricsCollector) CalculateResult(operation string, totalTime time.Duration, snapshotCount int64) *BenchmarkResult {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.latencies) == 0 {
		return &BenchmarkResult{
			Operation:     operation,
			TotalOps:      mc.totalOps,
			TotalTime:     totalTime,
			SnapshotCount: snapshotCount,
			ErrorCount:    mc.totalOps - mc.successOps,
		}
	}

	sorted := make([]time.Duration, len(mc.latencies))
	copy(sorted, mc.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, lat := range mc.latencies {
		total += lat
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &BenchmarkResult{
		Operation:     operation,
		TotalOps:      mc.totalOps,
		TotalTime:     totalTime,
		AvgLatency:    total / time.Duration(len(mc.latencies)),
		P50Latency:    sorted[int(float64(len(sorted))*0.50)],
		P90Latency:    sorted[int(float64(len(sorted))*0.90)],
		P95Latency:    sorted[int(float64(len(sorted))*0.95)],
		P99Latency:    sorted[int(float64(len(sorted))*0.99)],
		Throughput:    float64(mc.totalOps) / totalTime.Seconds(),
		MemoryUsage:   m.Alloc,
		SnapshotCount: snapshotCount,
		ErrorCount:    mc.totalOps - mc.successOps,
		SuccessRate:   float64(mc.successOps) / float64(mc.totalOps) * 100.0,
	}
}

// reportStressResults prints the per-operation summary table.
func reportStressResults(b *testing.B, perf *APIPerformance, config *StressTestConfig) {
	b.Log("\n" + strings.Repeat("=", 100))
	b.Log("ROSTER STRESS TEST REPORT")
	b.Log(strings.Repeat("=", 100))
	b.Logf("Configuration:")
	b.Logf("  Total Mentors: %d", config.TotalMentors)
	b.Logf("  Concurrent Workers: %d", config.ConcurrentWorkers)
	b.Logf("  Snapshot Interval: %v", config.SnapshotInterval)
	b.Logf("  Top Cache Size: %d", config.TopCacheSize)
	b.Logf("  Test Duration: %v", config.TestDuration)
	b.Logf("  Mix: Upsert(%.0f%%) Rank(%.0f%%) TopN(%.0f%%) Pool(%.0f%%)",
		config.UpsertRatio*100, config.RankRatio*100, config.TopNRatio*100, config.PoolRatio*100)
	b.Logf("")

	b.Logf("%-10s %12s %12s %12s %12s %12s %10s %10s",
		"Operation", "Total Ops", "Throughput", "Avg (μs)", "P90 (μs)", "P99 (μs)", "Success%", "Errors")
	b.Log(strings.Repeat("-", 100))

	results := []*BenchmarkResult{perf.Upsert, perf.Rank, perf.TopN, perf.Pool, perf.Count}
	for _, result := range results {
		if result.TotalOps == 0 {
			continue
		}
		b.Logf("%-10s %12d %12.0f %12d %12d %12d %10.1f %10d",
			result.Operation,
			result.TotalOps,
			result.Throughput,
			result.AvgLatency.Microseconds(),
			result.P90Latency.Microseconds(),
			result.P99Latency.Microseconds(),
			result.SuccessRate,
			result.ErrorCount,
		)
	}

	b.Logf("")
	b.Logf("RESOURCE ANALYSIS:")
	for _, result := range results {
		if result.MemoryUsage > 0 {
			b.Logf("  %s Memory Usage: %s", result.Operation, formatBytes(result.MemoryUsage))
			break
		}
	}
	b.Logf("  Snapshots published during test: %d", perf.Upsert.SnapshotCount)
	b.Log(strings.Repeat("=", 100))
}

// formatBytes formats bytes into a human-readable quantity.
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func BenchmarkTreapStoreRosterStress(b *testing.B) {
	if testing.Short() {
		b.Skip("stress benchmark skipped in short mode")
	}
	ComprehensiveStressTest(b, DefaultStressTestConfig())
}

func BenchmarkTreapStoreRegistrationHeavy(b *testing.B) {
	if testing.Short() {
		b.Skip("stress benchmark skipped in short mode")
	}
	config := DefaultStressTestConfig()
	config.UpsertRatio = 0.70
	config.RankRatio = 0.15
	config.TopNRatio = 0.10
	config.PoolRatio = 0.02
	ComprehensiveStressTest(b, config)
}

func BenchmarkTreapStoreReadHeavy(b *testing.B) {
	if testing.Short() {
		b.Skip("stress benchmark skipped in short mode")
	}
	config := DefaultStressTestConfig()
	config.UpsertRatio = 0.10
	config.RankRatio = 0.45
	config.TopNRatio = 0.35
	config.PoolRatio = 0.05
	ComprehensiveStressTest(b, config)
}

func BenchmarkTreapStoreMatchPoolHeavy(b *testing.B) {
	if testing.Short() {
		b.Skip("stress benchmark skipped in short mode")
	}
	config := DefaultStressTestConfig()
	config.TotalMentors = 50_000
	config.UpsertRatio = 0.20
	config.RankRatio = 0.15
	config.TopNRatio = 0.15
	config.PoolRatio = 0.45
	ComprehensiveStressTest(b, config)
}
