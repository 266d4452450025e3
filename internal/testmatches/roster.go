package testmatches

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// retrieveRanks retrieves roster ranks for all mentors concurrently.
func retrieveRanks(ctx context.Context, config *Config, mentors []Mentor, stats *Stats) ([]Entry, error) {
	log.Printf("🏆 Retrieving ranks for %d mentors with %d workers...", len(mentors), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Extract mentor IDs
	mentorIDs := make([]string, len(mentors))
	for i, mentor := range mentors {
		mentorIDs[i] = mentor.MentorID
	}

	// Results storage
	ranks := make([]Entry, len(mentorIDs))
	var (
		retrieved int64
		failed    int64
	)

	// Progress reporting
	var lastReport atomic.Int64
	reportInterval := 1 * time.Second

	// Create worker pool
	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier) // Send indices instead of IDs
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					mentorID := mentorIDs[index]
					entry, err := retrieveSingleRank(ctx, client, config.BaseURL, mentorID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to get rank for %s: %v", mentorID, err)
						}
					} else {
						ranks[index] = entry
						atomic.AddInt64(&retrieved, 1)
					}

					// Progress reporting
					if now := time.Now(); now.UnixNano()-lastReport.Load() >= int64(reportInterval) {
						lastReport.Store(now.UnixNano())
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						ret := atomic.LoadInt64(&retrieved)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Rank progress: %d/%d retrieved (success: %d, failed: %d)",
								total, len(mentorIDs), ret, fail)
						} else {
							log.Printf("\r🏆 Ranks: %d/%d retrieved (success: %d, failed: %d)",
								total, len(mentorIDs), ret, fail)
						}
					}
				}
			}
		}()
	}

	// Send mentor indices to workers
	go func() {
		defer close(indexChan)
		for i := range mentorIDs {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		log.Println() // New line after progress indicator
	}

	// Filter out empty entries (failed retrievals)
	validRanks := make([]Entry, 0, len(ranks))
	for _, entry := range ranks {
		if entry.MentorID != "" { // Empty MentorID indicates failed retrieval
			validRanks = append(validRanks, entry)
		}
	}

	// Update stats
	stats.RanksRetrieved = len(validRanks)

	log.Printf(`✅ Rank retrieval completed:
   Retrieved: %d
   Failed: %d
`, len(validRanks), int(atomic.LoadInt64(&failed)))

	return validRanks, nil
}

// retrieveSingleRank retrieves the roster rank for a single mentor.
func retrieveSingleRank(ctx context.Context, client *HTTPClient, baseURL, mentorID string) (Entry, error) {
	url := fmt.Sprintf("%s/mentors/%s/rank", baseURL, mentorID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return Entry{}, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != StatusOK {
		body, _ := readResponseBody(resp)
		return Entry{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read response: %w", err)
	}

	var entry Entry
	if err := unmarshalJSON(body, &entry); err != nil {
		return Entry{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return entry, nil
}

// getTopRoster retrieves the top N roster entries.
func getTopRoster(ctx context.Context, config *Config, stats *Stats) ([]Entry, error) {
	log.Printf("🥇 Getting top %d roster entries...", config.TopN)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/mentors/top?limit=%d", config.BaseURL, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != StatusOK {
		body, _ := readResponseBody(resp)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var roster []Entry
	if err := unmarshalJSON(body, &roster); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.RosterEntries = len(roster)
	log.Printf("✅ Retrieved %d roster entries", len(roster))

	return roster, nil
}
