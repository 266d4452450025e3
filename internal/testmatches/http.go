package testmatches

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitMentors registers mentors concurrently using worker pools
func submitMentors(ctx context.Context, config *Config, mentors []Mentor, stats *Stats) error {
	log.Printf("📤 Registering %d mentors with %d workers...", len(mentors), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/mentors"

	// Counters for statistics
	var (
		accepted  int64
		duplicate int64
		failed    int64
		submitted int64
	)

	// Progress reporting
	var lastReport atomic.Int64
	reportInterval := 1 * time.Second

	// Create worker pool
	mentorChan := make(chan Mentor, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for mentor := range mentorChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleMentor(ctx, client, url, mentor)

					// Update counters
					atomic.AddInt64(&submitted, 1)
					switch result {
					case "accepted":
						atomic.AddInt64(&accepted, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting
					if now := time.Now(); now.UnixNano()-lastReport.Load() >= int64(reportInterval) {
						lastReport.Store(now.UnixNano())
						total := atomic.LoadInt64(&submitted)
						acc := atomic.LoadInt64(&accepted)
						dup := atomic.LoadInt64(&duplicate)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d submitted (accepted: %d, duplicate: %d, failed: %d)",
								total, len(mentors), acc, dup, fail)
						} else {
							fmt.Printf("\r📤 Submitted: %d/%d (accepted: %d, duplicate: %d, failed: %d)",
								total, len(mentors), acc, dup, fail)
						}
					}
				}
			}
		}()
	}

	// Send mentors to workers
	go func() {
		defer close(mentorChan)
		for _, mentor := range mentors {
			select {
			case <-ctx.Done():
				return
			case mentorChan <- mentor:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Resubmit a handful of payloads to confirm intake is idempotent.
	probes := minInt(DuplicateProbeCount, len(mentors))
	for i := 0; i < probes; i++ {
		if submitSingleMentor(ctx, client, url, mentors[i]) == "duplicate" {
			duplicate++
		} else {
			failed++
		}
		submitted++
	}
	if probes > 0 {
		log.Printf("🔁 Resubmitted %d mentors; %d acknowledged as duplicates", probes, duplicate)
	}

	// Update stats
	stats.MentorsSubmitted = int(submitted)
	stats.MentorsAccepted = int(accepted)
	stats.MentorsDuplicate = int(duplicate)
	stats.MentorsFailed = int(failed)

	log.Printf(`✅ Mentor registration completed:
   Accepted: %d
   Duplicate: %d
   Failed: %d
`, stats.MentorsAccepted, stats.MentorsDuplicate, stats.MentorsFailed)

	return nil
}

// submitSingleMentor registers a single mentor and returns the result
func submitSingleMentor(ctx context.Context, client *HTTPClient, url string, mentor Mentor) string {
	resp, err := client.Post(ctx, url, mentor)
	if err != nil {
		return "failed"
	}

	// Read response body
	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	// Parse response based on status code
	switch resp.StatusCode {
	case StatusAccepted:
		// Accepted - new registration
		var ack AckResponse
		if err := unmarshalJSON(body, &ack); err == nil && ack.Status == "accepted" {
			return "accepted"
		}
		return "accepted" // Assume accepted for 202 even if parsing fails
	case StatusOK:
		// OK - duplicate registration
		var ack AckResponse
		if err := unmarshalJSON(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate" // Assume duplicate for 200 even if parsing fails
	default:
		// Error
		return "failed"
	}
}
