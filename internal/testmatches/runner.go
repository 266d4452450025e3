package testmatches

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mentorverse/sensei/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete roster test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting sensei roster test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("mentors", config.NumMentors),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN),
		logger.Int("matchProbes", config.MatchProbes),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate mentors
	mentors, err := generateMentors(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("mentor generation failed: %w", err)
	}

	// Step 3: Register mentors concurrently
	if err := submitMentors(ctx, config, mentors, stats); err != nil {
		return fmt.Errorf("mentor registration failed: %w", err)
	}

	// Step 4: Wait for indexing
	logger.Get().Info(ctx, "waiting for mentors to be indexed")
	time.Sleep(IndexingWait)

	// Step 5: Retrieve ranks concurrently
	ranks, err := retrieveRanks(ctx, config, mentors, stats)
	if err != nil {
		return fmt.Errorf("rank retrieval failed: %w", err)
	}

	// Step 6: Get the top roster
	roster, err := getTopRoster(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("roster retrieval failed: %w", err)
	}

	// Step 7: Run matchmaking probes against the roster
	if err := runMatchProbes(ctx, config, stats); err != nil {
		return fmt.Errorf("matchmaking probes failed: %w", err)
	}

	// Step 8: Verify results
	if err := verifyResults(config, ranks, roster); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 9: Save mentors to file
	if err := saveMentorsToFile(ctx, config, mentors); err != nil {
		logger.Get().Warn(ctx, "failed to save mentors to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveMentorsToFile saves the generated mentors to a JSON file.
func saveMentorsToFile(ctx context.Context, config *Config, mentors []Mentor) error {
	if len(mentors) == 0 {
		return fmt.Errorf("no mentors to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_mentors_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write mentors to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, mentor := range mentors {
		jsonData, err := marshalJSON(mentor)
		if err != nil {
			return fmt.Errorf("failed to marshal mentor %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write mentor %d: %w", i, err)
		}

		// Add comma except for last mentor
		if i < len(mentors)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "mentors saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var acceptRate, mentorsPerSecond float64

	if stats.MentorsSubmitted > 0 {
		acceptRate = float64(stats.MentorsAccepted) / float64(stats.MentorsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		mentorsPerSecond = float64(stats.MentorsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("mentorsGenerated", stats.MentorsGenerated),
		logger.Int("mentorsSubmitted", stats.MentorsSubmitted),
		logger.Int("mentorsAccepted", stats.MentorsAccepted),
		logger.Int("mentorsDuplicate", stats.MentorsDuplicate),
		logger.Int("mentorsFailed", stats.MentorsFailed),
		logger.Int("ranksRetrieved", stats.RanksRetrieved),
		logger.Int("rosterEntries", stats.RosterEntries),
		logger.Int("matchProbesRun", stats.MatchProbesRun),
		logger.Int("matchProbesFailed", stats.MatchProbesFailed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("mentorsPerSecond", mentorsPerSecond))
}
