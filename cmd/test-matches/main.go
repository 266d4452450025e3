package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/mentorverse/sensei/internal/testmatches"
)

// Default configuration constants.
const (
	defaultNumMentors  = 10000
	defaultTopN        = 50
	defaultMatchProbes = 20
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numMentors  = flag.Int("mentors", defaultNumMentors, "Number of mentors to generate and register")
		topN        = flag.Int("top", defaultTopN, "Number of top entries to fetch from the roster")
		matchProbes = flag.Int("probes", defaultMatchProbes, "Number of matchmaking requests to run against the roster")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile  = flag.String("output", "", "Output file for generated mentors (default: generated_mentors_TIMESTAMP.json)")
		logFile     = flag.String("log", "", "Log file for test output (default: test_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testmatches.ShowHelp()
		return
	}

	// Setup logging
	if err := testmatches.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	// Create test configuration
	config := &testmatches.Config{
		BaseURL:     *baseURL,
		NumMentors:  *numMentors,
		TopN:        *topN,
		MatchProbes: *matchProbes,
		Workers:     *workers,
		Timeout:     *timeout,
		OutputFile:  *outputFile,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	// Run the test
	if err := testmatches.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		return
	}
}
