package testmatches

import "time"

// Config holds configuration for the roster test
type Config struct {
	BaseURL     string        // Base URL of the service
	NumMentors  int           // Number of mentors to generate
	TopN        int           // Number of top roster entries to fetch
	MatchProbes int           // Number of matchmaking requests to run against the roster
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	OutputFile  string        // Output file for generated mentors
	LogFile     string        // Log file for test output
	Verbose     bool          // Enable verbose logging
}

// Mentor represents a mentor registration payload
type Mentor struct {
	MentorID       string              `json:"mentorId"`
	RegistrationID string              `json:"registrationId"`
	Name           string              `json:"name"`
	Title          string              `json:"title"`
	Company        string              `json:"company"`
	Expertise      []string            `json:"expertise"`
	Availability   map[string][]string `json:"availability"`
	Bio            string              `json:"bio"`
}

// Entry represents a roster entry
type Entry struct {
	Rank     int    `json:"rank"`
	MentorID string `json:"mentor_id"`
	Name     string `json:"name"`
	Slots    int    `json:"slots"`
}

// AckResponse represents the response from mentor registration
type AckResponse struct {
	Status         string `json:"status"`
	Duplicate      bool   `json:"duplicate"`
	RegistrationID string `json:"registrationId"`
	MentorID       string `json:"mentorId"`
}

// Profile represents a mentee profile for matchmaking probes
type Profile struct {
	CurrentSkills     string `json:"currentSkills"`
	DesiredSkills     string `json:"desiredSkills"`
	CareerGoals       string `json:"careerGoals"`
	IndustryInterests string `json:"industryInterests"`
}

// MatchedMentor represents one mentor from a matchmaking response
type MatchedMentor struct {
	Name           string `json:"name"`
	MatchReasoning string `json:"matchReasoning"`
}

// Stats holds test statistics
type Stats struct {
	MentorsGenerated  int
	MentorsSubmitted  int
	MentorsAccepted   int
	MentorsDuplicate  int
	MentorsFailed     int
	RanksRetrieved    int
	RosterEntries     int
	MatchProbesRun    int
	MatchProbesFailed int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
