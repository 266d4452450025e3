package testmatches

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// matchResponse mirrors the matchmaking response envelope.
type matchResponse struct {
	Mentors []MatchedMentor `json:"mentors"`
}

// maxMatches is the number of mentors a matchmaking response may carry.
const maxMatches = 4

// runMatchProbes fires matchmaking requests at the standing roster and
// checks the shape of what comes back.
func runMatchProbes(ctx context.Context, config *Config, stats *Stats) error {
	log.Printf("🤝 Running %d matchmaking probes against the roster...", config.MatchProbes)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/matchmaking/directory"

	for i := 0; i < config.MatchProbes; i++ {
		profile := generateProbeProfile()
		stats.MatchProbesRun++

		matched, err := runSingleProbe(ctx, client, url, profile)
		if err != nil {
			stats.MatchProbesFailed++
			log.Printf("⚠️  Probe %d failed: %v", i+1, err)
			continue
		}

		if config.Verbose {
			names := make([]string, len(matched))
			for j, m := range matched {
				names[j] = m.Name
			}
			log.Printf("📊 Probe %d (wants %q): matched [%s]", i+1, profile.DesiredSkills, strings.Join(names, ", "))
		}
	}

	log.Printf(`✅ Matchmaking probes completed:
   Run: %d
   Failed: %d
`, stats.MatchProbesRun, stats.MatchProbesFailed)

	return nil
}

// runSingleProbe posts one profile and validates the response shape.
func runSingleProbe(ctx context.Context, client *HTTPClient, url string, profile Profile) ([]MatchedMentor, error) {
	payload := struct {
		Profile Profile `json:"profile"`
	}{Profile: profile}

	resp, err := client.Post(ctx, url, payload)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var result matchResponse
	if err := unmarshalJSON(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(result.Mentors) > maxMatches {
		return nil, fmt.Errorf("response carries %d mentors, expected at most %d", len(result.Mentors), maxMatches)
	}
	for _, m := range result.Mentors {
		if m.MatchReasoning == "" {
			return nil, fmt.Errorf("mentor %q came back without match reasoning", m.Name)
		}
	}

	return result.Mentors, nil
}

// generateProbeProfile builds a mentee profile from the same pools the
// mentor generator draws from, so probes land real skill overlaps.
func generateProbeProfile() Profile {
	return Profile{
		CurrentSkills:     strings.Join(pickSome(skills, 2), ", "),
		DesiredSkills:     strings.Join(pickSome(skills, 2), ", "),
		CareerGoals:       pickOne(careerGoals),
		IndustryInterests: strings.Join(pickSome(industries, 2), ", "),
	}
}
