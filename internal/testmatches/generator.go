package testmatches

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/mentorverse/sensei/pkg/logger"
)

// Constants for random number generation.
const (
	availabilityCaseCount = 8
	maxSlotsPerDay        = 4
)

// Constants for availability generation ranges (total open slots per week).
const (
	lightMin     = 1
	lightRange   = 2
	typicalMin   = 3
	typicalRange = 3
	busyMin      = 6
	busyRange    = 4
	eliteMin     = 10
	eliteRange   = 6
)

// Constants for availability type cases.
const (
	caseFullyBooked  = 0
	caseLightOne     = 1
	caseLightTwo     = 2
	caseTypicalOne   = 3
	caseTypicalTwo   = 4
	caseTypicalThree = 5
	caseBusy         = 6
	caseElite        = 7
)

// Pools for mentor field generation.
var (
	firstNames = []string{
		"Ada", "Grace", "Alan", "Barbara", "Donald", "Edsger", "Frances",
		"Hedy", "Katherine", "Leslie", "Margaret", "Niklaus", "Radia",
		"Tim", "Vint", "Lynn", "Dennis", "Ken", "Rob", "Russ",
	}
	lastNames = []string{
		"Lovelace", "Hopper", "Kay", "Liskov", "Knuth", "Dijkstra", "Allen",
		"Lamarr", "Johnson", "Lamport", "Hamilton", "Wirth", "Perlman",
		"Lee", "Cerf", "Conway", "Ritchie", "Thompson", "Pike", "Cox",
	}
	titles = []string{
		"Staff Engineer", "Engineering Manager", "Frontend Architect",
		"Backend Lead", "Data Scientist", "Platform Engineer",
		"Product Manager", "SRE Lead", "Mobile Developer", "CTO",
	}
	companies = []string{
		"Finova", "DataCo", "Healthly", "ShipFast", "CloudNine",
		"GameForge", "EduSpark", "GreenGrid", "MediaHaus", "SecureNet",
	}
	skills = []string{
		"React", "TypeScript", "Go", "Python", "Kubernetes", "SQL",
		"Machine Learning", "GraphQL", "Rust", "Terraform",
		"System Design", "Data Engineering", "iOS", "Android",
		"Product Strategy", "Public Speaking",
	}
	industries = []string{
		"fintech", "healthcare", "e-commerce", "gaming", "education",
		"logistics", "climate tech", "media", "security", "developer tools",
	}
	days = []string{
		"monday", "tuesday", "wednesday", "thursday", "friday",
		"saturday", "sunday",
	}
	slotTimes = []string{
		"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00", "17:00",
	}
	careerGoals = []string{
		"become a frontend lead",
		"move into engineering management",
		"transition into data science",
		"grow into a staff engineer role",
		"start a company",
	}
)

// randomInt returns a random int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// pickOne returns a random element from pool.
func pickOne(pool []string) string {
	return pool[randomInt(len(pool))]
}

// pickSome returns count distinct elements from pool, fewer if pool is smaller.
func pickSome(pool []string, count int) []string {
	if count > len(pool) {
		count = len(pool)
	}
	picked := make([]string, 0, count)
	used := make(map[int]bool, count)
	for len(picked) < count {
		i := randomInt(len(pool))
		if used[i] {
			continue
		}
		used[i] = true
		picked = append(picked, pool[i])
	}
	return picked
}

// generateMentors creates the specified number of mentors with unique mentor IDs.
func generateMentors(ctx context.Context, config *Config, stats *Stats) ([]Mentor, error) {
	logger.Get().Info(ctx, "generating mentors with unique mentor IDs", logger.Int("numMentors", config.NumMentors))

	mentors := make([]Mentor, config.NumMentors)

	// Pre-allocate mentor IDs to ensure uniqueness
	mentorIDs := make([]string, config.NumMentors)
	for i := 0; i < config.NumMentors; i++ {
		mentorIDs[i] = fmt.Sprintf("loadtest-%d-%s", i, uuid.New().String())
	}

	// Generate mentors concurrently
	type mentorResult struct {
		index  int
		mentor Mentor
		err    error
	}

	resultChan := make(chan mentorResult, config.NumMentors)

	// Use worker pool for mentor generation
	workerCount := minInt(config.Workers, config.NumMentors)
	mentorsPerWorker := config.NumMentors / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * mentorsPerWorker
		end := start + mentorsPerWorker
		if worker == workerCount-1 {
			end = config.NumMentors // Last worker gets remaining mentors
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- mentorResult{index: i, err: ctx.Err()}
					return
				default:
					mentor := generateSingleMentor(i, mentorIDs[i])
					resultChan <- mentorResult{index: i, mentor: mentor, err: nil}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumMentors; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during mentor generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate mentor %d: %w", result.index, result.err)
			}
			mentors[result.index] = result.mentor
		}
	}

	stats.MentorsGenerated = len(mentors)
	logger.Get().Info(ctx, "generated mentors successfully", logger.Int("count", len(mentors)))

	return mentors, nil
}

// generateSingleMentor creates a single mentor with the given index and mentor ID.
func generateSingleMentor(index int, mentorID string) Mentor {
	name := fmt.Sprintf("%s %s", pickOne(firstNames), pickOne(lastNames))
	expertise := pickSome(skills, 2+randomInt(3))
	industry := pickOne(industries)
	other := pickOne(industries)

	return Mentor{
		MentorID:       mentorID,
		RegistrationID: uuid.New().String(),
		Name:           name,
		Title:          pickOne(titles),
		Company:        pickOne(companies),
		Expertise:      expertise,
		Availability:   generateVariedAvailability(),
		Bio:            fmt.Sprintf("Mentor #%d. Deep background in %s and %s.", index, industry, other),
	}
}

// generateVariedAvailability creates a weekly schedule with a varied
// open-slot distribution, from fully booked out to elite availability.
func generateVariedAvailability() map[string][]string {
	var total int
	switch randomInt(availabilityCaseCount) {
	case caseFullyBooked:
		// Fully booked (0 slots) - rare
		total = 0
	case caseLightOne, caseLightTwo:
		// Light availability (1 - 2)
		total = lightMin + randomInt(lightRange)
	case caseTypicalOne, caseTypicalTwo, caseTypicalThree:
		// Typical availability (3 - 5) - most common
		total = typicalMin + randomInt(typicalRange)
	case caseBusy:
		// Busy weeks carved open (6 - 9)
		total = busyMin + randomInt(busyRange)
	case caseElite:
		// Elite availability (10 - 15) - rare
		total = eliteMin + randomInt(eliteRange)
	}

	availability := make(map[string][]string)
	for total > 0 {
		day := pickOne(days)
		slots := 1 + randomInt(maxSlotsPerDay)
		if slots > total {
			slots = total
		}
		for s := 0; s < slots; s++ {
			availability[day] = append(availability[day], slotTimes[s%len(slotTimes)])
		}
		total -= slots
	}
	return availability
}

// totalSlots counts the open slots across a mentor's week.
func totalSlots(m Mentor) int {
	total := 0
	for _, times := range m.Availability {
		total += len(times)
	}
	return total
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
