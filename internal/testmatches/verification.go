package testmatches

import (
	"fmt"
	"log"
	"sort"
)

// verifyResults verifies the consistency of ranks and the top roster.
func verifyResults(config *Config, ranks, roster []Entry) error {
	log.Println("🔍 Verifying results...")

	if len(ranks) == 0 {
		return fmt.Errorf("no ranks to verify")
	}

	// Sort ranks by slots (descending) to get the most available mentors
	sortedRanks := make([]Entry, len(ranks))
	copy(sortedRanks, ranks)
	sort.Slice(sortedRanks, func(i, j int) bool {
		return sortedRanks[i].Slots > sortedRanks[j].Slots
	})

	// Verify roster consistency if we have roster data
	if len(roster) > 0 {
		if err := verifyRosterConsistency(sortedRanks, roster); err != nil {
			log.Printf("⚠️  Roster consistency warning: %v", err)
		} else {
			log.Println("✅ Roster consistency verified")
		}
	}

	// Display the most available mentors
	displayMostAvailable(sortedRanks, roster, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// verifyRosterConsistency checks the top roster against individual ranks.
func verifyRosterConsistency(sortedRanks, roster []Entry) error {
	if len(roster) == 0 {
		return fmt.Errorf("empty roster")
	}

	// The top roster entry must carry the highest slot count seen across
	// individual rank lookups. IDs can differ when mentors tie on slots.
	topRank := sortedRanks[0]
	topRoster := roster[0]

	if topRoster.Slots != topRank.Slots {
		return fmt.Errorf("top roster entry has %d slots, expected %d from individual ranks",
			topRoster.Slots, topRank.Slots)
	}

	// Check the roster is ordered by open slots
	for i := 1; i < len(roster); i++ {
		if roster[i].Slots > roster[i-1].Slots {
			return fmt.Errorf("roster not properly sorted: entry %d has more slots than entry %d",
				i, i-1)
		}
	}

	// Ranks never improve as slots drop
	for i := 1; i < len(roster); i++ {
		if roster[i].Rank < roster[i-1].Rank {
			return fmt.Errorf("roster ranks out of order: entry %d ranked %d above entry %d ranked %d",
				i, roster[i].Rank, i-1, roster[i-1].Rank)
		}
	}

	return nil
}

// displayMostAvailable shows the most available mentors from ranks and roster.
func displayMostAvailable(sortedRanks, roster []Entry, verbose bool) {
	topN := 10
	if len(sortedRanks) < topN {
		topN = len(sortedRanks)
	}

	log.Printf("🏆 Top %d mentors from individual ranks:", topN)
	for i := 0; i < topN; i++ {
		entry := sortedRanks[i]
		log.Printf("   %d. %s (%s) - Slots: %d", i+1, entry.Name, entry.MentorID, entry.Slots)
	}

	if len(roster) > 0 {
		rosterTopN := topN
		if len(roster) < rosterTopN {
			rosterTopN = len(roster)
		}

		log.Printf("🥇 Top %d mentors from roster:", rosterTopN)
		for i := 0; i < rosterTopN; i++ {
			entry := roster[i]
			log.Printf("   %d. %s (%s) - Slots: %d", entry.Rank, entry.Name, entry.MentorID, entry.Slots)
		}
	}

	if verbose {
		// Show some statistics
		if len(sortedRanks) > 0 {
			avgSlots := calculateAverageSlots(sortedRanks)
			maxSlots := sortedRanks[0].Slots
			minSlots := sortedRanks[len(sortedRanks)-1].Slots

			log.Printf(`📊 Slot statistics:
   Average: %.2f
   Maximum: %d
   Minimum: %d
`, avgSlots, maxSlots, minSlots)
		}
	}
}

// calculateAverageSlots calculates the average open slots across ranks.
func calculateAverageSlots(ranks []Entry) float64 {
	if len(ranks) == 0 {
		return 0
	}

	sum := 0
	for _, entry := range ranks {
		sum += entry.Slots
	}

	return float64(sum) / float64(len(ranks))
}
