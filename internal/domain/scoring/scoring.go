// Package scoring turns match evidence into ranked, selectable candidates.
package scoring

import (
	"sort"

	"github.com/mentorverse/sensei/internal/domain/types"
)

// Evidence weights. Desired-skill overlap dominates, industry affinity
// outranks current-skill overlap, and any open availability at all earns a
// flat bonus.
const (
	SkillWeight       = 4
	GrowthWeight      = 2
	IndustryWeight    = 3
	AvailabilityBonus = 1
)

// MaxResults is how many mentors a matchmaking run returns.
const MaxResults = 4

// Score computes the weighted total for one mentor's evidence.
func Score(ev types.Evidence) int {
	score := SkillWeight*len(ev.SkillMatches) +
		GrowthWeight*len(ev.GrowthMatches) +
		IndustryWeight*len(ev.IndustryMatches)
	if ev.Slots > 0 {
		score += AvailabilityBonus
	}
	return score
}

// Candidate pairs one mentor's evidence with its computed score. Index
// refers back into the caller's mentor slice; the engine never reorders or
// mutates the mentors themselves.
type Candidate struct {
	Index    int
	Name     string
	Slots    int
	Score    int
	Evidence types.Evidence
}

// NewCandidate builds a scored candidate from evaluated evidence.
func NewCandidate(index int, name string, ev types.Evidence) Candidate {
	return Candidate{
		Index:    index,
		Name:     name,
		Slots:    ev.Slots,
		Score:    Score(ev),
		Evidence: ev,
	}
}

// Rank sorts candidates in place, best first: higher score, then more open
// slots, then name in plain byte order. The sort is stable, so full ties
// keep their input order.
func Rank(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Slots != b.Slots {
			return a.Slots > b.Slots
		}
		return a.Name < b.Name
	})
}

// Select ranks the candidates and returns the ones to present: the top
// scoring candidates, capped at MaxResults. When no candidate scored at
// all, the best of the full ranking are returned instead and the fallback
// flag is set.
func Select(cands []Candidate) ([]Candidate, bool) {
	Rank(cands)
	scored := make([]Candidate, 0, MaxResults)
	for _, c := range cands {
		if c.Score <= 0 {
			continue
		}
		scored = append(scored, c)
		if len(scored) == MaxResults {
			break
		}
	}
	if len(scored) > 0 {
		return scored, false
	}
	n := len(cands)
	if n > MaxResults {
		n = MaxResults
	}
	return cands[:n], true
}
