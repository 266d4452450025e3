// Package matchmaker runs the matchmaking pipeline: tokenize the mentee
// profile, evaluate every mentor in the pool, rank, select, and annotate
// the winners with a justification.
//
// The pipeline is a pure function of its inputs. It keeps no state between
// runs and never mutates the mentor pool, so callers may invoke it from any
// number of goroutines.
package matchmaker

import (
	"github.com/mentorverse/sensei/internal/domain/matching"
	"github.com/mentorverse/sensei/internal/domain/model"
	"github.com/mentorverse/sensei/internal/domain/reasoning"
	"github.com/mentorverse/sensei/internal/domain/scoring"
)

// PoolEntry pairs a mentor with its precomputed match index. The roster
// keeps these so repeated matchmaking runs skip re-tokenizing.
type PoolEntry struct {
	Mentor model.Mentor
	Index  matching.MentorIndex
}

// Result is the outcome of one matchmaking run.
type Result struct {
	// Mentors are the selected mentors, best first, each annotated with
	// its justification. Never longer than scoring.MaxResults.
	Mentors []model.MatchedMentor
	// Fallback reports that no mentor scored above zero and the head of
	// the full ranking was returned instead.
	Fallback bool
	// TopScore is the best score seen across the whole pool.
	TopScore int
}

// Match evaluates every mentor against the profile and returns the
// selection. The mentors slice is read only; output records echo the
// original mentor fields untouched.
func Match(profile model.MenteeProfile, mentors []model.Mentor) Result {
	pool := make([]PoolEntry, len(mentors))
	for i, m := range mentors {
		pool[i] = PoolEntry{Mentor: m, Index: matching.IndexMentor(m)}
	}
	return MatchPool(profile, pool)
}

// MatchPool runs the pipeline over pre-indexed entries.
func MatchPool(profile model.MenteeProfile, pool []PoolEntry) Result {
	mentee := matching.IndexMentee(profile)
	cands := make([]scoring.Candidate, len(pool))
	top := 0
	for i := range pool {
		ev := matching.Evaluate(mentee, pool[i].Index)
		cands[i] = scoring.NewCandidate(i, pool[i].Mentor.Name, ev)
		if cands[i].Score > top {
			top = cands[i].Score
		}
	}

	picked, fallback := scoring.Select(cands)
	matched := make([]model.MatchedMentor, len(picked))
	for i, c := range picked {
		m := pool[c.Index].Mentor
		matched[i] = model.MatchedMentor{
			Mentor:         m,
			MatchReasoning: reasoning.Compose(m.Title, m.Company, c.Evidence),
		}
	}
	return Result{Mentors: matched, Fallback: fallback, TopScore: top}
}
