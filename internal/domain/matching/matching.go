// Package matching derives match evidence between a mentee profile and a
// mentor. All comparisons are case-insensitive, unanchored substring checks:
// the token "js" matches the expertise entry "JavaScript", but an expertise
// entry never matches a longer mentee token.
package matching

import (
	"strings"

	"github.com/mentorverse/sensei/internal/domain/model"
	"github.com/mentorverse/sensei/internal/domain/token"
	"github.com/mentorverse/sensei/internal/domain/types"
)

// MenteeIndex is the tokenized form of a mentee profile, ready to be
// evaluated against any number of mentors.
type MenteeIndex struct {
	Current  token.Set
	Desired  token.Set
	Industry token.Set
}

// IndexMentee tokenizes the profile fields that drive matching. careerGoals
// is accepted and trimmed upstream but never tokenized.
func IndexMentee(p model.MenteeProfile) MenteeIndex {
	t := p.Trimmed()
	return MenteeIndex{
		Current:  token.Tokenize(t.CurrentSkills),
		Desired:  token.Tokenize(t.DesiredSkills),
		Industry: token.Tokenize(t.IndustryInterests),
	}
}

// MentorIndex holds one mentor's precomputed search surfaces. Building it
// once per mentor lets the roster evaluate many profiles without
// re-lowercasing anything.
type MentorIndex struct {
	// Slots is the mentor's availability slot count at indexing time.
	Slots int

	expertise      []string
	expertiseLower []string
	// surfaces are the lowercased company, title, space-joined expertise,
	// and bio, in that order. Industry phrases are searched in each one
	// separately, never in a concatenation of them.
	surfaces [4]string
}

// IndexMentor precomputes the mentor's lowercased search surfaces.
func IndexMentor(m model.Mentor) MentorIndex {
	idx := MentorIndex{
		Slots:          m.SlotCount(),
		expertise:      m.Expertise,
		expertiseLower: make([]string, len(m.Expertise)),
	}
	for i, e := range m.Expertise {
		idx.expertiseLower[i] = strings.ToLower(e)
	}
	idx.surfaces = [4]string{
		strings.ToLower(m.Company),
		strings.ToLower(m.Title),
		strings.ToLower(strings.Join(m.Expertise, " ")),
		strings.ToLower(m.Bio),
	}
	return idx
}

// Evaluate computes the full match evidence for one mentor against a
// tokenized mentee profile.
func Evaluate(mentee MenteeIndex, mentor MentorIndex) types.Evidence {
	return types.Evidence{
		SkillMatches:    mentor.expertiseMatching(mentee.Desired),
		GrowthMatches:   mentor.expertiseMatching(mentee.Current),
		IndustryMatches: mentor.industriesMatching(mentee.Industry),
		Slots:           mentor.Slots,
	}
}

// expertiseMatching returns the expertise entries, original casing and
// first-seen order, that contain any of the token values as a substring.
// Entries are deduplicated by their exact text, so "Go" and "go" both
// survive.
func (x MentorIndex) expertiseMatching(tokens token.Set) []string {
	var matches []string
	var seen map[string]struct{}
	for i, lower := range x.expertiseLower {
		if !tokens.MatchesAny(lower) {
			continue
		}
		if seen == nil {
			seen = make(map[string]struct{}, len(x.expertise)-i)
		}
		if _, ok := seen[x.expertise[i]]; ok {
			continue
		}
		seen[x.expertise[i]] = struct{}{}
		matches = append(matches, x.expertise[i])
	}
	return matches
}

// industriesMatching returns the mentee's industry phrases, original casing,
// whose lowercase form appears in at least one of the mentor's surfaces.
func (x MentorIndex) industriesMatching(tokens token.Set) []string {
	var matches []string
	var seen map[string]struct{}
	for _, p := range tokens.Phrases {
		if !x.containsPhrase(p.Lower) {
			continue
		}
		if seen == nil {
			seen = make(map[string]struct{}, len(tokens.Phrases))
		}
		if _, ok := seen[p.Original]; ok {
			continue
		}
		seen[p.Original] = struct{}{}
		matches = append(matches, p.Original)
	}
	return matches
}

func (x MentorIndex) containsPhrase(lower string) bool {
	for _, s := range x.surfaces {
		if strings.Contains(s, lower) {
			return true
		}
	}
	return false
}
