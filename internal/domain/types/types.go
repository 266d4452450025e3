// Package types contains common types used across the application
package types

// Evidence collects everything a mentor matched against a mentee query.
//
// The three lists keep original casing and first-seen order; Slots is the
// total number of open availability slots the mentor advertised.
type Evidence struct {
	SkillMatches    []string
	GrowthMatches   []string
	IndustryMatches []string
	Slots           int
}

// HasMatches reports whether any textual evidence was collected.
func (e Evidence) HasMatches() bool {
	return len(e.SkillMatches) > 0 || len(e.GrowthMatches) > 0 || len(e.IndustryMatches) > 0
}

// Entry represents a roster entry ranked by open availability.
type Entry struct {
	Rank     int    `json:"rank"`
	MentorID string `json:"mentor_id"`
	Name     string `json:"name"`
	Slots    int    `json:"slots"`
}

// RegistrationOutcome reports how a mentor intake submission was handled.
type RegistrationOutcome struct {
	RegistrationID string `json:"registrationId"`
	MentorID       string `json:"mentorId"`
	Duplicate      bool   `json:"duplicate"`
}
