// Package model contains domain models passed between layers.
//
// The matchmaking request types decode themselves leniently: shape problems
// (wrong JSON types, non-array expertise, non-object availability) are
// collected as field issues instead of aborting the decode, so validation
// can report every violation in one response. Mentor objects keep their raw
// wire fields so unknown fields round-trip into the match output untouched.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// MenteeProfile is the free-text query a mentee submits.
//
// careerGoals is validated and trimmed like the other fields but never
// influences scoring. The engine keeps accepting it so existing clients do
// not break; see the package tests for the pinned behavior.
type MenteeProfile struct {
	CurrentSkills     string `json:"currentSkills" validate:"required,notblank"`
	DesiredSkills     string `json:"desiredSkills" validate:"required,notblank"`
	CareerGoals       string `json:"careerGoals" validate:"required,notblank"`
	IndustryInterests string `json:"industryInterests" validate:"required,notblank"`

	issues []FieldError
}

// UnmarshalJSON decodes the profile from a JSON object, recording a field
// issue for every non-string value instead of failing the whole decode.
func (p *MenteeProfile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.issues = nil
	p.CurrentSkills = stringField(raw, "currentSkills", &p.issues)
	p.DesiredSkills = stringField(raw, "desiredSkills", &p.issues)
	p.CareerGoals = stringField(raw, "careerGoals", &p.issues)
	p.IndustryInterests = stringField(raw, "industryInterests", &p.issues)
	return nil
}

// Trimmed returns a copy of the profile with all fields whitespace-trimmed.
func (p MenteeProfile) Trimmed() MenteeProfile {
	return MenteeProfile{
		CurrentSkills:     strings.TrimSpace(p.CurrentSkills),
		DesiredSkills:     strings.TrimSpace(p.DesiredSkills),
		CareerGoals:       strings.TrimSpace(p.CareerGoals),
		IndustryInterests: strings.TrimSpace(p.IndustryInterests),
	}
}

// Mentor is one candidate in a matchmaking pool.
//
// Only the typed fields below are read by the engine. Every other field on
// the wire object is preserved verbatim and echoed back in the output.
type Mentor struct {
	Name         string         `json:"name" validate:"required,notblank"`
	Title        string         `json:"title" validate:"required,notblank"`
	Company      string         `json:"company" validate:"required,notblank"`
	Expertise    []string       `json:"expertise,omitempty"`
	Availability map[string]any `json:"availability,omitempty"`
	Bio          string         `json:"bio,omitempty"`

	raw    map[string]json.RawMessage
	issues []FieldError
}

// UnmarshalJSON decodes a mentor from a JSON object, keeping the raw fields
// for pass-through and recording shape issues instead of failing.
func (m *Mentor) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.raw = raw
	m.issues = nil

	m.Name = stringField(raw, "name", &m.issues)
	m.Title = stringField(raw, "title", &m.issues)
	m.Company = stringField(raw, "company", &m.issues)
	m.Bio = stringField(raw, "bio", &m.issues)

	m.Expertise = nil
	if v, ok := raw["expertise"]; ok && !isNull(v) {
		var items []json.RawMessage
		if err := json.Unmarshal(v, &items); err != nil {
			m.issues = append(m.issues, FieldError{Param: "expertise", Msg: "must be an array"})
		} else {
			m.Expertise = make([]string, 0, len(items))
			for i, item := range items {
				var s string
				// null decodes into "" without an error, so check it apart.
				if isNull(item) || json.Unmarshal(item, &s) != nil {
					m.issues = append(m.issues, FieldError{Param: fmt.Sprintf("expertise[%d]", i), Msg: "must be a string"})
					continue
				}
				m.Expertise = append(m.Expertise, s)
			}
		}
	}

	m.Availability = nil
	if v, ok := raw["availability"]; ok && !isNull(v) {
		var avail map[string]any
		if err := json.Unmarshal(v, &avail); err != nil {
			m.issues = append(m.issues, FieldError{Param: "availability", Msg: "must be an object"})
		} else {
			m.Availability = avail
		}
	}

	return nil
}

// MarshalJSON writes the mentor's original wire fields when it came off the
// wire, or the typed fields for mentors constructed in code.
func (m Mentor) MarshalJSON() ([]byte, error) {
	if m.raw != nil {
		return json.Marshal(m.raw)
	}
	type plain struct {
		Name         string         `json:"name"`
		Title        string         `json:"title"`
		Company      string         `json:"company"`
		Expertise    []string       `json:"expertise,omitempty"`
		Availability map[string]any `json:"availability,omitempty"`
		Bio          string         `json:"bio,omitempty"`
	}
	return json.Marshal(plain{
		Name:         m.Name,
		Title:        m.Title,
		Company:      m.Company,
		Expertise:    m.Expertise,
		Availability: m.Availability,
		Bio:          m.Bio,
	})
}

// SlotCount sums the mentor's advertised availability slots. Only
// array-valued entries count; any other value shape contributes nothing.
func (m Mentor) SlotCount() int {
	total := 0
	for _, v := range m.Availability {
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice {
			total += rv.Len()
		}
	}
	return total
}

// ExtraString reads a top-level string field outside the typed mentor
// schema, such as an external identifier the caller sent along. The bool
// reports whether the field was present as a string.
func (m Mentor) ExtraString(key string) (string, bool) {
	v, ok := m.raw[key]
	if !ok || isNull(v) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}

// MatchedMentor is a mentor selected for a mentee, annotated with the
// synthesized justification. Marshaling echoes every original mentor field
// plus exactly one new field, matchReasoning.
type MatchedMentor struct {
	Mentor
	MatchReasoning string
}

// MarshalJSON emits the original mentor object with matchReasoning added.
func (m MatchedMentor) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(m.Mentor)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	reason, err := json.Marshal(m.MatchReasoning)
	if err != nil {
		return nil, err
	}
	fields["matchReasoning"] = reason
	return json.Marshal(fields)
}

// MatchRequest is the full matchmaking payload: one mentee profile and the
// candidate mentor pool.
type MatchRequest struct {
	Profile MenteeProfile `json:"profile"`
	Mentors []Mentor      `json:"mentors" validate:"required,min=1,dive"`

	issues []FieldError
}

// UnmarshalJSON decodes the request, converting structural problems into
// field issues so Validate can report them alongside semantic ones.
func (r *MatchRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Profile json.RawMessage `json:"profile"`
		Mentors json.RawMessage `json:"mentors"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.issues = nil

	r.Profile = MenteeProfile{}
	if len(raw.Profile) > 0 && !isNull(raw.Profile) {
		if err := json.Unmarshal(raw.Profile, &r.Profile); err != nil {
			r.issues = append(r.issues, FieldError{Param: "profile", Msg: "must be an object"})
		}
	}

	r.Mentors = nil
	if len(raw.Mentors) > 0 && !isNull(raw.Mentors) {
		var items []json.RawMessage
		if err := json.Unmarshal(raw.Mentors, &items); err != nil {
			r.issues = append(r.issues, FieldError{Param: "mentors", Msg: "must be an array"})
		} else {
			r.Mentors = make([]Mentor, len(items))
			for i, item := range items {
				if err := json.Unmarshal(item, &r.Mentors[i]); err != nil {
					r.issues = append(r.issues, FieldError{Param: fmt.Sprintf("mentors[%d]", i), Msg: "must be an object"})
					r.Mentors[i] = Mentor{}
				}
			}
		}
	}

	return nil
}

// RosterMatchRequest asks for matches against the registered mentor roster,
// so it carries only the mentee profile.
type RosterMatchRequest struct {
	Profile MenteeProfile `json:"profile"`

	issues []FieldError
}

// UnmarshalJSON decodes the roster request in the same lenient way as
// MatchRequest.
func (r *RosterMatchRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Profile json.RawMessage `json:"profile"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.issues = nil
	r.Profile = MenteeProfile{}
	if len(raw.Profile) > 0 && !isNull(raw.Profile) {
		if err := json.Unmarshal(raw.Profile, &r.Profile); err != nil {
			r.issues = append(r.issues, FieldError{Param: "profile", Msg: "must be an object"})
		}
	}
	return nil
}

// MentorRegistration wraps a mentor submitted to the roster intake queue.
type MentorRegistration struct {
	ID         string    // unique id for idempotency
	MentorID   string    // stable roster identity, survives re-registration
	Mentor     Mentor    // the mentor to index
	ReceivedAt time.Time // intake timestamp
}

// stringField extracts a string value from raw, recording an issue when the
// value is present but not a string. Absent and null values yield "".
func stringField(raw map[string]json.RawMessage, key string, issues *[]FieldError) string {
	v, ok := raw[key]
	if !ok || isNull(v) {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		*issues = append(*issues, FieldError{Param: key, Msg: "must be a string"})
		return ""
	}
	return s
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
