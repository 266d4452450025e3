// Package reasoning synthesizes the mentee-facing justification sentence
// for a matched mentor.
package reasoning

import (
	"fmt"
	"strings"

	"github.com/mentorverse/sensei/internal/domain/types"
)

// Clause caps: at most three skills and two industries are ever named.
const (
	maxNamedSkills     = 3
	maxNamedIndustries = 2
)

// Compose builds the justification from the applicable clauses, joined with
// ". " and closed with a final period. Clause order is fixed: expertise (or,
// only when no expertise matched, growth), then industry, then availability.
// A mentor with no evidence at all falls back to a background clause built
// from the title and company verbatim.
func Compose(title, company string, ev types.Evidence) string {
	var clauses []string
	switch {
	case len(ev.SkillMatches) > 0:
		clauses = append(clauses, "Expert in "+joinTitled(ev.SkillMatches, maxNamedSkills, ", "))
	case len(ev.GrowthMatches) > 0:
		clauses = append(clauses, "Experienced with your current skills: "+joinTitled(ev.GrowthMatches, maxNamedSkills, ", "))
	}
	if len(ev.IndustryMatches) > 0 {
		clauses = append(clauses, "Works closely with "+joinTitled(ev.IndustryMatches, maxNamedIndustries, " & "))
	}
	if ev.Slots > 0 {
		clauses = append(clauses, fmt.Sprintf("Has %d upcoming time slot%s available", ev.Slots, plural(ev.Slots)))
	}
	if len(clauses) == 0 {
		clauses = append(clauses, fmt.Sprintf("Strong background as %s at %s", title, company))
	}
	return strings.Join(clauses, ". ") + "."
}

// TitleCase lowercases s and then uppercases the first letter of every
// word run, where word characters are ASCII letters, digits and
// underscores only. The transform is deliberately naive: it is not
// unicode-aware, so accented letters behave as word boundaries, and
// interior capitals are lost ("FinTech" comes out "Fintech"). Output
// strings are pinned by downstream consumers; do not switch this to a
// proper title-casing routine.
func TitleCase(s string) string {
	lower := strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(lower))
	prevWord := false
	for _, r := range lower {
		if !prevWord && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		b.WriteRune(r)
		prevWord = isWordChar(r)
	}
	return b.String()
}

func isWordChar(r rune) bool {
	return r == '_' ||
		(r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z')
}

func joinTitled(items []string, limit int, sep string) string {
	if len(items) > limit {
		items = items[:limit]
	}
	titled := make([]string, len(items))
	for i, item := range items {
		titled[i] = TitleCase(item)
	}
	return strings.Join(titled, sep)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
