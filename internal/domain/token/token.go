// Package token splits free-text mentee fields into the match tokens the
// engine scores against.
//
// A field like "React, Node.js & AWS" produces one Phrase per delimited
// segment plus a deduplicated set of lowercase match values: every whole
// segment and every whitespace-separated word longer than two characters.
package token

import (
	"strings"
	"unicode/utf8"
)

// minWordLength is the exclusive lower bound for single words entering the
// value set. One- and two-letter fragments only enter as whole segments.
const minWordLength = 2

// Phrase keeps one delimited segment in original and lowercase form.
type Phrase struct {
	Original string
	Lower    string
}

// Set holds the tokens derived from one free-text field.
//
// Values are distinct lowercase match values in first-seen order. Phrases
// keep every surviving segment in input order, duplicates included.
type Set struct {
	Values  []string
	Phrases []Phrase
}

// Tokenize splits raw into a Set.
//
// Segments are cut on comma, ampersand, slash and newline. Before trimming,
// every case-insensitive occurrence of the substring "and" inside a segment
// is replaced by a single space. The replacement is deliberately not
// word-boundary aware: "Android" becomes "roid". Downstream behavior depends
// on this, so it must not be "fixed" here.
func Tokenize(raw string) Set {
	if raw == "" {
		return Set{}
	}

	segments := strings.FieldsFunc(raw, isDelimiter)

	var set Set
	seen := make(map[string]struct{})
	addValue := func(v string) {
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		set.Values = append(set.Values, v)
	}

	for _, seg := range segments {
		seg = strings.TrimSpace(stripAnd(seg))
		if seg == "" {
			continue
		}
		lower := strings.ToLower(seg)
		set.Phrases = append(set.Phrases, Phrase{Original: seg, Lower: lower})
		addValue(lower)
		for _, word := range strings.Fields(lower) {
			if utf8.RuneCountInString(word) > minWordLength {
				addValue(word)
			}
		}
	}

	return set
}

// MatchesAny reports whether any token value is a substring of hay.
// hay must already be lowercased; matching is unanchored.
func (s Set) MatchesAny(hay string) bool {
	for _, v := range s.Values {
		if strings.Contains(hay, v) {
			return true
		}
	}
	return false
}

// Empty reports whether the set holds no tokens at all.
func (s Set) Empty() bool {
	return len(s.Values) == 0 && len(s.Phrases) == 0
}

func isDelimiter(r rune) bool {
	return r == ',' || r == '&' || r == '/' || r == '\n'
}

// stripAnd replaces every case-insensitive occurrence of the ASCII substring
// "and" with a single space.
func stripAnd(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if i+3 <= len(s) && equalFoldByte(s[i], 'a') && equalFoldByte(s[i+1], 'n') && equalFoldByte(s[i+2], 'd') {
			b.WriteByte(' ')
			i += 3
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func equalFoldByte(c, lower byte) bool {
	return c == lower || c == lower-'a'+'A'
}
