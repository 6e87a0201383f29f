package render

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

var bidiControls = map[rune]struct{}{
	'\u202a': {},
	'\u202b': {},
	'\u202c': {},
	'\u202d': {},
	'\u202e': {},
	'\u2066': {},
	'\u2067': {},
	'\u2068': {},
	'\u2069': {},
	'\u200e': {},
	'\u200f': {},
}

// SanitizeText strips ANSI escape sequences and control characters so that
// page content can never drive the terminal. Newlines become spaces.
func SanitizeText(input string) string {
	if input == "" {
		return input
	}
	cleaned := ansiPattern.ReplaceAllString(input, "")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if _, ok := bidiControls[r]; ok {
			return -1
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, cleaned)
}

// Highlight wraps each run of matched runes in text with mark and passes the
// unmatched runs through escape. Positions are rune indices into the raw
// text; out of range positions are ignored.
func Highlight(text string, positions []int, mark, escape func(string) string) string {
	var b strings.Builder
	eachRun(text, positions, func(fragment string, matched bool) bool {
		if matched {
			b.WriteString(mark(escape(fragment)))
		} else {
			b.WriteString(escape(fragment))
		}
		return true
	})
	return b.String()
}

// eachRun splits text into maximal runs of matched or unmatched runes and
// calls fn for each in order until fn returns false
func eachRun(text string, positions []int, fn func(fragment string, matched bool) bool) {
	if len(positions) == 0 {
		fn(text, false)
		return
	}

	runes := []rune(text)
	matched := make([]bool, len(runes))
	for _, p := range positions {
		if p >= 0 && p < len(runes) {
			matched[p] = true
		}
	}

	start := 0
	for start < len(runes) {
		end := start
		for end < len(runes) && matched[end] == matched[start] {
			end++
		}
		if !fn(string(runes[start:end]), matched[start]) {
			return
		}
		start = end
	}
}

// NoResultsText is the placeholder label shown when nothing matches
func NoResultsText(query string) string {
	return fmt.Sprintf("No results for %q", SanitizeText(query))
}
