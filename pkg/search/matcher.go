package search

import (
	"unicode"
)

// Weights holds the scoring constants used by the matcher and ranker.
// The defaults are empirical and existing rankings depend on them.
type Weights struct {
	Base              int `mapstructure:"base" json:"base" yaml:"base"`
	ConsecutiveBonus  int `mapstructure:"consecutive_bonus" json:"consecutive_bonus" yaml:"consecutive_bonus"`
	BoundaryBonus     int `mapstructure:"boundary_bonus" json:"boundary_bonus" yaml:"boundary_bonus"`
	CamelBonus        int `mapstructure:"camel_bonus" json:"camel_bonus" yaml:"camel_bonus"`
	LengthCap         int `mapstructure:"length_cap" json:"length_cap" yaml:"length_cap"`
	TitleWeight       int `mapstructure:"title_weight" json:"title_weight" yaml:"title_weight"`
	DescriptionWeight int `mapstructure:"description_weight" json:"description_weight" yaml:"description_weight"`
	KeywordsWeight    int `mapstructure:"keywords_weight" json:"keywords_weight" yaml:"keywords_weight"`
}

// DefaultWeights are the weights the palette ships with
var DefaultWeights = Weights{
	Base:              1,
	ConsecutiveBonus:  2,
	BoundaryBonus:     10,
	CamelBonus:        5,
	LengthCap:         20,
	TitleWeight:       2,
	DescriptionWeight: 1,
	KeywordsWeight:    1,
}

// Matcher scores candidates against a query using a fixed set of weights
type Matcher struct {
	weights Weights
}

// NewMatcher creates a matcher. Zero-valued weights fall back to DefaultWeights.
func NewMatcher(w Weights) *Matcher {
	if w == (Weights{}) {
		w = DefaultWeights
	}
	return &Matcher{weights: w}
}

// Weights returns the weights the matcher was built with
func (m *Matcher) Weights() Weights {
	return m.weights
}

// Match performs a case-insensitive greedy subsequence match of query against
// candidate. Every rune of the query must be consumed, in order, for the match
// to count; partial matches score zero.
func (m *Matcher) Match(query, candidate string) Match {
	if query == "" {
		return Match{}
	}

	q := []rune(query)
	c := []rune(candidate)
	if len(q) > len(c) {
		return Match{}
	}

	w := m.weights
	positions := make([]int, 0, len(q))
	score := 0
	qi := 0
	run := 0
	last := -2

	for ci := 0; ci < len(c) && qi < len(q); ci++ {
		if !equalFold(c[ci], q[qi]) {
			continue
		}

		score += w.Base

		if ci == last+1 {
			run++
			score += w.ConsecutiveBonus * run
		} else {
			run = 0
		}

		if ci == 0 || isBoundary(c[ci-1]) {
			score += w.BoundaryBonus
		}

		if ci > 0 && unicode.IsUpper(c[ci]) && unicode.IsLower(c[ci-1]) {
			score += w.CamelBonus
		}

		positions = append(positions, ci)
		last = ci
		qi++
	}

	if qi < len(q) {
		return Match{}
	}

	if bonus := w.LengthCap - len(c); bonus > 0 {
		score += bonus
	}
	if score <= 0 {
		return Match{}
	}

	return Match{Score: score, Positions: positions}
}

func isBoundary(r rune) bool {
	switch r {
	case '-', '_', '/':
		return true
	}
	return unicode.IsSpace(r)
}

func equalFold(a, b rune) bool {
	return a == b || unicode.ToLower(a) == unicode.ToLower(b)
}

var defaultMatcher = NewMatcher(DefaultWeights)

// MatchString matches query against candidate with the default weights
func MatchString(query, candidate string) Match {
	return defaultMatcher.Match(query, candidate)
}
