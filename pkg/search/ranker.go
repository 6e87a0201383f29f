package search

import (
	"sort"
)

// Group labels used when results are partitioned for display
const (
	SectionsLabel = "Sections"
	CommandsLabel = "Commands"
)

// Rank scores every item against query and returns the ranked view.
//
// An empty query is browse mode: every item is returned unscored in its
// original order. Otherwise each item is scored on its title, description and
// keywords (each weighted), the best weighted score wins, non-matches are
// dropped and the rest are stable-sorted by score descending. The input slice
// is never modified.
func (m *Matcher) Rank(items []Item, query string) []Result {
	results := make([]Result, 0, len(items))

	if query == "" {
		for i, item := range items {
			results = append(results, Result{Item: item, Index: i})
		}
		return results
	}

	w := m.weights
	for i, item := range items {
		title := m.Match(query, item.Title)
		desc := m.Match(query, item.Description)
		keywords := m.Match(query, item.Keywords)

		res := Result{Item: item, Index: i}
		if s := title.Score * w.TitleWeight; s > res.Score {
			res.Score = s
			res.Field = FieldTitle
			res.TitlePositions = title.Positions
		}
		if s := desc.Score * w.DescriptionWeight; s > res.Score {
			res.Score = s
			res.Field = FieldDescription
			res.TitlePositions = nil
			res.DescriptionPositions = desc.Positions
		}
		if s := keywords.Score * w.KeywordsWeight; s > res.Score {
			res.Score = s
			res.Field = FieldKeywords
			res.TitlePositions = nil
			res.DescriptionPositions = nil
		}

		if res.Score == 0 {
			continue
		}
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// Rank ranks items with the default weights
func Rank(items []Item, query string) []Result {
	return defaultMatcher.Rank(items, query)
}

// GroupResults partitions ranked results into a Sections group followed by a
// Commands group, preserving rank order inside each. Empty groups are omitted.
func GroupResults(results []Result) []Group {
	sections := Group{Kind: KindSection, Label: SectionsLabel}
	commands := Group{Kind: KindCommand, Label: CommandsLabel}

	for _, r := range results {
		switch r.Item.Kind {
		case KindSection:
			sections.Results = append(sections.Results, r)
		case KindCommand:
			commands.Results = append(commands.Results, r)
		}
	}

	groups := make([]Group, 0, 2)
	if len(sections.Results) > 0 {
		groups = append(groups, sections)
	}
	if len(commands.Results) > 0 {
		groups = append(groups, commands)
	}
	return groups
}

// Flatten returns the results of groups in display order. The palette's
// selection index addresses this list.
func Flatten(groups []Group) []Result {
	var n int
	for _, g := range groups {
		n += len(g.Results)
	}

	flat := make([]Result, 0, n)
	for _, g := range groups {
		flat = append(flat, g.Results...)
	}
	return flat
}
