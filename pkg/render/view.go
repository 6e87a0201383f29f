// Package render turns ranked palette results into display markup. The
// renderers are thin adapters over a View: they never score or filter, they
// only lay out what the ranker produced.
package render

import (
	"github.com/jingkaihe/docpal/pkg/search"
)

// View is everything a renderer needs to draw the results panel
type View struct {
	Query    string
	Groups   []search.Group
	Selected int
}

// NewView groups ranked results for display
func NewView(query string, results []search.Result, selected int) View {
	return View{
		Query:    query,
		Groups:   search.GroupResults(results),
		Selected: selected,
	}
}

// Empty reports whether the view has no rows, in which case renderers draw
// the single no-results placeholder
func (v View) Empty() bool {
	for _, g := range v.Groups {
		if len(g.Results) > 0 {
			return false
		}
	}
	return true
}

// Len returns the number of selectable rows
func (v View) Len() int {
	n := 0
	for _, g := range v.Groups {
		n += len(g.Results)
	}
	return n
}

// Rows returns the selectable rows in display order
func (v View) Rows() []search.Result {
	return search.Flatten(v.Groups)
}
