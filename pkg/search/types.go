// Package search implements the fuzzy matcher and ranker behind the command
// palette. Everything here is pure: matching and ranking take values in and
// return values out, so the palette controller and every renderer can share
// the same results without touching any UI state.
package search

// Kind tags a searchable entry as a page section or a command
type Kind string

const (
	// KindSection is a navigable section of the documentation page
	KindSection Kind = "section"
	// KindCommand is a slash command listed on the commands section
	KindCommand Kind = "command"
)

// Field identifies which field of an Item produced the winning score
type Field string

const (
	FieldNone        Field = ""
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldKeywords    Field = "keywords"
)

// Item is a single entry eligible to be matched
type Item struct {
	Kind        Kind   `json:"kind" yaml:"kind"`
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Keywords    string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Match is the outcome of matching a query against one candidate string.
// A zero Score means no match, in which case Positions is empty.
type Match struct {
	Score     int
	Positions []int // rune indices into the candidate
}

// Matched reports whether the match succeeded
func (m Match) Matched() bool {
	return m.Score > 0
}

// Result is an Item scored against the current query
type Result struct {
	Item                 Item  `json:"item"`
	Index                int   `json:"index"`
	Score                int   `json:"score"`
	Field                Field `json:"field,omitempty"`
	TitlePositions       []int `json:"title_positions,omitempty"`
	DescriptionPositions []int `json:"description_positions,omitempty"`
}

// Group is a labelled run of results sharing the same Kind
type Group struct {
	Kind    Kind     `json:"kind"`
	Label   string   `json:"label"`
	Results []Result `json:"results"`
}
