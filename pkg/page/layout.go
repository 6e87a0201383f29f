package page

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// LineKind tells the host how to style a laid-out line
type LineKind int

const (
	LineBlank LineKind = iota
	LineTitle
	LineHeading
	LineBody
	LineCard
	LineCardBody
)

const (
	minWidth   = 20
	cardIndent = "  "
	descIndent = "    "
)

// Line is a single wrapped line of the page
type Line struct {
	Text    string
	Kind    LineKind
	Section string
	Card    string
}

// Span is a half-open range of line numbers
type Span struct {
	Start int
	End   int
}

// Layout is the page wrapped to a fixed width with the line offset of every
// section anchor and command card.
type Layout struct {
	Width    int
	Lines    []Line
	sections map[string]int
	cards    map[string]Span
}

// Layout wraps the page to width columns
func (p *Page) Layout(width int) *Layout {
	if width < minWidth {
		width = minWidth
	}

	l := &Layout{
		Width:    width,
		sections: make(map[string]int),
		cards:    make(map[string]Span),
	}

	if p.Title != "" {
		l.add(LineTitle, "", "", p.Title, width)
		l.blank()
	}

	for i, s := range p.Sections {
		if i > 0 {
			l.blank()
		}
		if _, seen := l.sections[s.ID]; !seen {
			l.sections[s.ID] = len(l.Lines)
		}
		l.add(LineHeading, s.ID, "", s.Title, width)

		if s.Body != "" {
			l.blank()
			for _, para := range strings.Split(s.Body, "\n") {
				if strings.TrimSpace(para) == "" {
					l.blankIn(s.ID)
					continue
				}
				l.add(LineBody, s.ID, "", para, width)
			}
		}

		if len(s.Cards) > 0 {
			l.blankIn(s.ID)
		}
		for _, c := range s.Cards {
			start := len(l.Lines)
			head := cardIndent + c.Name
			if c.Category != "" {
				head += "  [" + c.Category + "]"
			}
			l.add(LineCard, s.ID, c.ID, head, width)
			if c.Description != "" {
				l.add(LineCardBody, s.ID, c.ID, c.Description, width-len(descIndent), descIndent)
			}
			if _, seen := l.cards[c.ID]; !seen {
				l.cards[c.ID] = Span{Start: start, End: len(l.Lines)}
			}
		}
	}

	return l
}

// Len is the number of laid-out lines
func (l *Layout) Len() int {
	return len(l.Lines)
}

// SectionLine returns the line a section's heading starts on
func (l *Layout) SectionLine(id string) (int, bool) {
	n, ok := l.sections[id]
	return n, ok
}

// CardSpan returns the lines a command card occupies
func (l *Layout) CardSpan(id string) (Span, bool) {
	s, ok := l.cards[id]
	return s, ok
}

func (l *Layout) add(kind LineKind, section, card, text string, width int, indent ...string) {
	prefix := strings.Join(indent, "")
	for _, line := range strings.Split(ansi.Wrap(text, width, ""), "\n") {
		l.Lines = append(l.Lines, Line{
			Text:    prefix + strings.TrimRight(line, " "),
			Kind:    kind,
			Section: section,
			Card:    card,
		})
	}
}

func (l *Layout) blank() {
	l.Lines = append(l.Lines, Line{Kind: LineBlank})
}

func (l *Layout) blankIn(section string) {
	if n := len(l.Lines); n > 0 && l.Lines[n-1].Kind == LineBlank {
		return
	}
	l.Lines = append(l.Lines, Line{Kind: LineBlank, Section: section})
}
