package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jingkaihe/docpal/pkg/search"
)

// TerminalRenderer draws the results panel with lipgloss (Tokyo Night)
type TerminalRenderer struct {
	width int

	headerStyle      lipgloss.Style
	rowStyle         lipgloss.Style
	selectedStyle    lipgloss.Style
	descriptionStyle lipgloss.Style
	categoryStyle    lipgloss.Style
	markStyle        lipgloss.Style
	placeholderStyle lipgloss.Style
}

// Frame is a rendered results panel. RowLines maps each selectable row to the
// line it occupies in Body, so clicks can be resolved back to rows.
type Frame struct {
	Body     string
	RowLines []int
}

// RowAt returns the row rendered on line, or -1
func (f Frame) RowAt(line int) int {
	for i, l := range f.RowLines {
		if l == line {
			return i
		}
	}
	return -1
}

// NewTerminalRenderer creates a renderer that fits rows into width columns
func NewTerminalRenderer(width int) *TerminalRenderer {
	return &TerminalRenderer{
		width:            width,
		headerStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true),
		rowStyle:         lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1),
		selectedStyle:    lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1).Background(lipgloss.Color("#364a82")).Foreground(lipgloss.Color("#c0caf5")),
		descriptionStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")),
		categoryStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")),
		markStyle:        lipgloss.NewStyle().Foreground(lipgloss.Color("#ff9e64")).Bold(true).Underline(true),
		placeholderStyle: lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("#565f89")).Italic(true),
	}
}

// SetWidth updates the width rows are fitted into
func (r *TerminalRenderer) SetWidth(width int) {
	r.width = width
}

// Render draws the view. An empty view renders exactly one disabled
// placeholder row and no selectable rows.
func (r *TerminalRenderer) Render(v View) Frame {
	if v.Empty() {
		return Frame{Body: r.placeholderStyle.Render(NoResultsText(v.Query))}
	}

	var (
		lines    []string
		rowLines []int
		row      int
	)

	for gi, g := range v.Groups {
		if gi > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, r.headerStyle.Render(g.Label))

		for _, res := range g.Results {
			rowLines = append(rowLines, len(lines))
			lines = append(lines, r.renderRow(res, row == v.Selected))
			row++
		}
	}

	return Frame{Body: strings.Join(lines, "\n"), RowLines: rowLines}
}

func (r *TerminalRenderer) renderRow(res search.Result, selected bool) string {
	mark := func(s string) string { return r.markStyle.Render(s) }

	var prefix string
	if res.Item.Icon != "" {
		prefix = SanitizeText(res.Item.Icon) + " "
	}
	title := Highlight(res.Item.Title, res.TitlePositions, mark, SanitizeText)

	var suffix string
	if res.Item.Kind == search.KindCommand && res.Item.Category != "" {
		suffix = " " + r.categoryStyle.Render("["+SanitizeText(res.Item.Category)+"]")
	}

	used := lipgloss.Width(prefix) + lipgloss.Width(title) + lipgloss.Width(suffix) + 4
	desc := r.renderDescription(res, r.width-used)

	line := prefix + title
	if desc != "" {
		line += "  " + desc
	}
	line += suffix

	if selected {
		return r.selectedStyle.Render(line)
	}
	return r.rowStyle.Render(line)
}

// renderDescription highlights the raw description and sanitizes each run on
// its own, so match positions keep pointing at the runes they were computed
// on. Truncation happens after sanitizing.
func (r *TerminalRenderer) renderDescription(res search.Result, room int) string {
	raw := res.Item.Description
	clean := SanitizeText(raw)
	if clean == "" {
		return ""
	}

	limit := -1
	if r.width > 0 && runewidth.StringWidth(clean) > room {
		if room <= 1 {
			return ""
		}
		limit = room - 1
	}

	var b strings.Builder
	used := 0
	eachRun(raw, res.DescriptionPositions, func(fragment string, matched bool) bool {
		text := SanitizeText(fragment)
		more := true
		if limit >= 0 && used+runewidth.StringWidth(text) > limit {
			text = runewidth.Truncate(text, limit-used, "")
			more = false
		}
		used += runewidth.StringWidth(text)
		if text != "" {
			if matched {
				b.WriteString(r.markStyle.Render(text))
			} else {
				b.WriteString(r.descriptionStyle.Render(text))
			}
		}
		return more
	})
	if limit >= 0 {
		b.WriteString(r.descriptionStyle.Render("…"))
	}
	return b.String()
}
