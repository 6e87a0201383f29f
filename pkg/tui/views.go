package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jingkaihe/docpal/pkg/page"
)

const (
	statusHeight = 1
	paletteTop   = 2
	maxBoxWidth  = 80
	minBoxWidth  = 24
	maxResults   = 14
	// border, input and separator above the first result line
	resultsChrome = 3
)

type styles struct {
	title    lipgloss.Style
	heading  lipgloss.Style
	body     lipgloss.Style
	card     lipgloss.Style
	cardBody lipgloss.Style
	flash    lipgloss.Style
	box      lipgloss.Style
	prompt   lipgloss.Style
	rule     lipgloss.Style
	status   lipgloss.Style
	hint     lipgloss.Style
}

// newStyles returns the Tokyo Night palette
func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7")),
		heading:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#bb9af7")),
		body:     lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5")),
		card:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7dcfff")),
		cardBody: lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")),
		flash:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1a1b26")).Background(lipgloss.Color("#e0af68")),
		box:      lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#7aa2f7")).Padding(0, 1),
		prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color("#bb9af7")).Bold(true),
		rule:     lipgloss.NewStyle().Foreground(lipgloss.Color("#3b4261")),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Background(lipgloss.Color("#1f2335")).Padding(0, 1),
		hint:     lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")),
	}
}

// geometry is where the palette box sits on screen
type geometry struct {
	left, top     int
	width, height int
	// inner is the usable width inside border and padding
	inner int
	// results is the number of result lines shown
	results int
}

func (m *Model) geometry() geometry {
	width := min(m.width-4, maxBoxWidth)
	width = max(width, minBoxWidth)

	results := min(maxResults, m.height-paletteTop-resultsChrome-1-statusHeight)
	results = max(results, 3)

	return geometry{
		left:    max((m.width-width)/2, 0),
		top:     paletteTop,
		width:   width,
		height:  resultsChrome + results + 1,
		inner:   width - 4,
		results: results,
	}
}

func (g geometry) contains(x, y int) bool {
	return x >= g.left && x < g.left+g.width && y >= g.top && y < g.top+g.height
}

// resultLine maps a screen row to a line of the results frame
func (g geometry) resultLine(y, offset int) (int, bool) {
	first := g.top + resultsChrome
	if y < first || y >= first+g.results {
		return 0, false
	}
	return offset + y - first, true
}

// renderPage styles the laid-out page into the viewport
func (m *Model) renderPage() {
	if m.layout == nil {
		return
	}

	lines := make([]string, len(m.layout.Lines))
	for i, line := range m.layout.Lines {
		lines[i] = m.styleLine(line)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

func (m *Model) styleLine(line page.Line) string {
	if m.flashID != "" && line.Card == m.flashID {
		return m.styles.flash.Render(line.Text)
	}

	switch line.Kind {
	case page.LineTitle:
		return m.styles.title.Render(line.Text)
	case page.LineHeading:
		return m.styles.heading.Render(line.Text)
	case page.LineBody:
		return m.styles.body.Render(line.Text)
	case page.LineCard:
		return m.styles.card.Render(line.Text)
	case page.LineCardBody:
		return m.styles.cardBody.Render(line.Text)
	default:
		return line.Text
	}
}

// View renders the UI
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	screen := m.viewport.View() + "\n" + m.statusView()
	if !m.open {
		return screen
	}
	return m.overlay(screen, m.paletteView())
}

func (m *Model) paletteView() string {
	g := m.geometry()

	bodyLines := strings.Split(m.frame.Body, "\n")
	end := min(m.resultsOffset+g.results, len(bodyLines))
	visible := make([]string, 0, g.results)
	if m.resultsOffset < end {
		visible = append(visible, bodyLines[m.resultsOffset:end]...)
	}
	for len(visible) < g.results {
		visible = append(visible, "")
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.input.View(),
		m.styles.rule.Render(strings.Repeat("─", g.inner)),
		strings.Join(visible, "\n"),
	)
	return m.styles.box.Width(g.width - 2).Render(content)
}

// overlay draws box over screen at the palette position. The page stays
// visible around the box.
func (m *Model) overlay(screen, box string) string {
	g := m.geometry()
	lines := strings.Split(screen, "\n")
	boxLines := strings.Split(box, "\n")

	for i, bl := range boxLines {
		y := g.top + i
		if y >= len(lines) {
			break
		}
		left := ansi.Truncate(lines[y], g.left, "")
		if pad := g.left - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		lines[y] = left + bl
	}
	return strings.Join(lines, "\n")
}

func (m *Model) statusView() string {
	title := m.content.Page.Title
	if title == "" {
		title = "docpal"
	}

	hint := "ctrl+k or / search │ ↑↓ pgup pgdn scroll │ q quit"
	if m.open {
		hint = "↑↓ select │ enter go │ esc close"
	}

	text := title + " │ " + m.status + " │ " + hint
	return m.styles.status.Width(m.width).Render(ansi.Truncate(text, max(m.width-2, 0), "…"))
}
