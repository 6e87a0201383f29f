package tui

import (
	"github.com/jingkaihe/docpal/pkg/render"
)

// RenderResults replaces the results panel
func (m *Model) RenderResults(v render.View) {
	m.results = v
	m.frame = m.renderer.Render(v)
	m.resultsOffset = 0
	m.ensureSelectedVisible()
}

// SetSelected moves the selection highlight
func (m *Model) SetSelected(index int) {
	m.results.Selected = index
	m.frame = m.renderer.Render(m.results)
	m.ensureSelectedVisible()
}

// SetOpen shows or hides the palette
func (m *Model) SetOpen(open bool) {
	m.open = open
	if !open {
		m.results = render.View{}
		m.frame = render.Frame{}
		m.resultsOffset = 0
	}
}

// FocusInput focuses the query input
func (m *Model) FocusInput() {
	m.queue(m.input.Focus())
}

// BlurInput removes focus from the query input
func (m *Model) BlurInput() {
	m.input.Blur()
}

// ClearInput empties the query input
func (m *Model) ClearInput() {
	m.input.Reset()
}

// LockScroll stops the page from scrolling while the palette is open
func (m *Model) LockScroll(locked bool) {
	m.locked = locked
}

// ScrollToSection scrolls the page so the section heading is at the top
func (m *Model) ScrollToSection(id string) bool {
	if m.layout == nil {
		return false
	}
	line, ok := m.layout.SectionLine(id)
	if !ok {
		return false
	}
	m.viewport.SetYOffset(line)
	return true
}

// FlashCommand highlights a command card for FlashDuration, scrolling it
// into view if needed
func (m *Model) FlashCommand(id string) bool {
	if m.layout == nil {
		return false
	}
	span, ok := m.layout.CardSpan(id)
	if !ok {
		return false
	}

	top := m.viewport.YOffset
	if span.Start < top || span.End > top+m.viewport.Height {
		m.viewport.SetYOffset(span.Start)
	}

	m.flashID = id
	m.flashSeq++
	m.renderPage()
	m.queue(flashDoneCmd(m.flashSeq))
	return true
}

// ensureSelectedVisible scrolls the results window so the selected row, and
// its group header when it is the first row, can be seen
func (m *Model) ensureSelectedVisible() {
	sel := m.results.Selected
	if sel < 0 || sel >= len(m.frame.RowLines) {
		return
	}
	line := m.frame.RowLines[sel]
	visible := m.geometry().results

	if line-1 < m.resultsOffset {
		m.resultsOffset = max(line-1, 0)
	}
	if line >= m.resultsOffset+visible {
		m.resultsOffset = line - visible + 1
	}
}
