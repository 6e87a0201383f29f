package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jingkaihe/docpal/pkg/index"
	"github.com/jingkaihe/docpal/pkg/page"
)

// FlashDuration is how long a command card stays highlighted
const FlashDuration = time.Second

// debounceMsg carries a fired palette timer callback onto the UI goroutine
type debounceMsg struct {
	fn func()
}

// flashDoneMsg clears the flash it was scheduled for. Later flashes carry a
// higher seq and are left alone.
type flashDoneMsg struct {
	seq int
}

// ReloadMsg asks the model to rebuild its page and index
type ReloadMsg struct {
	Reason string
}

// contentMsg delivers freshly loaded content
type contentMsg struct {
	content *Content
	err     error
}

// Content is everything the model displays and searches
type Content struct {
	Page  *page.Page
	Index *index.Index
}

// Loader produces the page and index. It is called once at startup and again
// on every reload, off the UI goroutine.
type Loader func() (*Content, error)

func flashDoneCmd(seq int) tea.Cmd {
	return tea.Tick(FlashDuration, func(time.Time) tea.Msg {
		return flashDoneMsg{seq: seq}
	})
}

func loadCmd(load Loader) tea.Cmd {
	return func() tea.Msg {
		content, err := load()
		return contentMsg{content: content, err: err}
	}
}
