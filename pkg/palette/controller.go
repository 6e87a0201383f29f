// Package palette implements the command palette state machine. The
// controller owns the session state (open flag, query, selection) and talks to
// the outside world only through the Host interface, so it can be driven
// without a terminal or a browser.
package palette

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jingkaihe/docpal/pkg/logger"
	"github.com/jingkaihe/docpal/pkg/render"
	"github.com/jingkaihe/docpal/pkg/search"
)

// DefaultDebounce is how long a burst of keystrokes must pause before the
// query is re-ranked
const DefaultDebounce = 130 * time.Millisecond

// DefaultCommandsSection is the anchor commands live under on the page
const DefaultCommandsSection = "commands"

// Direction is an arrow key direction
type Direction int

const (
	Up Direction = iota
	Down
)

// Host receives every side effect the palette produces
type Host interface {
	// RenderResults replaces the results panel
	RenderResults(v render.View)
	// SetSelected moves the selected row highlight without re-rendering rows
	SetSelected(index int)
	// SetOpen shows or hides the palette
	SetOpen(open bool)
	FocusInput()
	BlurInput()
	ClearInput()
	// LockScroll stops the page behind the palette from scrolling
	LockScroll(locked bool)
	// ScrollToSection scrolls the page to a section anchor. It reports false
	// when the anchor does not exist.
	ScrollToSection(id string) bool
	// FlashCommand briefly highlights a command card. It reports false when
	// the card cannot be found.
	FlashCommand(id string) bool
}

// State is the per-session palette state
type State struct {
	Open     bool
	Query    string
	Selected int
}

// Controller drives the palette. It is not safe for concurrent use: every
// method, including debounced callbacks, must run on the UI goroutine.
type Controller struct {
	ctx             context.Context
	host            Host
	items           []search.Item
	matcher         *search.Matcher
	timer           Timer
	debounce        time.Duration
	commandsSection string

	state   State
	view    render.View
	rows    []search.Result
	session string
}

// Option configures a Controller
type Option func(*Controller)

// WithTimer sets the debounce timer
func WithTimer(t Timer) Option {
	return func(c *Controller) {
		c.timer = t
	}
}

// WithDebounce sets the keystroke debounce delay
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

// WithMatcher sets the matcher used for ranking
func WithMatcher(m *search.Matcher) Option {
	return func(c *Controller) {
		if m != nil {
			c.matcher = m
		}
	}
}

// WithCommandsSection sets the section commands are listed under
func WithCommandsSection(id string) Option {
	return func(c *Controller) {
		if id != "" {
			c.commandsSection = id
		}
	}
}

// New creates a closed palette over items. The item slice is shared
// read-only for the controller's lifetime.
func New(ctx context.Context, host Host, items []search.Item, opts ...Option) *Controller {
	c := &Controller{
		ctx:             ctx,
		host:            host,
		items:           items,
		matcher:         search.NewMatcher(search.DefaultWeights),
		debounce:        DefaultDebounce,
		commandsSection: DefaultCommandsSection,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timer == nil {
		c.timer = NewDebounceTimer(nil)
	}
	return c
}

// State returns a copy of the session state
func (c *Controller) State() State {
	return c.state
}

// IsOpen reports whether the palette is open
func (c *Controller) IsOpen() bool {
	return c.state.Open
}

// Rows returns the rendered rows in display order
func (c *Controller) Rows() []search.Result {
	return c.rows
}

// View returns the last rendered view
func (c *Controller) View() render.View {
	return c.view
}

// Selected returns the selected row, if any rows are rendered
func (c *Controller) Selected() (search.Result, bool) {
	if len(c.rows) == 0 {
		return search.Result{}, false
	}
	return c.rows[c.state.Selected], true
}

// Open starts a fresh session: any pending re-rank from a previous session is
// cancelled and the unfiltered list is shown.
func (c *Controller) Open() {
	c.timer.Stop()
	c.session = uuid.NewString()
	c.state = State{Open: true}

	c.log().WithField("items", len(c.items)).Debug("palette opened")

	c.refresh()
	c.host.SetOpen(true)
	c.host.FocusInput()
	c.host.LockScroll(true)
}

// Close ends the session without acting on the selection
func (c *Controller) Close() {
	if !c.state.Open {
		return
	}

	c.timer.Stop()
	c.log().Debug("palette closed")

	c.state = State{}
	c.view = render.View{}
	c.rows = nil
	c.host.LockScroll(false)
	c.host.ClearInput()
	c.host.BlurInput()
	c.host.SetOpen(false)
	c.session = ""
}

// OnQueryChange records the query and schedules a re-rank. Only the last
// change in a burst is ranked.
func (c *Controller) OnQueryChange(text string) {
	if !c.state.Open {
		return
	}

	c.state.Query = text
	c.timer.Reset(c.debounce, func() {
		if !c.state.Open {
			return
		}
		c.refresh()
	})
}

// OnArrow moves the selection by one row, clamped to the rendered rows
func (c *Controller) OnArrow(dir Direction) {
	if !c.state.Open || len(c.rows) == 0 {
		return
	}

	selected := c.state.Selected
	switch dir {
	case Up:
		selected--
	case Down:
		selected++
	}
	selected = clamp(selected, 0, len(c.rows)-1)

	if selected == c.state.Selected {
		return
	}
	c.state.Selected = selected
	c.view.Selected = selected
	c.host.SetSelected(selected)
}

// OnEnter executes the selected row and closes. With nothing rendered it
// behaves like Escape.
func (c *Controller) OnEnter() {
	if !c.state.Open {
		return
	}

	res, ok := c.Selected()
	if !ok {
		c.log().WithField("query", c.state.Query).Debug("enter with no results")
		c.Close()
		return
	}

	c.execute(res.Item)
}

// OnEscape closes without acting
func (c *Controller) OnEscape() {
	c.Close()
}

// OnBackdropClick closes without acting
func (c *Controller) OnBackdropClick() {
	c.Close()
}

// OnItemClick selects and executes the row at index
func (c *Controller) OnItemClick(index int) {
	if !c.state.Open || index < 0 || index >= len(c.rows) {
		return
	}

	c.state.Selected = index
	c.execute(c.rows[index].Item)
}

// execute closes the palette and navigates to item. Closing first releases
// the scroll lock so the page can move.
func (c *Controller) execute(item search.Item) {
	log := c.log().WithFields(map[string]interface{}{
		"kind": item.Kind,
		"id":   item.ID,
	})
	log.Debug("executing palette selection")

	c.Close()

	switch item.Kind {
	case search.KindSection:
		if !c.host.ScrollToSection(item.ID) {
			log.Debug("section anchor not found")
		}
	case search.KindCommand:
		if !c.host.ScrollToSection(c.commandsSection) {
			log.WithField("section", c.commandsSection).Debug("commands section not found")
		}
		if !c.host.FlashCommand(item.ID) {
			log.Debug("command card not found, skipping flash")
		}
	}
}

// refresh ranks the current query, renders and resets the selection
func (c *Controller) refresh() {
	ranked := c.matcher.Rank(c.items, c.state.Query)
	c.state.Selected = 0
	c.view = render.NewView(c.state.Query, ranked, 0)
	c.rows = c.view.Rows()

	c.log().WithFields(map[string]interface{}{
		"query":   c.state.Query,
		"results": len(c.rows),
	}).Debug("palette results rendered")

	c.host.RenderResults(c.view)
}

func (c *Controller) log() *logrus.Entry {
	return logger.G(c.ctx).WithField("palette_session", c.session)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
