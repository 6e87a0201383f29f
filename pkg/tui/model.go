// Package tui hosts the command palette in a terminal. The Model shows the
// documentation page in a scrollable viewport and draws the palette over it
// when opened; every side effect the palette asks for is applied here.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jingkaihe/docpal/pkg/logger"
	"github.com/jingkaihe/docpal/pkg/page"
	"github.com/jingkaihe/docpal/pkg/palette"
	"github.com/jingkaihe/docpal/pkg/render"
	"github.com/jingkaihe/docpal/pkg/search"
)

// Model is the bubbletea model. It is used by pointer because the palette
// controller keeps it as its host.
type Model struct {
	ctx  context.Context
	load Loader
	send func(tea.Msg)

	content    *Content
	layout     *page.Layout
	controller *palette.Controller
	timer      palette.Timer
	matcher    *search.Matcher
	debounce   time.Duration
	section    string

	viewport viewport.Model
	input    textinput.Model
	renderer *render.TerminalRenderer
	styles   styles
	width    int
	height   int
	ready    bool

	open          bool
	locked        bool
	results       render.View
	frame         render.Frame
	resultsOffset int

	flashID  string
	flashSeq int
	status   string

	cmds []tea.Cmd
}

// Option configures a Model
type Option func(*Model)

// WithCommandsSection sets the section commands are listed under
func WithCommandsSection(id string) Option {
	return func(m *Model) {
		m.section = id
	}
}

// WithDebounce sets the palette keystroke debounce
func WithDebounce(d time.Duration) Option {
	return func(m *Model) {
		m.debounce = d
	}
}

// WithMatcher sets the matcher used for ranking
func WithMatcher(matcher *search.Matcher) Option {
	return func(m *Model) {
		m.matcher = matcher
	}
}

// WithTimer replaces the debounce timer
func WithTimer(t palette.Timer) Option {
	return func(m *Model) {
		m.timer = t
	}
}

// NewModel creates the model for content. load is used for reloads and may
// be nil.
func NewModel(ctx context.Context, content *Content, load Loader, opts ...Option) *Model {
	ti := textinput.New()
	ti.Placeholder = "Search sections and commands..."
	ti.Prompt = "❯ "
	ti.CharLimit = 256

	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true

	m := &Model{
		ctx:      ctx,
		load:     load,
		input:    ti,
		viewport: vp,
		renderer: render.NewTerminalRenderer(0),
		styles:   newStyles(),
		debounce: palette.DefaultDebounce,
		section:  palette.DefaultCommandsSection,
		status:   "Ready",
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.timer == nil {
		m.timer = palette.NewDebounceTimer(m.dispatch)
	}
	m.input.PromptStyle = m.styles.prompt

	m.setContent(content)
	return m
}

// Attach connects the model to its running program so timer callbacks are
// delivered as messages
func (m *Model) Attach(send func(tea.Msg)) {
	m.send = send
}

// Controller returns the palette controller
func (m *Model) Controller() *palette.Controller {
	return m.controller
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles the message updates
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case debounceMsg:
		msg.fn()

	case flashDoneMsg:
		if msg.seq == m.flashSeq && m.flashID != "" {
			m.flashID = ""
			m.renderPage()
		}

	case ReloadMsg:
		return m, m.reload(msg.Reason)

	case contentMsg:
		if msg.err != nil {
			logger.G(m.ctx).WithError(msg.err).Error("failed to reload content")
			m.status = "Reload failed: " + msg.err.Error()
			break
		}
		m.setContent(msg.content)
		m.status = "Reloaded"

	case tea.KeyMsg:
		if m.open {
			m.handlePaletteKey(msg)
		} else if cmd := m.handlePageKey(msg); cmd != nil {
			m.cmds = append(m.cmds, cmd)
		}

	case tea.MouseMsg:
		m.handleMouse(msg)
	}

	return m, tea.Batch(m.drain()...)
}

func (m *Model) handlePageKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "ctrl+k", "/":
		m.controller.Open()
		return nil
	}

	if m.locked {
		return nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *Model) handlePaletteKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "ctrl+c":
		m.cmds = append(m.cmds, tea.Quit)
	case "esc":
		m.controller.OnEscape()
	case "enter":
		m.controller.OnEnter()
	case "up", "ctrl+p":
		m.controller.OnArrow(palette.Up)
	case "down", "ctrl+n":
		m.controller.OnArrow(palette.Down)
	default:
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.cmds = append(m.cmds, cmd)
		if value := m.input.Value(); value != before {
			m.controller.OnQueryChange(value)
		}
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if !m.open {
		if !m.locked {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			m.cmds = append(m.cmds, cmd)
		}
		return
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}

	g := m.geometry()
	if !g.contains(msg.X, msg.Y) {
		m.controller.OnBackdropClick()
		return
	}
	if line, ok := g.resultLine(msg.Y, m.resultsOffset); ok {
		if row := m.frame.RowAt(line); row >= 0 {
			m.controller.OnItemClick(row)
		}
	}
}

// setContent swaps in new content and starts a fresh, closed palette over
// its index
func (m *Model) setContent(content *Content) {
	if m.controller != nil {
		m.controller.Close()
	}

	m.content = content
	m.flashID = ""

	opts := []palette.Option{
		palette.WithTimer(m.timer),
		palette.WithDebounce(m.debounce),
		palette.WithCommandsSection(m.section),
	}
	if m.matcher != nil {
		opts = append(opts, palette.WithMatcher(m.matcher))
	}
	m.controller = palette.New(m.ctx, m, content.Index.Items(), opts...)

	m.relayout()
}

func (m *Model) reload(reason string) tea.Cmd {
	logger.G(m.ctx).WithField("reason", reason).Debug("reloading content")
	m.controller.Close()
	if m.load == nil {
		return tea.Batch(m.drain()...)
	}
	m.status = "Reloading..."
	return tea.Batch(append(m.drain(), loadCmd(m.load))...)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-statusHeight, 1)
	m.input.Width = max(m.geometry().inner-4, 1)
	m.renderer.SetWidth(m.geometry().inner)
	m.ready = true

	m.relayout()
	if m.open {
		m.frame = m.renderer.Render(m.results)
		m.ensureSelectedVisible()
	}
}

func (m *Model) relayout() {
	if m.width == 0 {
		return
	}
	m.layout = m.content.Page.Layout(m.width)
	m.renderPage()
}

// dispatch hands a timer callback to the running program
func (m *Model) dispatch(fn func()) {
	if m.send != nil {
		m.send(debounceMsg{fn: fn})
	}
}

func (m *Model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.cmds = append(m.cmds, cmd)
	}
}

func (m *Model) drain() []tea.Cmd {
	cmds := m.cmds
	m.cmds = nil
	return cmds
}
