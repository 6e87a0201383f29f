package palette

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/docpal/pkg/search"
)

func newTestController(host *MockHost, items []search.Item) (*Controller, *manualTimer) {
	timer := &manualTimer{}
	c := New(context.Background(), host, items, WithTimer(timer))
	return c, timer
}

func typeQuery(c *Controller, timer *manualTimer, query string) {
	for i := 1; i <= len(query); i++ {
		c.OnQueryChange(query[:i])
	}
	timer.Fire()
}

func TestOpenShowsUnfilteredList(t *testing.T) {
	host := newMockHost()
	c, _ := newTestController(host, sixItems())

	c.Open()

	state := c.State()
	assert.True(t, state.Open)
	assert.Equal(t, "", state.Query)
	assert.Equal(t, 0, state.Selected)
	assert.True(t, host.open)
	assert.True(t, host.locked)
	assert.True(t, host.focused)

	view := host.lastView()
	assert.Equal(t, 6, view.Len())
	require.Len(t, view.Groups, 2)
	assert.Equal(t, search.KindSection, view.Groups[0].Kind)
	assert.Equal(t, search.KindCommand, view.Groups[1].Kind)
	assert.Equal(t, 0, view.Selected)
}

func TestQueryChangeIsDebounced(t *testing.T) {
	host := newMockHost()
	c, timer := newTestController(host, sixItems())
	c.Open()
	renders := len(host.views)

	c.OnQueryChange("f")
	c.OnQueryChange("fe")
	c.OnQueryChange("fea")
	c.OnQueryChange("feat")

	assert.Equal(t, renders, len(host.views), "no re-rank before the timer fires")
	assert.Equal(t, 4, timer.resets)
	assert.Equal(t, DefaultDebounce, timer.delay)
	assert.Equal(t, "feat", c.State().Query)

	timer.Fire()

	require.Equal(t, renders+1, len(host.views))
	rows := c.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "feature", rows[0].Item.ID)
	assert.Equal(t, "feat", host.lastView().Query)
}

func TestQueryResetsSelection(t *testing.T) {
	host := newMockHost()
	c, timer := newTestController(host, sixItems())
	c.Open()

	c.OnArrow(Down)
	c.OnArrow(Down)
	assert.Equal(t, 2, c.State().Selected)

	typeQuery(c, timer, "s")
	assert.Equal(t, 0, c.State().Selected)
	assert.Equal(t, 0, host.selected)
}

func TestArrowSelectionClamps(t *testing.T) {
	host := newMockHost()
	items := sixItems()
	c, _ := newTestController(host, items)
	c.Open()
	renders := len(host.views)

	for i := 0; i < len(items)+5; i++ {
		c.OnArrow(Up)
		assert.GreaterOrEqual(t, c.State().Selected, 0)
	}
	assert.Equal(t, 0, c.State().Selected)

	for i := 0; i < len(items)+5; i++ {
		c.OnArrow(Down)
		assert.LessOrEqual(t, c.State().Selected, len(items)-1)
	}
	assert.Equal(t, len(items)-1, c.State().Selected)
	assert.Equal(t, len(items)-1, host.selected)

	assert.Equal(t, renders, len(host.views), "arrows never re-rank")
}

func TestArrowUsesLastRenderWhileDebouncePending(t *testing.T) {
	host := newMockHost()
	c, timer := newTestController(host, sixItems())
	c.Open()

	c.OnQueryChange("feat")
	c.OnArrow(Down)
	assert.Equal(t, 1, c.State().Selected)
	assert.Len(t, c.Rows(), 6)

	timer.Fire()
	assert.Equal(t, 0, c.State().Selected)
	assert.Len(t, c.Rows(), 1)
}

func TestEnterOnSectionScrollsAndCloses(t *testing.T) {
	host := newMockHost()
	c, timer := newTestController(host, sixItems())
	c.Open()

	typeQuery(c, timer, "skills")
	c.OnEnter()

	assert.False(t, c.IsOpen())
	assert.False(t, host.open)
	assert.False(t, host.locked)
	assert.False(t, host.focused)
	assert.Equal(t, []string{"skills"}, host.scrolled)
	assert.Empty(t, host.flashed)
	assert.Equal(t, State{}, c.State())
}

func TestEnterOnCommandScrollsToCommandsAndFlashes(t *testing.T) {
	host := newMockHost()
	c, timer := newTestController(host, sixItems())
	c.Open()

	typeQuery(c, timer, "feat")
	c.OnEnter()

	assert.False(t, c.IsOpen())
	assert.Equal(t, []string{DefaultCommandsSection}, host.scrolled)
	assert.Equal(t, []string{"feature"}, host.flashed)
}

func TestCustomCommandsSection(t *testing.T) {
	host := newMockHost()
	timer := &manualTimer{}
	c := New(context.Background(), host, sixItems(), WithTimer(timer), WithCommandsSection("slash-commands"))
	c.Open()

	typeQuery(c, timer, "commit")
	c.OnEnter()

	assert.Equal(t, []string{"slash-commands"}, host.scrolled)
	assert.Equal(t, []string{"commit"}, host.flashed)
}

func TestMissingCardIsSkippedSilently(t *testing.T) {
	host := newMockHostReturning(false, false)
	c, timer := newTestController(host, sixItems())
	c.Open()

	typeQuery(c, timer, "commit")
	assert.NotPanics(t, c.OnEnter)
	assert.False(t, c.IsOpen())
	assert.Equal(t, []string{"commit"}, host.flashed)
}

func TestEnterWithNoResultsClosesWithoutAction(t *testing.T) {
	host := newMockHost()
	c, timer := newTestController(host, sixItems())
	c.Open()

	typeQuery(c, timer, "zzzzz")
	view := host.lastView()
	assert.True(t, view.Empty())
	_, ok := c.Selected()
	assert.False(t, ok)

	c.OnEnter()

	assert.False(t, c.IsOpen())
	assert.Empty(t, host.scrolled)
	assert.Empty(t, host.flashed)
	host.AssertNotCalled(t, "ScrollToSection", "zzzzz")
}

func TestEscapeAndBackdropCloseWithoutAction(t *testing.T) {
	for name, closeFn := range map[string]func(*Controller){
		"escape":   (*Controller).OnEscape,
		"backdrop": (*Controller).OnBackdropClick,
	} {
		t.Run(name, func(t *testing.T) {
			host := newMockHost()
			c, timer := newTestController(host, sixItems())
			c.Open()
			c.OnQueryChange("feat")

			closeFn(c)

			assert.False(t, c.IsOpen())
			assert.False(t, host.open)
			assert.False(t, host.locked)
			assert.False(t, timer.Pending(), "pending re-rank cancelled on close")
			assert.Empty(t, host.scrolled)
			assert.Empty(t, host.flashed)
		})
	}
}

func TestItemClickExecutes(t *testing.T) {
	host := newMockHost()
	c, _ := newTestController(host, sixItems())
	c.Open()

	c.OnItemClick(4)

	assert.False(t, c.IsOpen())
	assert.Equal(t, []string{"test"}, host.flashed)
}

func TestItemClickOutOfRangeIgnored(t *testing.T) {
	host := newMockHost()
	c, _ := newTestController(host, sixItems())
	c.Open()

	c.OnItemClick(42)
	c.OnItemClick(-1)

	assert.True(t, c.IsOpen())
	assert.Empty(t, host.scrolled)
}

func TestReopenStartsFreshSession(t *testing.T) {
	host := newMockHost()
	c, timer := newTestController(host, sixItems())

	c.Open()
	c.OnQueryChange("commit")
	c.OnArrow(Down)
	stops := timer.stops

	c.Open()

	assert.Greater(t, timer.stops, stops)
	assert.False(t, timer.Pending())
	assert.Equal(t, State{Open: true}, c.State())
	assert.Equal(t, 6, host.lastView().Len())
}

func TestEventsIgnoredWhileClosed(t *testing.T) {
	host := newMockHost()
	c, timer := newTestController(host, sixItems())

	c.OnQueryChange("feat")
	c.OnArrow(Down)
	c.OnEnter()
	c.OnEscape()

	assert.False(t, c.IsOpen())
	assert.Equal(t, 0, timer.resets)
	assert.Empty(t, host.views)
	assert.Empty(t, host.scrolled)
}

func TestRankingDoesNotMutateItems(t *testing.T) {
	host := newMockHost()
	items := sixItems()
	snapshot := append([]search.Item(nil), items...)
	c, timer := newTestController(host, items)

	c.Open()
	typeQuery(c, timer, "co")
	c.OnEscape()

	assert.Equal(t, snapshot, items)
}
