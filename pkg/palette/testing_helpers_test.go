package palette

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jingkaihe/docpal/pkg/render"
	"github.com/jingkaihe/docpal/pkg/search"
)

// MockHost records the side effects requested by the controller
type MockHost struct {
	mock.Mock

	open     bool
	locked   bool
	focused  bool
	selected int
	views    []render.View
	scrolled []string
	flashed  []string
}

func newMockHost() *MockHost {
	return newMockHostReturning(true, true)
}

func newMockHostReturning(scrollFound, flashFound bool) *MockHost {
	h := &MockHost{}
	h.On("ScrollToSection", mock.Anything).Return(scrollFound).Maybe()
	h.On("FlashCommand", mock.Anything).Return(flashFound).Maybe()
	return h
}

func (h *MockHost) RenderResults(v render.View) {
	h.views = append(h.views, v)
	h.selected = v.Selected
}

func (h *MockHost) SetSelected(index int) { h.selected = index }

func (h *MockHost) SetOpen(open bool) { h.open = open }

func (h *MockHost) FocusInput() { h.focused = true }

func (h *MockHost) BlurInput() { h.focused = false }

func (h *MockHost) ClearInput() {}

func (h *MockHost) LockScroll(locked bool) { h.locked = locked }

func (h *MockHost) ScrollToSection(id string) bool {
	h.scrolled = append(h.scrolled, id)
	return h.Called(id).Bool(0)
}

func (h *MockHost) FlashCommand(id string) bool {
	h.flashed = append(h.flashed, id)
	return h.Called(id).Bool(0)
}

func (h *MockHost) lastView() render.View {
	if len(h.views) == 0 {
		return render.View{}
	}
	return h.views[len(h.views)-1]
}

// manualTimer fires only when the test says so
type manualTimer struct {
	fn     func()
	resets int
	stops  int
	delay  time.Duration
}

func (t *manualTimer) Reset(d time.Duration, fn func()) {
	t.resets++
	t.delay = d
	t.fn = fn
}

func (t *manualTimer) Stop() bool {
	t.stops++
	pending := t.fn != nil
	t.fn = nil
	return pending
}

func (t *manualTimer) Pending() bool { return t.fn != nil }

func (t *manualTimer) Fire() {
	if fn := t.fn; fn != nil {
		t.fn = nil
		fn()
	}
}

func sixItems() []search.Item {
	return []search.Item{
		{Kind: search.KindSection, ID: "overview", Title: "Overview", Description: "What the toolkit is"},
		{Kind: search.KindSection, ID: "commands", Title: "All Commands", Description: "Slash commands reference"},
		{Kind: search.KindSection, ID: "skills", Title: "Skills", Description: "Reusable skill documents"},
		{Kind: search.KindCommand, ID: "feature", Title: "/feature", Description: "Implement a new feature", Category: "workflow"},
		{Kind: search.KindCommand, ID: "test", Title: "/test", Description: "Run and fix the test suite", Category: "testing"},
		{Kind: search.KindCommand, ID: "commit", Title: "/commit", Description: "Create a conventional commit", Category: "git"},
	}
}
