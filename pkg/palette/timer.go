package palette

import (
	"sync"
	"time"
)

// Timer is a single cancellable delayed call. Reset cancels whatever is
// pending and schedules fn in its place, so at most one call is ever
// outstanding.
type Timer interface {
	Reset(d time.Duration, fn func())
	Stop() bool
	Pending() bool
}

// Dispatcher hands a fired callback to the goroutine that owns the
// controller. In the terminal UI this posts a message to the program.
type Dispatcher func(fn func())

// DebounceTimer implements Timer on top of time.AfterFunc. Fired callbacks go
// through the dispatcher and are dropped if the timer was reset or stopped in
// the meantime.
type DebounceTimer struct {
	mu       sync.Mutex
	dispatch Dispatcher
	timer    *time.Timer
	gen      uint64
	pending  bool
}

// NewDebounceTimer creates a timer that delivers callbacks via dispatch. A nil
// dispatch runs callbacks on the timer goroutine.
func NewDebounceTimer(dispatch Dispatcher) *DebounceTimer {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &DebounceTimer{dispatch: dispatch}
}

// Reset cancels the pending call, if any, and schedules fn after d
func (t *DebounceTimer) Reset(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.pending = true

	t.timer = time.AfterFunc(d, func() {
		t.dispatch(func() {
			if !t.claim(gen) {
				return
			}
			fn()
		})
	})
}

// claim marks the call for gen as consumed. It fails for stale generations.
func (t *DebounceTimer) claim(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen || !t.pending {
		return false
	}
	t.pending = false
	return true
}

// Stop cancels the pending call. It reports whether a call was pending.
func (t *DebounceTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	wasPending := t.pending
	t.pending = false
	return wasPending
}

// Pending reports whether a call is scheduled and not yet run
func (t *DebounceTimer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}
