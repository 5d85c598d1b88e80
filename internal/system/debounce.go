package system

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Debouncer collapses a burst of triggers into a single call once a
// quiet period has passed. Editors that save atomically fire several
// filesystem events per save, and re-rendering a preview for each one
// would thrash the encoder.
type Debouncer struct {
	quiet time.Duration
	clock clockwork.Clock
	fn    func()

	mu    sync.Mutex
	timer clockwork.Timer
}

// NewDebouncer wraps fn so it runs quiet after the last trigger. A nil
// clock means wall time; tests pass a fake.
func NewDebouncer(quiet time.Duration, clock clockwork.Clock, fn func()) *Debouncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Debouncer{quiet: quiet, clock: clock, fn: fn}
}

// Trigger arms the timer, cancelling any pending call from an earlier
// trigger.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.quiet, d.fn)
}

// Stop cancels a pending call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
