package pkg

import (
	"sync"
	"time"
)

// Timer runs at most one delayed callback. Arming again replaces the pending callback.
// A callback that already started when Disarm is called still runs, so callers re-check
// their own state inside it.
type Timer struct {
	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
}

func NewTimer() *Timer {
	return &Timer{}
}

// Arm - schedules fn after delay, cancelling whatever was armed before.
func (that *Timer) Arm(delay time.Duration, fn func()) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.stopLocked()

	generation := that.generation
	that.timer = time.AfterFunc(delay, func() {
		that.mu.Lock()
		if that.generation != generation {
			that.mu.Unlock()
			return
		}
		that.timer = nil
		that.mu.Unlock()

		fn()
	})
}

// Disarm is safe to call when nothing is armed.
func (that *Timer) Disarm() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.stopLocked()
}

func (that *Timer) Armed() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.timer != nil
}

func (that *Timer) stopLocked() {
	if that.timer != nil {
		that.timer.Stop()
		that.timer = nil
	}
	that.generation++
}
