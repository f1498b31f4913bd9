package notify

import "time"

// Throttle lets one event through per window. The first event always
// passes; readings inside the window are dropped, not queued.
type Throttle struct {
	window time.Duration
	last   time.Time
	primed bool
}

func NewThrottle(window time.Duration) *Throttle {
	return &Throttle{window: window}
}

func (it *Throttle) Allow(now time.Time) bool {
	if it.primed && now.Sub(it.last) < it.window {
		return false
	}
	it.primed = true
	it.last = now
	return true
}
