package app

import "time"

// Clock paces the frame loop. With an interval set, frames that arrive
// early are refused so the loop runs at most at the configured rate.
type Clock struct {
	Interval time.Duration // zero disables the limit
	MaxDelta time.Duration // zero disables clamping

	last    time.Time
	started bool
}

// NewClock creates a clock limited to fps frames per second.
func NewClock(fps int, maxDelta time.Duration) *Clock {
	c := &Clock{MaxDelta: maxDelta}
	if fps > 0 {
		c.Interval = time.Second / time.Duration(fps)
	}
	return c
}

// Step accepts or refuses a frame at now. For an accepted frame it returns
// the seconds since the previous accepted one; the first frame gets zero.
func (c *Clock) Step(now time.Time) (dt float32, ok bool) {
	if !c.started {
		c.started = true
		c.last = now
		return 0, true
	}
	elapsed := now.Sub(c.last)
	if c.Interval > 0 && elapsed < c.Interval {
		return 0, false
	}
	c.last = now
	if elapsed < 0 {
		elapsed = 0
	}
	if c.MaxDelta > 0 && elapsed > c.MaxDelta {
		elapsed = c.MaxDelta
	}
	return float32(elapsed.Seconds()), true
}

// Until returns how long to wait at now before Step accepts a frame.
func (c *Clock) Until(now time.Time) time.Duration {
	if !c.started || c.Interval <= 0 {
		return 0
	}
	if d := c.Interval - now.Sub(c.last); d > 0 {
		return d
	}
	return 0
}
