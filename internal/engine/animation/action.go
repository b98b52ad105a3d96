package animation

// LoopMode controls what happens when an action reaches the clip end.
type LoopMode int

const (
	LoopRepeat LoopMode = iota
	LoopOnce
)

// fade is a linear weight ramp.
type fade struct {
	from, to float32
	duration float32
	elapsed  float32
}

// Action is the playback state of one clip on one mixer.
type Action struct {
	clip *Clip

	Loop              LoopMode
	ClampWhenFinished bool

	time     float32
	weight   float32
	enabled  bool
	paused   bool
	finished bool
	fade     *fade
}

func newAction(c *Clip) *Action {
	return &Action{clip: c, weight: 1}
}

// Clip returns the clip this action plays.
func (a *Action) Clip() *Clip { return a.clip }

// Time returns the local playback time in seconds.
func (a *Action) Time() float32 { return a.time }

// Weight returns the current blend weight.
func (a *Action) Weight() float32 {
	if !a.enabled {
		return 0
	}
	return a.weight
}

// IsRunning reports whether the action is enabled and advancing. A loop-once
// clip clamped on its last frame is not running.
func (a *Action) IsRunning() bool {
	return a.enabled && !a.paused
}

// IsEnabled reports whether the action contributes to the pose.
func (a *Action) IsEnabled() bool { return a.enabled }

// IsFinished reports whether a loop-once action reached its end.
func (a *Action) IsFinished() bool { return a.finished }

// IsFading reports whether a weight ramp is in progress.
func (a *Action) IsFading() bool { return a.fade != nil }

// FadingOut reports whether the action is ramping toward zero weight.
func (a *Action) FadingOut() bool { return a.fade != nil && a.fade.to == 0 }

// Progress returns time / duration in [0, 1].
func (a *Action) Progress() float32 {
	if a.clip.Duration <= 0 {
		return 1
	}
	p := a.time / a.clip.Duration
	if p > 1 {
		p = 1
	}
	return p
}

// Play enables the action at full weight without touching its time.
func (a *Action) Play() {
	a.enabled = true
	if a.fade == nil {
		a.weight = 1
	}
}

// Stop disables the action immediately and rewinds it.
func (a *Action) Stop() {
	a.enabled = false
	a.fade = nil
	a.Reset()
}

// Reset rewinds the action to time zero and clears finished/paused state.
func (a *Action) Reset() {
	a.time = 0
	a.paused = false
	a.finished = false
}

// FadeIn enables the action and ramps its weight to 1. A disabled action
// starts from 0; one that is fading reverses from its current weight, taking
// the matching share of seconds.
func (a *Action) FadeIn(seconds float32) {
	from := float32(0)
	if a.enabled && a.fade != nil {
		from = a.weight
	}
	a.enabled = true
	if seconds <= 0 {
		a.fade = nil
		a.weight = 1
		return
	}
	a.weight = from
	a.fade = &fade{from: from, to: 1, duration: seconds * (1 - from)}
}

// FadeOut ramps the weight to 0; the action stops when the ramp completes.
func (a *Action) FadeOut(seconds float32) {
	if !a.enabled {
		return
	}
	if seconds <= 0 {
		a.Stop()
		return
	}
	a.fade = &fade{from: a.weight, to: 0, duration: seconds}
}

// advance moves the action forward by dt seconds.
func (a *Action) advance(dt float32) {
	if !a.enabled {
		return
	}

	if f := a.fade; f != nil {
		f.elapsed += dt
		if f.elapsed >= f.duration {
			a.weight = f.to
			a.fade = nil
			if a.weight == 0 {
				a.Stop()
				return
			}
		} else {
			a.weight = f.from + (f.to-f.from)*(f.elapsed/f.duration)
		}
	}

	if a.paused {
		return
	}

	d := a.clip.Duration
	a.time += dt
	if d <= 0 {
		a.time = 0
		if a.Loop == LoopOnce {
			a.finish()
		}
		return
	}

	switch a.Loop {
	case LoopOnce:
		if a.time >= d {
			a.time = d
			a.finish()
		}
	default:
		for a.time >= d {
			a.time -= d
		}
	}
}

func (a *Action) finish() {
	a.finished = true
	if a.ClampWhenFinished {
		a.paused = true
		return
	}
	a.enabled = false
	a.fade = nil
}
