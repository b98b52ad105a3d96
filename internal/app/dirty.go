package app

// Dirty says which layers need a new render pass this frame.
type Dirty struct {
	Main      bool
	Overlay   bool
	Secondary bool
}

// Any reports whether any layer is dirty.
func (d Dirty) Any() bool { return d.Main || d.Overlay || d.Secondary }

// Signals are the per-frame changes dirtiness is derived from.
type Signals struct {
	CameraMoved    bool // every layer is seen through the camera
	Animating      bool // mixers or the face rig wrote bones
	StageMoved     bool // character or icon roots moved
	RoomMoved      bool
	OverlayChanged bool // projector writes, focus changes, panel toggles
}

// DirtyTracker turns signals into layer flags and forces a full redraw at
// least every MaxFrames frames.
type DirtyTracker struct {
	MaxFrames int

	since int
}

// Next computes the flags for one frame.
func (t *DirtyTracker) Next(s Signals) Dirty {
	var d Dirty
	if s.CameraMoved {
		d = Dirty{Main: true, Overlay: true, Secondary: true}
	}
	if s.Animating || s.StageMoved {
		d.Main = true
	}
	if s.RoomMoved {
		d.Secondary = true
	}
	if s.OverlayChanged {
		d.Overlay = true
	}

	t.since++
	if t.MaxFrames > 0 && t.since >= t.MaxFrames {
		d = Dirty{Main: true, Overlay: true, Secondary: true}
		t.since = 0
	}
	return d
}
