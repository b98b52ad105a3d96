package camera

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/nahome/folio3d/internal/logger"
)

// Source identifies who set the current target.
type Source int

const (
	SourceNone Source = iota
	SourceZone
	SourceFocus
	SourceFaceTrack
	SourceIntro
)

func (s Source) String() string {
	switch s {
	case SourceZone:
		return "zone"
	case SourceFocus:
		return "focus"
	case SourceFaceTrack:
		return "face-track"
	case SourceIntro:
		return "intro"
	default:
		return "none"
	}
}

// Anchor reports a world position a target is derived from. It returns
// false while the node it reads is not loaded.
type Anchor func() (mgl32.Vec3, bool)

// Request describes the candidate targets for one tick. Nil anchors are
// not requested.
type Request struct {
	Browse      Pose
	Focus       Anchor
	FocusOffset mgl32.Vec3
	FaceTrack   Anchor
	FaceOffset  mgl32.Vec3
}

// Director owns the camera target and eases the camera toward it.
type Director struct {
	cam    *Camera
	easer  Easer
	target Pose
	source Source
	set    bool
	log    *zap.Logger
}

// NewDirector creates a director driving cam. A nil easer uses damping 0.08.
func NewDirector(cam *Camera, easer Easer) *Director {
	if easer == nil {
		easer = NewDampEaser(0.08)
	}
	return &Director{cam: cam, easer: easer, log: logger.Named("camera")}
}

// Camera returns the driven camera.
func (d *Director) Camera() *Camera { return d.cam }

// SetEaser swaps the easing strategy, keeping the target.
func (d *Director) SetEaser(e Easer) {
	if e != nil {
		d.easer = e
	}
}

// Target returns the current target and its source. ok is false until a
// target has been set.
func (d *Director) Target() (p Pose, src Source, ok bool) {
	return d.target, d.source, d.set
}

// SetTarget replaces the target. Switching source resets the easer so the
// camera eases from where it is without carrying old velocity.
func (d *Director) SetTarget(src Source, p Pose) {
	if src != d.source {
		d.easer.Reset()
		d.log.Debug("target source changed",
			zap.Stringer("from", d.source),
			zap.Stringer("to", src))
	}
	d.target = p
	d.source = src
	d.set = true
}

// Follow selects the highest priority available target: a focused screen,
// then face tracking, then the browse pose. When the selected anchor is not
// available the target is left as it was and false is returned.
func (d *Director) Follow(r Request) bool {
	switch {
	case r.Focus != nil:
		pos, ok := r.Focus()
		if !ok {
			return false
		}
		d.SetTarget(SourceFocus, Pose{Position: pos.Add(r.FocusOffset)})
	case r.FaceTrack != nil:
		neck, ok := r.FaceTrack()
		if !ok {
			return false
		}
		eye := neck.Add(r.FaceOffset)
		d.SetTarget(SourceFaceTrack, Pose{Position: eye, Rotation: LookAtRotation(eye, neck)})
	default:
		d.SetTarget(SourceZone, r.Browse)
	}
	return true
}

// Tick eases the camera one step toward the target. Returns whether the
// camera moved. Without a target the camera holds.
func (d *Director) Tick() bool {
	if !d.set {
		return false
	}
	cur := d.cam.Pose()
	next := d.easer.Step(cur, d.target)
	if next == cur {
		return false
	}
	d.cam.SetPose(next)
	return true
}

// SweepTo pulls the camera toward p by progress in [0, 1] and makes p the
// intro target. Used while the intro clip plays.
func (d *Director) SweepTo(p Pose, progress float32) bool {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	d.SetTarget(SourceIntro, p)
	cur := d.cam.Pose()
	next := cur.Lerp(p, progress)
	if next == cur {
		return false
	}
	d.cam.SetPose(next)
	return true
}

// Settled reports whether the camera sits on its target.
func (d *Director) Settled() bool {
	return !d.set || d.cam.Pose() == d.target
}
