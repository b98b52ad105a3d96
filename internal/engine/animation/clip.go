// Package animation provides keyframe clips, per-model mixers and the
// grouped clip player driven by scroll zones.
package animation

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Path identifies the node property a track animates.
type Path int

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

func (p Path) String() string {
	switch p {
	case PathTranslation:
		return "translation"
	case PathRotation:
		return "rotation"
	case PathScale:
		return "scale"
	default:
		return "unknown"
	}
}

// Interpolation selects how values between keyframes are computed.
type Interpolation int

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
)

// Track holds keyframes for one property of one node. Values holds three
// floats per key for translation/scale and four (x, y, z, w) for rotation.
type Track struct {
	Node          string
	Path          Path
	Times         []float32
	Values        []float32
	Interpolation Interpolation
}

// Clip is a named set of tracks.
type Clip struct {
	Name     string
	Duration float32
	Tracks   []Track
}

// NewClip creates a clip; the duration is taken from the last keyframe.
func NewClip(name string, tracks []Track) *Clip {
	c := &Clip{Name: name, Tracks: tracks}
	for _, t := range tracks {
		if n := len(t.Times); n > 0 && t.Times[n-1] > c.Duration {
			c.Duration = t.Times[n-1]
		}
	}
	return c
}

// FindClip returns the clip named name, or nil.
func FindClip(clips []*Clip, name string) *Clip {
	for _, c := range clips {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (t *Track) stride() int {
	if t.Path == PathRotation {
		return 4
	}
	return 3
}

// bracket finds the keys surrounding time and the blend factor between them.
// Keys are assumed sorted by time.
func (t *Track) bracket(time float32) (prev, next int, f float32) {
	for i := 0; i < t.keyCount(); i++ {
		if t.Times[i] > time {
			next = i
			break
		}
		prev = i
		next = i
	}

	if prev == next || t.Interpolation == InterpolationStep {
		return prev, prev, 0
	}

	span := t.Times[next] - t.Times[prev]
	if span > 0 {
		f = (time - t.Times[prev]) / span
	}
	return prev, next, f
}

func (t *Track) keyCount() int {
	n := len(t.Times)
	if m := len(t.Values) / t.stride(); m < n {
		n = m
	}
	return n
}

// SampleVec3 returns the interpolated translation or scale at time.
func (t *Track) SampleVec3(time float32) (mgl32.Vec3, bool) {
	if t.Path == PathRotation || t.keyCount() == 0 {
		return mgl32.Vec3{}, false
	}
	prev, next, f := t.bracket(time)
	a := t.vec3(prev)
	if prev == next {
		return a, true
	}
	b := t.vec3(next)
	return a.Add(b.Sub(a).Mul(f)), true
}

// SampleQuat returns the interpolated rotation at time.
func (t *Track) SampleQuat(time float32) (mgl32.Quat, bool) {
	if t.Path != PathRotation || t.keyCount() == 0 {
		return mgl32.QuatIdent(), false
	}
	prev, next, f := t.bracket(time)
	a := t.quat(prev)
	if prev == next {
		return a, true
	}
	return mgl32.QuatSlerp(a, t.quat(next), f), true
}

func (t *Track) vec3(i int) mgl32.Vec3 {
	o := i * 3
	return mgl32.Vec3{t.Values[o], t.Values[o+1], t.Values[o+2]}
}

func (t *Track) quat(i int) mgl32.Quat {
	o := i * 4
	return mgl32.Quat{W: t.Values[o+3], V: mgl32.Vec3{t.Values[o], t.Values[o+1], t.Values[o+2]}}.Normalize()
}
