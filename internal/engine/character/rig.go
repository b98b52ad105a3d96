// Package character turns the character's neck and waist toward the
// pointer on top of whatever the animation mixer wrote.
package character

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/nahome/folio3d/internal/scene"
)

// waistShare is the part of the head turn the waist follows.
const waistShare = 0.35

// follow is the per-frame fraction the look offset closes on the pointer.
const follow = 0.1

// bone remembers what the rig last wrote so it can tell whether the mixer
// overwrote the bone since.
type bone struct {
	node    *scene.Node
	base    mgl32.Quat
	written mgl32.Quat
	ok      bool
}

// current returns the animated rotation the look offset is applied on.
func (b *bone) current() mgl32.Quat {
	if b.ok && b.node.Rotation == b.written {
		return b.base
	}
	return b.node.Rotation
}

// apply writes base*offset onto the bone and reports whether the rotation
// changed.
func (b *bone) apply(offset mgl32.Quat) bool {
	prev := b.node.Rotation
	base := b.current()
	b.base = base
	b.written = base.Mul(offset).Normalize()
	b.node.Rotation = b.written
	b.ok = true
	return b.written != prev
}

// Rig drives face tracking. A rig whose bones are missing does nothing.
type Rig struct {
	neck  *bone
	waist *bone

	MaxYaw   float32 // radians
	MaxPitch float32 // radians

	target  mgl32.Vec2 // pointer, [-1, 1] on both axes, +y up
	look    mgl32.Vec2 // eased yaw, pitch in radians
	enabled bool
}

// NewRig locates the bones by name under root. maxYaw and maxPitch are in
// degrees.
func NewRig(root *scene.Node, neckName, waistName string, maxYaw, maxPitch float32) *Rig {
	r := &Rig{
		MaxYaw:   mgl32.DegToRad(maxYaw),
		MaxPitch: mgl32.DegToRad(maxPitch),
		enabled:  true,
	}
	if root == nil {
		return r
	}
	if n := root.Find(neckName); n != nil {
		r.neck = &bone{node: n}
	}
	if n := root.Find(waistName); n != nil {
		r.waist = &bone{node: n}
	}
	return r
}

// Ready reports whether the neck bone was found.
func (r *Rig) Ready() bool { return r != nil && r.neck != nil }

// Neck returns the neck node, or nil.
func (r *Rig) Neck() *scene.Node {
	if !r.Ready() {
		return nil
	}
	return r.neck.node
}

// SetEnabled turns tracking on or off. When off the head eases back to the
// animated pose.
func (r *Rig) SetEnabled(on bool) { r.enabled = on }

// Point sets the pointer position in window pixels.
func (r *Rig) Point(x, y, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	nx := float32(x)/float32(width)*2 - 1
	ny := 1 - float32(y)/float32(height)*2
	r.target = mgl32.Vec2{clamp(nx, -1, 1), clamp(ny, -1, 1)}
}

// Look returns the current yaw and pitch offsets in radians.
func (r *Rig) Look() (yaw, pitch float32) { return r.look[0], r.look[1] }

// Apply eases the look offset and writes it onto the bones. Call it after
// the mixer update each frame. Returns whether a bone rotation changed.
func (r *Rig) Apply() bool {
	if !r.Ready() {
		return false
	}

	want := mgl32.Vec2{}
	if r.enabled {
		// The model faces +Z: positive yaw turns toward +X and positive
		// pitch tips the head down.
		want = mgl32.Vec2{r.target[0] * r.MaxYaw, -r.target[1] * r.MaxPitch}
	}
	d := want.Sub(r.look)
	if d.Len() < 1e-5 {
		r.look = want
	} else {
		r.look = r.look.Add(d.Mul(follow))
	}

	if r.look == (mgl32.Vec2{}) && !r.neck.ok {
		return false
	}

	changed := r.neck.apply(scene.Euler(r.look[1], r.look[0], 0))
	if r.waist != nil && r.waist.apply(scene.Euler(r.look[1]*waistShare, r.look[0]*waistShare, 0)) {
		changed = true
	}
	return changed
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
