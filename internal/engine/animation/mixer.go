package animation

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/nahome/folio3d/internal/scene"
)

// channel is one animated property of one node plus its rest value.
type channel struct {
	node *scene.Node
	path Path
	rest [4]float32
}

// accum collects weighted samples for a channel during one Update.
type accum struct {
	weight float32
	vec    mgl32.Vec3
	quat   mgl32.Quat
}

// Mixer drives the actions of one model. Channels not touched by any
// enabled action keep whatever value they currently hold.
type Mixer struct {
	root     *scene.Node
	clips    []*Clip
	actions  map[string]*Action
	order    []*Action
	channels map[channelKey]*channel
}

type channelKey struct {
	node string
	path Path
}

// NewMixer creates a mixer for root. Rest values are captured from the
// current node transforms of every channel any clip animates.
func NewMixer(root *scene.Node, clips []*Clip) *Mixer {
	m := &Mixer{
		root:     root,
		clips:    clips,
		actions:  make(map[string]*Action, len(clips)),
		channels: make(map[channelKey]*channel),
	}
	for _, c := range clips {
		for _, t := range c.Tracks {
			key := channelKey{t.Node, t.Path}
			if _, ok := m.channels[key]; ok {
				continue
			}
			n := root.Find(t.Node)
			if n == nil {
				continue
			}
			m.channels[key] = &channel{node: n, path: t.Path, rest: readChannel(n, t.Path)}
		}
	}
	return m
}

// Root returns the node the mixer animates.
func (m *Mixer) Root() *scene.Node { return m.root }

// Clips returns the clips known to the mixer.
func (m *Mixer) Clips() []*Clip { return m.clips }

// ClipAction returns the action for the named clip, creating it on first
// use. Returns nil when the clip does not exist.
func (m *Mixer) ClipAction(name string) *Action {
	if a, ok := m.actions[name]; ok {
		return a
	}
	c := FindClip(m.clips, name)
	if c == nil {
		return nil
	}
	a := newAction(c)
	m.actions[name] = a
	m.order = append(m.order, a)
	return a
}

// Active reports whether any action is enabled and either advancing or
// changing weight.
func (m *Mixer) Active() bool {
	for _, a := range m.order {
		if a.IsRunning() || a.IsFading() {
			return true
		}
	}
	return false
}

// Update advances every enabled action by dt seconds and writes the blended
// pose. Returns whether the pose may have changed.
func (m *Mixer) Update(dt float32) bool {
	active := m.Active()

	samples := make(map[*channel]*accum)
	for _, a := range m.order {
		a.advance(dt)
		w := a.Weight()
		if w <= 0 {
			continue
		}
		for i := range a.clip.Tracks {
			t := &a.clip.Tracks[i]
			ch := m.channels[channelKey{t.Node, t.Path}]
			if ch == nil {
				continue
			}
			acc := samples[ch]
			if acc == nil {
				acc = &accum{}
				samples[ch] = acc
			}
			acc.add(t, a.time, w)
		}
	}

	for ch, acc := range samples {
		ch.apply(acc)
	}
	return active
}

func (acc *accum) add(t *Track, time, w float32) {
	if t.Path == PathRotation {
		q, ok := t.SampleQuat(time)
		if !ok {
			return
		}
		if acc.weight == 0 {
			acc.quat = q
		} else {
			acc.quat = mgl32.QuatNlerp(acc.quat, q, w/(acc.weight+w))
		}
		acc.weight += w
		return
	}
	v, ok := t.SampleVec3(time)
	if !ok {
		return
	}
	acc.vec = acc.vec.Add(v.Mul(w))
	acc.weight += w
}

// apply writes the accumulated sample, blending toward the rest value when
// the total weight is below one.
func (ch *channel) apply(acc *accum) {
	if acc.weight <= 0 {
		return
	}
	if ch.path == PathRotation {
		q := acc.quat
		if acc.weight < 1 {
			rest := mgl32.Quat{W: ch.rest[3], V: mgl32.Vec3{ch.rest[0], ch.rest[1], ch.rest[2]}}
			q = mgl32.QuatNlerp(rest, q, acc.weight)
		}
		ch.node.Rotation = q.Normalize()
		return
	}

	v := acc.vec
	if acc.weight < 1 {
		rest := mgl32.Vec3{ch.rest[0], ch.rest[1], ch.rest[2]}
		v = v.Add(rest.Mul(1 - acc.weight))
	} else {
		v = v.Mul(1 / acc.weight)
	}
	switch ch.path {
	case PathTranslation:
		ch.node.Position = v
	case PathScale:
		ch.node.Scale = v
	}
}

func readChannel(n *scene.Node, p Path) [4]float32 {
	switch p {
	case PathRotation:
		q := n.Rotation
		return [4]float32{q.V[0], q.V[1], q.V[2], q.W}
	case PathScale:
		return [4]float32{n.Scale[0], n.Scale[1], n.Scale[2], 0}
	default:
		return [4]float32{n.Position[0], n.Position[1], n.Position[2], 0}
	}
}
