package animation

import (
	"go.uber.org/zap"

	"github.com/nahome/folio3d/internal/logger"
)

// Group names used by the scene.
const (
	GroupCharacter = "character"
	GroupIcons     = "icons"
)

// EventKind describes a change the player made to an action.
type EventKind int

const (
	EventFadeIn EventKind = iota
	EventFadeOut
	EventStop
	EventPlay
)

func (k EventKind) String() string {
	switch k {
	case EventFadeIn:
		return "fade-in"
	case EventFadeOut:
		return "fade-out"
	case EventStop:
		return "stop"
	case EventPlay:
		return "play"
	default:
		return "unknown"
	}
}

// Event records one action change.
type Event struct {
	Group string
	Clip  string
	Kind  EventKind
}

// GroupState is the lifecycle of a clip group.
type GroupState int

const (
	StateIdle GroupState = iota
	StateTransitioning
	StateSettled
)

func (s GroupState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTransitioning:
		return "transitioning"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

type member struct {
	name  string
	mixer *Mixer
}

type group struct {
	name    string
	members []member
	state   GroupState
}

func (g *group) find(clip string) *Action {
	for _, m := range g.members {
		if m.name == clip {
			return m.mixer.ClipAction(clip)
		}
	}
	return nil
}

func (g *group) has(clip string) bool {
	for _, m := range g.members {
		if m.name == clip {
			return true
		}
	}
	return false
}

// Player owns the mixers of every loaded model and switches clips by group.
// It is driven from the frame loop and is not safe for concurrent use.
type Player struct {
	mixers  []*Mixer
	groups  map[string]*group
	events  []Event
	held    bool
	pending []func()
	log     *zap.Logger
}

// NewPlayer creates an empty player.
func NewPlayer() *Player {
	return &Player{
		groups: make(map[string]*group),
		log:    logger.Named("animation"),
	}
}

// AddMixer registers a mixer to be advanced by Tick.
func (p *Player) AddMixer(m *Mixer) {
	if m == nil {
		return
	}
	for _, existing := range p.mixers {
		if existing == m {
			return
		}
	}
	p.mixers = append(p.mixers, m)
}

// Bind adds clips of m to the named group and registers m. With no clip
// names every clip of m joins the group. Clips m does not have are skipped.
func (p *Player) Bind(name string, m *Mixer, clips ...string) {
	if m == nil {
		return
	}
	p.AddMixer(m)

	g := p.groups[name]
	if g == nil {
		g = &group{name: name}
		p.groups[name] = g
	}

	if len(clips) == 0 {
		for _, c := range m.Clips() {
			clips = append(clips, c.Name)
		}
	}
	for _, c := range clips {
		if m.ClipAction(c) == nil {
			p.log.Debug("clip not found", zap.String("group", name), zap.String("clip", c))
			continue
		}
		if g.has(c) {
			continue
		}
		g.members = append(g.members, member{name: c, mixer: m})
	}
}

// Action returns the action for clip in group, or nil.
func (p *Player) Action(groupName, clip string) *Action {
	g := p.groups[groupName]
	if g == nil {
		return nil
	}
	return g.find(clip)
}

// Configure sets the loop mode and clamp flag of a clip if it exists.
func (p *Player) Configure(groupName, clip string, loop LoopMode, clamp bool) {
	if a := p.Action(groupName, clip); a != nil {
		a.Loop = loop
		a.ClampWhenFinished = clamp
	}
}

// State returns the lifecycle state of a group. Unknown groups are idle.
func (p *Player) State(groupName string) GroupState {
	if g := p.groups[groupName]; g != nil {
		return g.state
	}
	return StateIdle
}

// Hold queues every activation until Release.
func (p *Player) Hold() { p.held = true }

// Held reports whether activations are being queued.
func (p *Player) Held() bool { return p.held }

// Release runs queued activations in request order and stops queueing.
func (p *Player) Release() {
	if !p.held {
		return
	}
	p.held = false
	queued := p.pending
	p.pending = nil
	for _, fn := range queued {
		fn()
	}
}

func (p *Player) queue(fn func()) bool {
	if !p.held {
		return false
	}
	p.pending = append(p.pending, fn)
	return true
}

// Activate makes exactly the given clips play in the group. Clips already
// running are left alone and clips fading out fade back in from their
// current weight; the others are reset and faded in. Every other running
// clip of the group fades out.
func (p *Player) Activate(groupName string, fadeSeconds float32, clips ...string) {
	if p.queue(func() { p.Activate(groupName, fadeSeconds, clips...) }) {
		return
	}
	g := p.groups[groupName]
	if g == nil {
		return
	}

	want := make(map[string]bool, len(clips))
	for _, c := range clips {
		want[c] = true
	}

	for _, m := range g.members {
		if want[m.name] {
			continue
		}
		a := m.mixer.ClipAction(m.name)
		if !a.IsRunning() || a.FadingOut() {
			continue
		}
		p.fadeOut(g, m.name, a, fadeSeconds)
	}

	for _, c := range clips {
		a := g.find(c)
		if a == nil {
			continue
		}
		switch {
		case !a.IsRunning():
			a.Reset()
		case !a.FadingOut():
			continue
		}
		a.FadeIn(fadeSeconds)
		p.emit(g, c, EventFadeIn)
	}

	p.refresh(g)
}

// Deactivate fades one clip out, or stops it at once when fadeSeconds is 0.
func (p *Player) Deactivate(groupName, clip string, fadeSeconds float32) {
	if p.queue(func() { p.Deactivate(groupName, clip, fadeSeconds) }) {
		return
	}
	g := p.groups[groupName]
	if g == nil {
		return
	}
	a := g.find(clip)
	if a == nil || !a.IsEnabled() {
		return
	}
	p.fadeOut(g, clip, a, fadeSeconds)
	p.refresh(g)
}

// Play starts one clip from the beginning at full weight, leaving the rest
// of the group untouched.
func (p *Player) Play(groupName, clip string) {
	if p.queue(func() { p.Play(groupName, clip) }) {
		return
	}
	g := p.groups[groupName]
	if g == nil {
		return
	}
	a := g.find(clip)
	if a == nil {
		return
	}
	a.Reset()
	a.Play()
	p.emit(g, clip, EventPlay)
	p.refresh(g)
}

// Replay resets and plays every clip of the group that is not running.
func (p *Player) Replay(groupName string) {
	if p.queue(func() { p.Replay(groupName) }) {
		return
	}
	g := p.groups[groupName]
	if g == nil {
		return
	}
	for _, m := range g.members {
		a := m.mixer.ClipAction(m.name)
		if a.IsRunning() {
			continue
		}
		a.Reset()
		a.Play()
		p.emit(g, m.name, EventPlay)
	}
	p.refresh(g)
}

// StopGroup stops every enabled clip of the group immediately.
func (p *Player) StopGroup(groupName string) {
	if p.queue(func() { p.StopGroup(groupName) }) {
		return
	}
	g := p.groups[groupName]
	if g == nil {
		return
	}
	for _, m := range g.members {
		a := m.mixer.ClipAction(m.name)
		if !a.IsEnabled() {
			continue
		}
		a.Stop()
		p.emit(g, m.name, EventStop)
	}
	p.refresh(g)
}

// Tick advances every mixer once by dt seconds. Returns whether any mixer
// was active.
func (p *Player) Tick(dt float32) bool {
	active := false
	for _, m := range p.mixers {
		if m.Update(dt) {
			active = true
		}
	}
	for _, g := range p.groups {
		p.refresh(g)
	}
	return active
}

// Drain returns and clears the recorded events.
func (p *Player) Drain() []Event {
	ev := p.events
	p.events = nil
	return ev
}

func (p *Player) fadeOut(g *group, clip string, a *Action, seconds float32) {
	if seconds <= 0 {
		a.Stop()
		p.emit(g, clip, EventStop)
		return
	}
	a.FadeOut(seconds)
	p.emit(g, clip, EventFadeOut)
}

func (p *Player) emit(g *group, clip string, kind EventKind) {
	p.events = append(p.events, Event{Group: g.name, Clip: clip, Kind: kind})
	p.log.Debug("action",
		zap.String("group", g.name),
		zap.String("clip", clip),
		zap.Stringer("kind", kind))
}

// refresh derives the group state from its actions.
func (p *Player) refresh(g *group) {
	fading, enabled := false, false
	for _, m := range g.members {
		a := m.mixer.ClipAction(m.name)
		if a.IsFading() {
			fading = true
		}
		if a.IsEnabled() {
			enabled = true
		}
	}
	switch {
	case fading:
		g.state = StateTransitioning
	case enabled:
		g.state = StateSettled
	default:
		g.state = StateIdle
	}
}
