// Package app coordinates the scene: it turns page scroll and panel input
// into animation intents, camera targets and overlay placement, and tells
// the frame loop which layers need a new render pass.
package app

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/nahome/folio3d/internal/assets"
	"github.com/nahome/folio3d/internal/config"
	"github.com/nahome/folio3d/internal/engine/animation"
	"github.com/nahome/folio3d/internal/engine/camera"
	"github.com/nahome/folio3d/internal/engine/character"
	"github.com/nahome/folio3d/internal/engine/picking"
	"github.com/nahome/folio3d/internal/engine/projector"
	"github.com/nahome/folio3d/internal/engine/zone"
	"github.com/nahome/folio3d/internal/logger"
	"github.com/nahome/folio3d/internal/page"
	"github.com/nahome/folio3d/internal/scene"
)

// moveEpsilon is the per-component camera change below which a tick does
// not count as movement.
const moveEpsilon = 0.001

// snapDistance ends stage easing once a root is this close to its goal.
const snapDistance = 1e-4

type icon struct {
	node  *scene.Node
	clip  string
	baseY float32 // authored height, restored on entering Home
	fromY float32 // height shown when the icon was last hidden
}

// Coordinator owns the scene state driven by scroll. It is used from the
// frame loop only.
type Coordinator struct {
	tuning Tuning

	page     *page.Page
	controls *page.Controls

	cam       *camera.Camera
	director  *camera.Director
	player    *animation.Player
	projector *projector.Projector
	tracker   DirtyTracker

	main      *scene.Node
	secondary *scene.Node

	character *assets.Model
	apps      *assets.Model
	room      *assets.Model
	rig       *character.Rig
	icons     []icon
	panels    []*projector.Panel

	characterYaw float32

	zone       zone.Zone
	entered    bool
	loaded     bool
	introShown bool
	sweeping   bool

	panelsChanged bool
	forceAll      bool

	width, height int
	log           *zap.Logger
}

// New creates a coordinator for a window of width x height pixels. Models
// are attached as they finish loading.
func New(t Tuning, cam *camera.Camera, pg *page.Page, width, height int) (*Coordinator, error) {
	easer, err := t.easer()
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		tuning:    t,
		page:      pg,
		controls:  page.NewControls(),
		cam:       cam,
		director:  camera.NewDirector(cam, easer),
		player:    animation.NewPlayer(),
		projector: projector.New(t.PositionThreshold, t.AngleThreshold),
		tracker:   DirtyTracker{MaxFrames: t.MaxFramesBetweenRenders},
		main:      scene.NewNode("main"),
		secondary: scene.NewNode("secondary"),
		log:       logger.Named("app"),
	}
	cam.SetPose(t.Start)
	if t.HoldUntilLoaded {
		c.player.Hold()
	}
	c.Resize(width, height)
	return c, nil
}

// PageFrom builds the page model from config for a viewport height.
func PageFrom(cfg config.PageConfig, viewport float64) *page.Page {
	sections := make([]page.Section, len(cfg.Sections))
	for i, s := range cfg.Sections {
		sections[i] = page.Section{Name: s.Name, Height: s.Height}
	}
	return page.New(sections, viewport, cfg.Margin)
}

// AttachCharacter adds the rigged character to the main layer. It starts
// at the intro start position and gets its clips bound to the character
// group.
func (c *Coordinator) AttachCharacter(m *assets.Model) {
	if m == nil || m.Root == nil {
		return
	}
	t := c.tuning
	c.character = m
	c.main.Add(m.Root)
	m.Root.Position = t.CharacterStart

	mixer := animation.NewMixer(m.Root, m.Clips)
	c.player.Bind(animation.GroupCharacter, mixer, t.Intro, t.Idle, t.Smile, t.Typing)
	c.player.Configure(animation.GroupCharacter, t.Intro, animation.LoopOnce, true)

	c.rig = character.NewRig(m.Root, t.NeckBone, t.WaistBone, t.MaxNeckYaw, t.MaxNeckPitch)
	if !c.rig.Ready() {
		c.log.Warn("neck bone not found, face tracking disabled", zap.String("bone", t.NeckBone))
	}
	c.log.Info("character attached",
		zap.String("model", m.Name),
		zap.Strings("clips", m.ClipNames()))
}

// AttachApps adds the floating app icons to the main layer. Each icon
// plays its pop-in clip once and holds the last frame.
func (c *Coordinator) AttachApps(m *assets.Model) {
	if m == nil || m.Root == nil {
		return
	}
	c.apps = m
	c.main.Add(m.Root)

	mixer := animation.NewMixer(m.Root, m.Clips)
	c.icons = c.icons[:0]
	for _, ic := range c.tuning.Icons {
		c.player.Bind(animation.GroupIcons, mixer, ic.Clip)
		c.player.Configure(animation.GroupIcons, ic.Clip, animation.LoopOnce, true)
		n := m.Find(ic.Node)
		if n == nil {
			n = m.Root.FindContaining(ic.Node)
		}
		if n == nil {
			c.log.Debug("icon node not found", zap.String("node", ic.Node))
			continue
		}
		y := n.Position.Y()
		c.icons = append(c.icons, icon{node: n, clip: ic.Clip, baseY: y, fromY: y})
	}
	c.player.AddMixer(mixer)
	if !c.entered || c.zone == zone.Home {
		c.player.Replay(animation.GroupIcons)
	}
	c.log.Info("apps attached", zap.String("model", m.Name), zap.Int("icons", len(c.icons)))
}

// AttachRoom adds the room to the secondary layer off stage and binds every
// configured overlay to its screen mesh.
func (c *Coordinator) AttachRoom(m *assets.Model) {
	if m == nil || m.Root == nil {
		return
	}
	t := c.tuning
	c.room = m
	c.secondary.Add(m.Root)
	m.Root.Position = t.RoomOffstage
	m.Root.Rotation = scene.Euler(0, t.RoomYaw, 0)

	for _, o := range t.Overlays {
		n := m.Find(o.Surface)
		if n == nil {
			n = m.Root.FindContaining(o.Surface)
		}
		if n == nil {
			c.log.Warn("screen surface not found",
				zap.String("overlay", o.Name),
				zap.String("surface", o.Surface))
			continue
		}
		panel := projector.NewPanel(o.Name, o.Width, o.Height, o.Color)
		b := c.projector.Bind(projector.NewSurface(n, o.Axis, o.Degrees), panel, projector.Placement{
			Name:     o.Name,
			Width:    o.Width,
			Height:   o.Height,
			MirrorX:  o.MirrorX,
			Zone:     o.Zone,
			FocusKey: o.FocusKey,
		})
		if b != nil {
			c.panels = append(c.panels, panel)
		}
	}
	c.panelsChanged = true
	c.log.Info("room attached", zap.String("model", m.Name), zap.Int("panels", len(c.panels)))
}

// LoadingComplete starts the queued animations. In Home the intro plays
// and sweeps the camera in.
func (c *Coordinator) LoadingComplete() {
	if c.loaded {
		return
	}
	c.loaded = true
	c.player.Release()
	if c.page.Zone() == zone.Home {
		c.playIntro(true)
	}
	c.log.Info("loading complete", zap.Stringer("zone", c.page.Zone()))
}

func (c *Coordinator) playIntro(sweep bool) {
	c.player.Play(animation.GroupCharacter, c.tuning.Intro)
	if sweep && !c.introShown && c.character != nil {
		c.sweeping = true
	}
	c.introShown = true
}

// Tune replaces the tuning between frames. Models already attached keep
// their bindings; thresholds, easing and stage targets take effect at once.
func (c *Coordinator) Tune(t Tuning) error {
	easer, err := t.easer()
	if err != nil {
		return err
	}
	c.director.SetEaser(easer)
	c.projector.PositionThreshold = t.PositionThreshold
	c.projector.AngleThreshold = t.AngleThreshold
	c.tracker.MaxFrames = t.MaxFramesBetweenRenders
	if c.rig != nil {
		c.rig.MaxYaw = mgl32.DegToRad(t.MaxNeckYaw)
		c.rig.MaxPitch = mgl32.DegToRad(t.MaxNeckPitch)
	}
	c.tuning = t
	c.forceAll = true
	c.log.Info("tuning reloaded", zap.String("easing", t.Easing))
	return nil
}

// Frame advances the scene by dt seconds and reports the dirty layers.
func (c *Coordinator) Frame(dt float32) Dirty {
	var s Signals

	s.Animating = c.player.Tick(dt)

	z := c.page.Zone()
	switch {
	case !c.entered:
		c.entered = true
		c.zone = z
		c.enter(z, true)
	case z != c.zone:
		c.leave(c.zone)
		c.log.Debug("zone changed", zap.Stringer("from", c.zone), zap.Stringer("to", z))
		c.zone = z
		c.enter(z, false)
	}

	before := c.cam.Pose()
	if c.sweeping {
		s.StageMoved = c.sweep() || s.StageMoved
	}
	if c.stage() {
		s.StageMoved = true
	}
	if c.liftIcons() {
		s.StageMoved = true
	}
	if c.roomStage() {
		s.RoomMoved = true
	}

	if c.rig != nil {
		c.rig.SetEnabled(c.tuning.FaceTracking && c.zone != zone.Projects)
		if c.rig.Apply() {
			s.Animating = true
		}
	}

	if c.zone == zone.Projects {
		c.director.Follow(c.request())
	}
	c.director.Tick()
	s.CameraMoved = !before.ApproxEqual(c.cam.Pose(), moveEpsilon)

	if c.projector.Update() {
		s.OverlayChanged = true
	}
	if c.projector.Focus(c.zone, c.controls.FocusKey()) {
		s.OverlayChanged = true
	}
	if c.panelsChanged {
		s.OverlayChanged = true
		c.panelsChanged = false
	}

	d := c.tracker.Next(s)
	if c.forceAll {
		d = Dirty{Main: true, Overlay: true, Secondary: true}
		c.forceAll = false
	}
	return d
}

// enter applies the intents of a zone. The first classification only
// records Home; the intro waits for LoadingComplete.
func (c *Coordinator) enter(z zone.Zone, first bool) {
	t := c.tuning
	switch z {
	case zone.Home:
		if first {
			return
		}
		c.player.Deactivate(animation.GroupCharacter, t.Idle, 0)
		c.player.Deactivate(animation.GroupCharacter, t.Smile, 0)
		c.player.Deactivate(animation.GroupCharacter, t.Typing, 0)
		for _, ic := range c.icons {
			ic.node.Position[1] = ic.baseY
		}
		c.player.Replay(animation.GroupIcons)
		if c.loaded {
			c.playIntro(false)
		}
		c.director.SetTarget(camera.SourceZone, t.Home)
		if c.room != nil {
			c.room.Root.Position = t.RoomOffstage
		}
	case zone.About:
		c.player.Deactivate(animation.GroupCharacter, t.Intro, 0)
		c.player.Activate(animation.GroupCharacter, t.Fade, t.Idle, t.Smile)
		if c.character != nil {
			c.character.Root.Position = mgl32.Vec3{}
		}
		c.director.SetTarget(camera.SourceZone, t.About)
	case zone.Projects:
		c.player.Deactivate(animation.GroupCharacter, t.Intro, 0)
		c.player.Activate(animation.GroupCharacter, t.Fade, t.Typing)
		c.director.SetTarget(camera.SourceZone, t.Projects)
	}
	c.sweeping = c.sweeping && z == zone.Home
}

func (c *Coordinator) leave(z zone.Zone) {
	switch z {
	case zone.Home:
		c.hideIcons()
	case zone.Projects:
		c.controls.ClearOverride()
	}
}

// sweep follows the intro clip: its progress carries the character from
// the start position to the origin and the camera to the home pose.
func (c *Coordinator) sweep() bool {
	a := c.player.Action(animation.GroupCharacter, c.tuning.Intro)
	if a == nil || !a.IsEnabled() || c.character == nil {
		c.sweeping = false
		return false
	}
	p := a.Progress()
	c.character.Root.Position = c.tuning.CharacterStart.Mul(1 - p)
	c.director.SweepTo(c.tuning.Home, p)
	if !a.IsRunning() {
		c.sweeping = false
	}
	return true
}

// stage eases the character root toward its place for the zone.
func (c *Coordinator) stage() bool {
	if c.character == nil {
		return false
	}
	t := c.tuning
	pos, yaw := mgl32.Vec3{}, float32(0)
	if c.zone == zone.Projects {
		pos, yaw = t.CharacterProjects, t.CharacterProjectsYaw
	}

	root := c.character.Root
	moved := false
	// Before the intro the character waits at its start position.
	waiting := c.zone == zone.Home && !c.introShown
	if !c.sweeping && !waiting {
		if next, ok := ease(root.Position, pos, t.Ease); ok {
			root.Position = next
			moved = true
		}
	}
	if d := yaw - c.characterYaw; abs(d) > snapDistance {
		c.characterYaw += d * t.Ease
		root.Rotation = scene.Euler(0, c.characterYaw, 0)
		moved = true
	} else if c.characterYaw != yaw {
		c.characterYaw = yaw
		root.Rotation = scene.Euler(0, yaw, 0)
		moved = true
	}
	return moved
}

// roomStage eases the room onto the stage in Projects and off it elsewhere.
func (c *Coordinator) roomStage() bool {
	if c.room == nil {
		return false
	}
	goal := c.tuning.RoomOffstage
	if c.zone == zone.Projects {
		goal = mgl32.Vec3{}
	}
	next, ok := ease(c.room.Root.Position, goal, c.tuning.Ease)
	if ok {
		c.room.Root.Position = next
	}
	return ok
}

// hideIcons stops the pop-in clips so the mixer no longer holds their last
// frame, and records the height each icon rises from.
func (c *Coordinator) hideIcons() {
	for i := range c.icons {
		c.icons[i].fromY = c.icons[i].node.Position.Y()
	}
	c.player.StopGroup(animation.GroupIcons)
}

func (c *Coordinator) iconClipsEnabled() bool {
	for _, ic := range c.icons {
		if a := c.player.Action(animation.GroupIcons, ic.clip); a != nil && a.IsEnabled() {
			return true
		}
	}
	return false
}

// liftIcons raises the icons out of view outside Home. Icons snap back on
// entering Home; one without a clip to drive it eases back instead.
func (c *Coordinator) liftIcons() bool {
	if c.zone != zone.Home && c.iconClipsEnabled() {
		c.hideIcons()
	}
	moved := false
	for _, ic := range c.icons {
		goal := ic.baseY
		if c.zone != zone.Home {
			goal = ic.fromY + c.tuning.IconHiddenY
		} else if a := c.player.Action(animation.GroupIcons, ic.clip); a != nil && a.IsEnabled() {
			continue
		}
		y := ic.node.Position.Y()
		if y == goal {
			continue
		}
		if d := goal - y; abs(d) > snapDistance {
			y += d * c.tuning.Ease
		} else {
			y = goal
		}
		ic.node.Position[1] = y
		moved = true
	}
	return moved
}

// request builds the Projects camera request from the panel controls.
func (c *Coordinator) request() camera.Request {
	t := c.tuning
	r := camera.Request{Browse: t.Projects}
	if key := c.controls.FocusKey(); key != page.FocusNone {
		r.Focus = c.focusAnchor(key)
		r.FocusOffset = t.FocusOffset
		return r
	}
	if c.controls.ManualOverride() {
		r.FaceTrack = c.neckAnchor
		r.FaceOffset = t.FaceOffset
	}
	return r
}

func (c *Coordinator) focusAnchor(key int) camera.Anchor {
	return func() (mgl32.Vec3, bool) {
		for _, b := range c.projector.Bindings() {
			if b.FocusKey == key {
				return b.Surface.WorldPosition(), true
			}
		}
		return mgl32.Vec3{}, false
	}
}

func (c *Coordinator) neckAnchor() (mgl32.Vec3, bool) {
	n := c.rig.Neck()
	if n == nil {
		return mgl32.Vec3{}, false
	}
	return n.WorldPosition(), true
}

// Resize adapts the camera and the page layout to a new window size.
func (c *Coordinator) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width, c.height = width, height
	c.cam.SetAspect(width, height)
	c.page.SetViewport(float64(height))
	c.forceAll = true
}

// Scroll moves the page by delta pixels.
func (c *Coordinator) Scroll(delta float64) { c.page.ScrollBy(delta) }

// ScrollTo jumps to an absolute offset.
func (c *Coordinator) ScrollTo(y float64) { c.page.ScrollTo(y) }

// ScrollToEnd jumps to the bottom of the page.
func (c *Coordinator) ScrollToEnd() { c.page.ScrollTo(c.page.MaxOffset()) }

// Point feeds the pointer position to face tracking.
func (c *Coordinator) Point(x, y int) {
	if c.rig != nil {
		c.rig.Point(x, y, c.width, c.height)
	}
}

// SelectCategory picks a project category, focusing its screen.
func (c *Coordinator) SelectCategory(index int) bool {
	return c.controls.SelectCategory(index)
}

// ClickHeader hands the camera to face tracking until Projects is left.
func (c *Coordinator) ClickHeader() {
	c.controls.ClearFocus()
	c.controls.ClickHeader()
}

// Click toggles the panel under the window position x, y. Returns the
// panel name and whether one was hit.
func (c *Coordinator) Click(x, y int) (string, bool) {
	if c.width == 0 || c.height == 0 {
		return "", false
	}
	ray := picking.ScreenToRay(float32(x), float32(y), float32(c.width), float32(c.height),
		c.cam.ViewProjection().Inv())
	b, ok := c.projector.HitTest(ray)
	if !ok {
		return "", false
	}
	active := c.controls.Toggle(b.Name)
	if p, ok := b.Overlay.(*projector.Panel); ok {
		p.Active = active
	}
	c.panelsChanged = true
	c.log.Debug("panel clicked", zap.String("panel", b.Name), zap.Bool("active", active))
	return b.Name, true
}

// CloseAll closes every open panel. Returns how many were open.
func (c *Coordinator) CloseAll() int {
	n := c.controls.CloseAll()
	for _, p := range c.panels {
		p.Active = false
	}
	if n > 0 {
		c.panelsChanged = true
	}
	return n
}

// OverlayZ returns the highest overlay layer, which decides whether the
// overlay target is composited above or beneath the scene.
func (c *Coordinator) OverlayZ() int {
	z := projector.LayerLowered
	for _, p := range c.panels {
		if l := p.Layer(); l > z {
			z = l
		}
	}
	return z
}

func (c *Coordinator) Camera() *camera.Camera { return c.cam }
func (c *Coordinator) Director() *camera.Director { return c.director }
func (c *Coordinator) Player() *animation.Player { return c.player }
func (c *Coordinator) Projector() *projector.Projector { return c.projector }
func (c *Coordinator) Page() *page.Page { return c.page }
func (c *Coordinator) Controls() *page.Controls { return c.controls }
func (c *Coordinator) Zone() zone.Zone { return c.zone }
func (c *Coordinator) Loaded() bool { return c.loaded }
func (c *Coordinator) MainRoot() *scene.Node { return c.main }
func (c *Coordinator) SecondaryRoot() *scene.Node { return c.secondary }
func (c *Coordinator) Panels() []*projector.Panel { return c.panels }

// ease moves cur a factor of the way to goal, snapping when close. Returns
// false when cur is already at goal.
func ease(cur, goal mgl32.Vec3, factor float32) (mgl32.Vec3, bool) {
	if cur == goal {
		return cur, false
	}
	d := goal.Sub(cur)
	if d.Len() <= snapDistance {
		return goal, true
	}
	return cur.Add(d.Mul(factor)), true
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
