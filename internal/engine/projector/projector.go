package projector

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/nahome/folio3d/internal/engine/picking"
	"github.com/nahome/folio3d/internal/engine/zone"
	"github.com/nahome/folio3d/internal/logger"
	"github.com/nahome/folio3d/internal/scene"
)

// Binding glues one overlay to one surface.
type Binding struct {
	Name     string
	Surface  *Surface
	Overlay  Overlay
	Zone     zone.Zone
	FocusKey int // 0 never focuses

	scale    mgl32.Vec3
	lastPos  mgl32.Vec3
	lastQuat mgl32.Quat
	synced   bool
}

// Error returns the distance between the overlay's last synced position and
// the surface's current one.
func (b *Binding) Error() float32 {
	return b.Surface.WorldPosition().Sub(b.lastPos).Len()
}

// Projector copies surface transforms onto overlays, skipping writes that
// would move an overlay by less than the thresholds.
type Projector struct {
	PositionThreshold float32
	AngleThreshold    float32 // radians

	bindings []*Binding
	log      *zap.Logger
}

// New creates a projector with the given skip thresholds.
func New(positionThreshold, angleThreshold float32) *Projector {
	return &Projector{
		PositionThreshold: positionThreshold,
		AngleThreshold:    angleThreshold,
		log:               logger.Named("projector"),
	}
}

// Placement describes how an overlay maps onto its surface.
type Placement struct {
	Name     string
	Width    int     // overlay size in pixels
	Height   int
	MirrorX  float32 // horizontal scale factor, 0 means 1
	Zone     zone.Zone
	FocusKey int
}

// Bind attaches o to s. The overlay scale is fixed from the surface size at
// bind time so pixels map onto the mesh extents. The overlay starts lowered
// and is synced immediately. Returns nil when either side is missing.
func (p *Projector) Bind(s *Surface, o Overlay, pl Placement) *Binding {
	if s == nil || s.Node == nil || o == nil {
		return nil
	}
	mirrorX := pl.MirrorX
	if mirrorX == 0 {
		mirrorX = 1
	}
	width, height := pl.Width, pl.Height
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	size := s.Size()
	sx, sy := size.X(), size.Y()
	if sx == 0 || sy == 0 {
		sx, sy = 1, 1
	}

	b := &Binding{
		Name:     pl.Name,
		Surface:  s,
		Overlay:  o,
		Zone:     pl.Zone,
		FocusKey: pl.FocusKey,
		scale:    mgl32.Vec3{sx / float32(width) * mirrorX, sy / float32(height), 1},
	}
	o.Lower()
	p.write(b, s.WorldPosition(), s.WorldQuaternion())
	p.bindings = append(p.bindings, b)

	p.log.Debug("overlay bound",
		zap.String("overlay", pl.Name),
		zap.String("surface", s.Node.Name),
		zap.Stringer("zone", pl.Zone))
	return b
}

// Bindings returns all bindings in bind order.
func (p *Projector) Bindings() []*Binding { return p.bindings }

// Binding returns the binding named name, or nil.
func (p *Projector) Binding(name string) *Binding {
	for _, b := range p.bindings {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// Update syncs every overlay whose surface moved or turned beyond the
// thresholds since its last sync. Returns whether any overlay was written.
func (p *Projector) Update() bool {
	wrote := false
	for _, b := range p.bindings {
		pos := b.Surface.WorldPosition()
		q := b.Surface.WorldQuaternion()
		if b.synced &&
			pos.Sub(b.lastPos).Len() <= p.PositionThreshold &&
			scene.AngleBetween(q, b.lastQuat) <= p.AngleThreshold {
			continue
		}
		p.write(b, pos, q)
		wrote = true
	}
	return wrote
}

func (p *Projector) write(b *Binding, pos mgl32.Vec3, q mgl32.Quat) {
	b.Overlay.SetTransform(pos, b.Surface.Orient(q), b.scale)
	b.lastPos = pos
	b.lastQuat = q
	b.synced = true
}

// Focus raises the overlays bound to active and lowers the rest. The one
// whose key equals focusKey is raised highest. Returns whether any layer
// changed.
func (p *Projector) Focus(active zone.Zone, focusKey int) bool {
	changed := false
	for _, b := range p.bindings {
		want := LayerLowered
		if b.Zone == active {
			want = LayerRaised
			if focusKey != 0 && b.FocusKey == focusKey {
				want = LayerFocused
			}
		}
		if b.Overlay.Layer() == want {
			continue
		}
		if want == LayerLowered {
			b.Overlay.Lower()
		} else {
			b.Overlay.SetRaised(want)
		}
		changed = true
	}
	return changed
}

// HitTest returns the raised binding whose surface the ray hits first.
// Higher layers win over nearer lower ones.
func (p *Projector) HitTest(r picking.Ray) (*Binding, bool) {
	var (
		best      *Binding
		bestT     float32
		bestLayer int
	)
	for _, b := range p.bindings {
		layer := b.Overlay.Layer()
		if layer < LayerRaised {
			continue
		}
		t, hit := r.IntersectBounds(b.Surface.Bounds())
		if !hit {
			continue
		}
		if best == nil || layer > bestLayer || (layer == bestLayer && t < bestT) {
			best, bestT, bestLayer = b, t, layer
		}
	}
	return best, best != nil
}
