package projector

import "github.com/go-gl/mathgl/mgl32"

// Overlay layers. Lowered overlays sit beneath the scene and take no
// clicks; raised ones draw above it.
const (
	LayerLowered = -1
	LayerRaised  = 1
	LayerFocused = 2
)

// Overlay is a 2D panel positioned in 3D space.
type Overlay interface {
	SetTransform(pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3)
	SetRaised(z int)
	Lower()
	Layer() int
}

// Panel is an overlay of Width x Height pixels drawn by the renderer as a
// textured quad.
type Panel struct {
	Name   string
	Width  int
	Height int
	Color  [4]float32

	// Active mirrors the "active" class toggled by panel controls.
	Active bool

	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	layer  int
	writes int
}

// NewPanel creates a lowered panel.
func NewPanel(name string, width, height int, color [4]float32) *Panel {
	return &Panel{
		Name:     name,
		Width:    width,
		Height:   height,
		Color:    color,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		layer:    LayerLowered,
	}
}

// SetTransform implements Overlay.
func (p *Panel) SetTransform(pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) {
	p.Position = pos
	p.Rotation = rot
	p.Scale = scale
	p.writes++
}

// SetRaised implements Overlay.
func (p *Panel) SetRaised(z int) {
	if z < LayerRaised {
		z = LayerRaised
	}
	p.layer = z
}

// Lower implements Overlay.
func (p *Panel) Lower() { p.layer = LayerLowered }

// Layer implements Overlay.
func (p *Panel) Layer() int { return p.layer }

// Raised reports whether the panel is above the scene.
func (p *Panel) Raised() bool { return p.layer >= LayerRaised }

// Writes returns how many transforms have been applied.
func (p *Panel) Writes() int { return p.writes }

// Model returns the panel transform; the quad spans Width x Height units
// centered on the origin before scaling.
func (p *Panel) Model() mgl32.Mat4 {
	t := mgl32.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z())
	s := mgl32.Scale3D(p.Scale.X(), p.Scale.Y(), p.Scale.Z())
	return t.Mul4(p.Rotation.Normalize().Mat4()).Mul4(s)
}

// Corners returns the quad corners in world space, counter-clockwise from
// bottom left.
func (p *Panel) Corners() [4]mgl32.Vec3 {
	m := p.Model()
	hw, hh := float32(p.Width)/2, float32(p.Height)/2
	local := [4]mgl32.Vec3{{-hw, -hh, 0}, {hw, -hh, 0}, {hw, hh, 0}, {-hw, hh, 0}}
	var out [4]mgl32.Vec3
	for i, c := range local {
		out[i] = mgl32.TransformCoordinate(c, m)
	}
	return out
}
