// Package projector keeps overlay panels locked to screen meshes in the
// scene graph.
package projector

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/nahome/folio3d/internal/scene"
)

// Surface is a mesh node an overlay is glued to, plus the authored rotation
// that maps the panel plane onto the mesh plane.
type Surface struct {
	Node   *scene.Node
	Offset mgl32.Quat
}

// NewSurface creates a surface for node with an offset of degrees about axis.
func NewSurface(node *scene.Node, axis mgl32.Vec3, degrees float32) *Surface {
	offset := mgl32.QuatIdent()
	if degrees != 0 && axis.Len() > 0 {
		offset = mgl32.QuatRotate(mgl32.DegToRad(degrees), axis.Normalize())
	}
	return &Surface{Node: node, Offset: offset}
}

// WorldPosition returns the node origin in world space.
func (s *Surface) WorldPosition() mgl32.Vec3 {
	return s.Node.WorldPosition()
}

// WorldQuaternion returns the node world rotation without the offset.
func (s *Surface) WorldQuaternion() mgl32.Quat {
	return s.Node.WorldQuaternion()
}

// Orient applies the offset to a world rotation of the node.
func (s *Surface) Orient(world mgl32.Quat) mgl32.Quat {
	return world.Mul(s.Offset).Normalize()
}

// Bounds returns the world box of the mesh.
func (s *Surface) Bounds() scene.Bounds {
	return s.Node.WorldBounds()
}

// Size returns the world extents of the mesh.
func (s *Surface) Size() mgl32.Vec3 {
	return s.Bounds().Size()
}
