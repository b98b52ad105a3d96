// Package scene provides the node graph shared by loaded models, the
// animation mixer and the screen projector.
package scene

import (
	gomath "math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Node is a transform in a scene hierarchy. World transforms are derived on
// demand from the parent chain, so they are never stale after a parent moves.
type Node struct {
	Name     string
	Parent   *Node
	Children []*Node

	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Visible  bool

	// Bounds is the local-space box of geometry attached to this node.
	// Only meaningful when HasGeometry is set.
	Bounds      Bounds
	HasGeometry bool
}

// NewNode creates a node with identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		Visible:  true,
	}
}

// Add attaches child to n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.Parent != nil {
		child.Parent.Remove(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Remove detaches child from n. Returns false if it was not a child.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return true
		}
	}
	return false
}

// LocalMatrix returns Translation * Rotation * Scale.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	r := n.Rotation.Normalize().Mat4()
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// WorldMatrix returns the node transform composed with all ancestors.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// WorldQuaternion returns the accumulated rotation of the node. Scale is
// ignored, matching how surfaces and bones are authored (uniform scale).
func (n *Node) WorldQuaternion() mgl32.Quat {
	q := n.Rotation.Normalize()
	for p := n.Parent; p != nil; p = p.Parent {
		q = p.Rotation.Normalize().Mul(q)
	}
	return q.Normalize()
}

// Traverse visits n and all descendants depth-first. Returning false from
// fn skips the node's children.
func (n *Node) Traverse(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Traverse(fn)
	}
}

// Find returns the first node named exactly name, or nil.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Traverse(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindContaining returns the first node whose name contains sub, or nil.
func (n *Node) FindContaining(sub string) *Node {
	var found *Node
	n.Traverse(func(c *Node) bool {
		if found != nil {
			return false
		}
		if strings.Contains(c.Name, sub) {
			found = c
			return false
		}
		return true
	})
	return found
}

// WorldBounds returns the world-space box enclosing all geometry in the
// subtree rooted at n.
func (n *Node) WorldBounds() Bounds {
	out := EmptyBounds()
	n.Traverse(func(c *Node) bool {
		if c.HasGeometry {
			out = out.Union(c.Bounds.Transform(c.WorldMatrix()))
		}
		return true
	})
	return out
}

// Euler builds a rotation from angles in radians applied yaw (Y), then
// pitch (X), then roll (Z).
func Euler(x, y, z float32) mgl32.Quat {
	qy := mgl32.QuatRotate(y, mgl32.Vec3{0, 1, 0})
	qx := mgl32.QuatRotate(x, mgl32.Vec3{1, 0, 0})
	qz := mgl32.QuatRotate(z, mgl32.Vec3{0, 0, 1})
	return qy.Mul(qx).Mul(qz)
}

// AngleBetween returns the rotation angle in radians separating a and b.
func AngleBetween(a, b mgl32.Quat) float32 {
	rel := a.Normalize().Conjugate().Mul(b.Normalize())
	w := float64(rel.W)
	if w < 0 {
		w = -w
	}
	return 2 * float32(gomath.Atan2(float64(rel.V.Len()), w))
}
