package scene

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vecNear compares per component with an absolute tolerance, so components
// that should be zero accept float noise.
func vecNear(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d: want %v, got %v", i, want, got)
	}
}

func TestWorldPositionFollowsParent(t *testing.T) {
	room := NewNode("room")
	screen := NewNode("leftScreen")
	room.Add(screen)

	screen.Position = mgl32.Vec3{1, 0, 0}
	room.Position = mgl32.Vec3{-10, 0, 0}
	vecNear(t, mgl32.Vec3{-9, 0, 0}, screen.WorldPosition(), 1e-4)

	// Parent moves after the child was read: the child must follow.
	room.Position = mgl32.Vec3{0, 0, 0}
	vecNear(t, mgl32.Vec3{1, 0, 0}, screen.WorldPosition(), 1e-4)
}

func TestWorldPositionAppliesParentRotation(t *testing.T) {
	room := NewNode("room")
	room.Rotation = mgl32.QuatRotate(gomath.Pi, mgl32.Vec3{0, 1, 0})
	screen := NewNode("screen")
	screen.Position = mgl32.Vec3{1, 2, 3}
	room.Add(screen)

	vecNear(t, mgl32.Vec3{-1, 2, -3}, screen.WorldPosition(), 1e-4)

	q := screen.WorldQuaternion()
	vecNear(t, mgl32.Vec3{-1, 0, 0}, q.Rotate(mgl32.Vec3{1, 0, 0}), 1e-4)
}

func TestAddReparents(t *testing.T) {
	a, b := NewNode("a"), NewNode("b")
	c := NewNode("c")
	a.Add(c)
	b.Add(c)

	assert.Empty(t, a.Children)
	require.Len(t, b.Children, 1)
	assert.Same(t, b, c.Parent)

	assert.False(t, a.Remove(c))
	assert.True(t, b.Remove(c))
	assert.Nil(t, c.Parent)
}

func TestFind(t *testing.T) {
	root := NewNode("root")
	rig := NewNode("Armature")
	neck := NewNode("mixamorigNeck")
	icon := NewNode("blender_icon")
	root.Add(rig)
	rig.Add(neck)
	root.Add(icon)

	assert.Same(t, neck, root.Find("mixamorigNeck"))
	assert.Nil(t, root.Find("mixamorigHead"))
	assert.Same(t, icon, root.FindContaining("blender"))
	assert.Nil(t, root.FindContaining("figma"))
}

func TestWorldBounds(t *testing.T) {
	root := NewNode("root")
	mesh := NewNode("middleScreen")
	mesh.HasGeometry = true
	mesh.Bounds = Bounds{Min: mgl32.Vec3{-1, -0.5, 0}, Max: mgl32.Vec3{1, 0.5, 0}}
	mesh.Scale = mgl32.Vec3{2, 2, 2}
	root.Add(mesh)
	root.Position = mgl32.Vec3{0, 1, 0}

	b := root.WorldBounds()
	vecNear(t, mgl32.Vec3{-2, 0, 0}, b.Min, 1e-4)
	vecNear(t, mgl32.Vec3{2, 2, 0}, b.Max, 1e-4)
	vecNear(t, mgl32.Vec3{4, 2, 0}, b.Size(), 1e-4)

	empty := NewNode("empty").WorldBounds()
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, mgl32.Vec3{}, empty.Size())
}

func TestAngleBetween(t *testing.T) {
	a := mgl32.QuatIdent()
	b := mgl32.QuatRotate(0.5, mgl32.Vec3{0, 1, 0})
	assert.InDelta(t, 0.5, AngleBetween(a, b), 1e-4)
	assert.InDelta(t, 0, AngleBetween(b, b), 1e-3)

	// q and -q are the same rotation.
	neg := mgl32.Quat{W: -b.W, V: b.V.Mul(-1)}
	assert.InDelta(t, 0, AngleBetween(b, neg), 1e-3)
}

func TestEulerYawOnly(t *testing.T) {
	q := Euler(0, mgl32.DegToRad(90), 0)
	vecNear(t, mgl32.Vec3{0, 0, -1}, q.Rotate(mgl32.Vec3{1, 0, 0}), 1e-4)
}
