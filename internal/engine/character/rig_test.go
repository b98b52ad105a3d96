package character

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahome/folio3d/internal/scene"
)

func skeleton() (*scene.Node, *scene.Node, *scene.Node) {
	root := scene.NewNode("Armature")
	spine := scene.NewNode("mixamorigSpine")
	neck := scene.NewNode("mixamorigNeck")
	root.Add(spine)
	spine.Add(neck)
	return root, spine, neck
}

func TestMissingBonesDisableRig(t *testing.T) {
	r := NewRig(scene.NewNode("empty"), "mixamorigNeck", "mixamorigSpine", 40, 25)
	assert.False(t, r.Ready())
	assert.Nil(t, r.Neck())
	r.Point(10, 10, 100, 100)
	assert.False(t, r.Apply())

	assert.False(t, NewRig(nil, "a", "b", 1, 1).Ready())
}

func TestFaceTurnsTowardPointer(t *testing.T) {
	root, _, neck := skeleton()
	r := NewRig(root, "mixamorigNeck", "mixamorigSpine", 40, 25)
	require.True(t, r.Ready())

	// Pointer at the right edge, vertically centered.
	r.Point(100, 50, 100, 100)
	for i := 0; i < 200; i++ {
		r.Apply()
	}
	yaw, pitch := r.Look()
	assert.InDelta(t, mgl32.DegToRad(40), yaw, 1e-4)
	assert.InDelta(t, 0, pitch, 1e-4)

	face := neck.WorldQuaternion().Rotate(mgl32.Vec3{0, 0, 1})
	assert.Greater(t, face.X(), float32(0.5), "face turned toward +X")
}

func TestApplyDoesNotAccumulateWithoutMixer(t *testing.T) {
	root, spine, neck := skeleton()
	r := NewRig(root, "mixamorigNeck", "mixamorigSpine", 40, 25)
	r.Point(100, 0, 100, 100)
	for i := 0; i < 300; i++ {
		r.Apply()
	}
	first := neck.Rotation
	for i := 0; i < 50; i++ {
		r.Apply()
	}
	assert.InDelta(t, 0, scene.AngleBetween(first, neck.Rotation), 1e-4, "stable when nothing else writes the bone")
	assert.False(t, r.Apply(), "a settled rig reports no change")

	yaw, pitch := r.Look()
	waist := scene.Euler(pitch*waistShare, yaw*waistShare, 0)
	assert.InDelta(t, 0, scene.AngleBetween(waist, spine.Rotation), 3e-3)
}

func TestApplyLayersOnMixerPose(t *testing.T) {
	root, _, neck := skeleton()
	r := NewRig(root, "mixamorigNeck", "mixamorigSpine", 40, 25)
	r.Point(100, 50, 100, 100)
	for i := 0; i < 200; i++ {
		r.Apply()
	}

	// The mixer writes a fresh animated pose; the offset goes on top of it.
	animated := mgl32.QuatRotate(0.3, mgl32.Vec3{1, 0, 0})
	neck.Rotation = animated
	assert.True(t, r.Apply())
	got := scene.AngleBetween(animated, neck.Rotation)
	yaw, _ := r.Look()
	assert.InDelta(t, yaw, got, 3e-3)
}

func TestDisableEasesBack(t *testing.T) {
	root, _, _ := skeleton()
	r := NewRig(root, "mixamorigNeck", "mixamorigSpine", 40, 25)
	r.Point(0, 0, 100, 100)
	for i := 0; i < 100; i++ {
		r.Apply()
	}
	r.SetEnabled(false)
	for i := 0; i < 300; i++ {
		r.Apply()
	}
	yaw, pitch := r.Look()
	assert.Zero(t, yaw)
	assert.Zero(t, pitch)
}
