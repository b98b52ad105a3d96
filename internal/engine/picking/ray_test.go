package picking

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahome/folio3d/internal/scene"
)

// vecNear compares per component with an absolute tolerance, so components
// that should be zero accept float noise.
func vecNear(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d: want %v, got %v", i, want, got)
	}
}

func unitBox() scene.Bounds {
	return scene.Bounds{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
}

func TestIntersectBounds(t *testing.T) {
	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		wantT float32
	}{
		{"front", Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}}, true, 4},
		{"inside", Ray{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}}, true, 1},
		{"behind", Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}}, false, 0},
		{"miss", Ray{mgl32.Vec3{3, 0, 5}, mgl32.Vec3{0, 0, -1}}, false, 0},
		{"parallel outside", Ray{mgl32.Vec3{0, 2, 5}, mgl32.Vec3{0, 0, -1}}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, hit := tt.ray.IntersectBounds(unitBox())
			assert.Equal(t, tt.hit, hit)
			if tt.hit {
				assert.InDelta(t, tt.wantT, d, 1e-5)
			}
		})
	}

	_, hit := Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}}.IntersectBounds(scene.EmptyBounds())
	assert.False(t, hit)
}

func TestIntersectFlatPanel(t *testing.T) {
	panel := scene.Bounds{Min: mgl32.Vec3{-1, -0.5, -2}, Max: mgl32.Vec3{1, 0.5, -2}}
	r := Ray{Origin: mgl32.Vec3{0.2, 0.1, 0}, Direction: mgl32.Vec3{0, 0, -1}}
	d, hit := r.IntersectBounds(panel)
	require.True(t, hit)
	assert.InDelta(t, 2, d, 1e-5)
	vecNear(t, mgl32.Vec3{0.2, 0.1, -2}, r.At(d), 1e-5)
}

func TestScreenToRayCenter(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(50), 1.5, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	inv := proj.Mul4(view).Inv()

	r := ScreenToRay(600, 400, 1200, 800, inv)
	vecNear(t, mgl32.Vec3{0, 0, -1}, r.Direction, 1e-4)
	assert.InDelta(t, 4.9, r.Origin.Z(), 1e-3)

	left := ScreenToRay(0, 400, 1200, 800, inv)
	assert.Less(t, left.Direction.X(), float32(0))
	top := ScreenToRay(600, 0, 1200, 800, inv)
	assert.Greater(t, top.Direction.Y(), float32(0))
}
