package renderer

import (
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahome/folio3d/internal/engine/projector"
	"github.com/nahome/folio3d/internal/scene"
)

func TestBoxLines(t *testing.T) {
	assert.Nil(t, BoxLines(scene.EmptyBounds()))

	b := scene.Bounds{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 2, 3}}
	v := BoxLines(b)
	require.Len(t, v, BoxVertexCount*3)

	// Every edge runs along exactly one axis.
	for i := 0; i < len(v); i += 6 {
		a := mgl32.Vec3{v[i], v[i+1], v[i+2]}
		c := mgl32.Vec3{v[i+3], v[i+4], v[i+5]}
		d := c.Sub(a)
		changed := 0
		for k := 0; k < 3; k++ {
			if d[k] != 0 {
				changed++
			}
		}
		assert.Equal(t, 1, changed, "edge %d", i/6)
	}
}

func TestSceneLines(t *testing.T) {
	assert.Nil(t, SceneLines(nil))

	root := scene.NewNode("room")
	root.Position = mgl32.Vec3{10, 0, 0}
	desk := scene.NewNode("desk")
	desk.Bounds = scene.Bounds{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	desk.HasGeometry = true
	root.Add(desk)

	hidden := scene.NewNode("hidden")
	hidden.Visible = false
	lamp := scene.NewNode("lamp")
	lamp.Bounds = desk.Bounds
	lamp.HasGeometry = true
	hidden.Add(lamp)
	root.Add(hidden)

	v := SceneLines(root)
	require.Len(t, v, BoxVertexCount*3, "hidden subtrees are skipped")
	assert.Equal(t, float32(9), v[0], "boxes are in world space")
}

func TestPanelQuad(t *testing.T) {
	p := projector.NewPanel("projects", 200, 100, [4]float32{1, 1, 1, 1})
	p.SetTransform(mgl32.Vec3{0, 0, -1}, mgl32.QuatIdent(), mgl32.Vec3{0.01, 0.01, 1})

	v := PanelQuad(p)
	require.Len(t, v, 18)
	assert.InDelta(t, -1, v[0], 1e-6)
	assert.InDelta(t, -0.5, v[1], 1e-6)
	assert.InDelta(t, -1, v[2], 1e-6)
	// Second triangle starts back at the first corner.
	assert.Equal(t, v[0:3], v[9:12])
}

func TestOrder(t *testing.T) {
	assert.Equal(t, []Layer{LayerMain, LayerSecondary, LayerOverlay}, Order(1))
	assert.Equal(t, []Layer{LayerMain, LayerSecondary, LayerOverlay}, Order(2))
	assert.Equal(t, []Layer{LayerOverlay, LayerMain, LayerSecondary}, Order(projector.LayerLowered))
	assert.Equal(t, "secondary", LayerSecondary.String())
}

func TestSavePNG(t *testing.T) {
	// 1x2 image, bottom row red, top row blue as GL returns it.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	img, err := flipRows(pixels, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), img.RGBAAt(0, 0).B, "top row first")
	assert.Equal(t, uint8(255), img.RGBAAt(0, 1).R)

	_, err = flipRows(pixels, 2, 2)
	assert.Error(t, err)

	dir := t.TempDir()
	path, err := savePNG(pixels, 1, 2, dir, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 2, decoded.Bounds().Dy())
}
