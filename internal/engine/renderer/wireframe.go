package renderer

import (
	"github.com/nahome/folio3d/internal/engine/projector"
	"github.com/nahome/folio3d/internal/scene"
)

// BoxVertexCount is the number of vertices of a box wireframe (12 edges × 2).
const BoxVertexCount = 24

// boxEdges pairs indices of scene.Bounds.Corners: bottom ring, top ring,
// then the verticals.
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// BoxLines returns the edges of b as a line list, [x, y, z] per vertex.
// An empty box yields nothing.
func BoxLines(b scene.Bounds) []float32 {
	if b.IsEmpty() {
		return nil
	}
	c := b.Corners()
	out := make([]float32, 0, BoxVertexCount*3)
	for _, e := range boxEdges {
		out = append(out, c[e[0]][:]...)
		out = append(out, c[e[1]][:]...)
	}
	return out
}

// SceneLines outlines the world bounds of every visible node with
// geometry under root. Hidden nodes hide their subtree.
func SceneLines(root *scene.Node) []float32 {
	if root == nil {
		return nil
	}
	var out []float32
	root.Traverse(func(n *scene.Node) bool {
		if !n.Visible {
			return false
		}
		if n.HasGeometry {
			out = append(out, BoxLines(n.Bounds.Transform(n.WorldMatrix()))...)
		}
		return true
	})
	return out
}

// PanelQuad returns the panel as two triangles in world space.
func PanelQuad(p *projector.Panel) []float32 {
	c := p.Corners()
	out := make([]float32, 0, 18)
	for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
		out = append(out, c[i][:]...)
	}
	return out
}
