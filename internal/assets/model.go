package assets

import (
	"github.com/nahome/folio3d/internal/engine/animation"
	"github.com/nahome/folio3d/internal/scene"
)

// Model is a decoded glTF scene: its node graph, a name index over it and
// the animation clips that target it.
type Model struct {
	Name  string
	Path  string
	Root  *scene.Node
	Nodes map[string]*scene.Node
	Clips []*animation.Clip

	// Compressed is set when the file requires mesh decompression. Node
	// graph, clips and accessor bounds are still available.
	Compressed bool
}

// Find returns the node with the given name, or nil.
func (m *Model) Find(name string) *scene.Node {
	if m == nil {
		return nil
	}
	return m.Nodes[name]
}

// Clip returns the named clip, or nil.
func (m *Model) Clip(name string) *animation.Clip {
	if m == nil {
		return nil
	}
	return animation.FindClip(m.Clips, name)
}

// ClipNames lists the clips in file order.
func (m *Model) ClipNames() []string {
	if m == nil {
		return nil
	}
	names := make([]string, len(m.Clips))
	for i, c := range m.Clips {
		names[i] = c.Name
	}
	return names
}
