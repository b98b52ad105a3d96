package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/nahome/folio3d/internal/engine/animation"
	"github.com/nahome/folio3d/internal/logger"
	"github.com/nahome/folio3d/internal/scene"
)

// ExtDracoMesh is the glTF extension for compressed mesh geometry.
const ExtDracoMesh = "KHR_draco_mesh_compression"

var (
	// ErrNoScene is returned for documents without any scene to instantiate.
	ErrNoScene = errors.New("document has no scene")
	// ErrUnsupportedAccessor is returned when keyframe data uses a layout
	// the loader cannot convert.
	ErrUnsupportedAccessor = errors.New("unsupported accessor")
)

func modelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Decode builds a Model from a parsed document. Nodes of the default scene
// (or the first one) hang under a root node named after the model.
// Animation channels the loader cannot read are logged and left out of
// their clip; only a document without a scene is an error.
func Decode(doc *gltf.Document, name string) (*Model, error) {
	if doc == nil || len(doc.Scenes) == 0 {
		return nil, ErrNoScene
	}
	sceneIdx := 0
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		sceneIdx = *doc.Scene
	}

	m := &Model{
		Name:       name,
		Root:       scene.NewNode(name),
		Nodes:      make(map[string]*scene.Node, len(doc.Nodes)),
		Compressed: slices.Contains(doc.ExtensionsRequired, ExtDracoMesh),
	}

	names := nodeNames(doc)
	nodes := make([]*scene.Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		n := scene.NewNode(names[i])
		setTransform(n, gn)
		if gn.Mesh != nil && *gn.Mesh >= 0 && *gn.Mesh < len(doc.Meshes) {
			if b, ok := meshBounds(doc, doc.Meshes[*gn.Mesh]); ok {
				n.Bounds = b
				n.HasGeometry = true
			}
		}
		nodes[i] = n
		m.Nodes[n.Name] = n
	}

	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c >= 0 && c < len(nodes) && c != i {
				nodes[i].Add(nodes[c])
			}
		}
	}
	for _, idx := range doc.Scenes[sceneIdx].Nodes {
		if idx >= 0 && idx < len(nodes) {
			m.Root.Add(nodes[idx])
		}
	}

	log := logger.Named("loader")
	for i, a := range doc.Animations {
		clip, skipped := decodeAnimation(doc, a, i, names)
		for _, err := range skipped {
			log.Warn("animation channel skipped",
				zap.String("model", name),
				zap.String("clip", clip.Name),
				zap.Error(err))
		}
		m.Clips = append(m.Clips, clip)
	}
	return m, nil
}

// nodeNames gives every node a unique name. Unnamed nodes become nodeN and
// repeated names get the node index appended. A generated name never takes
// one that a node of the document was authored with.
func nodeNames(doc *gltf.Document) []string {
	authored := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if n.Name != "" {
			authored[n.Name] = true
		}
	}
	used := make(map[string]bool, len(doc.Nodes))
	free := func(name string) string {
		for k, base := 1, name; used[name] || authored[name]; k++ {
			name = fmt.Sprintf("%s_%d", base, k)
		}
		return name
	}

	names := make([]string, len(doc.Nodes))
	for i, n := range doc.Nodes {
		name := n.Name
		switch {
		case name == "":
			name = free(fmt.Sprintf("node%d", i))
		case used[name]:
			name = free(fmt.Sprintf("%s.%d", name, i))
		}
		used[name] = true
		names[i] = name
	}
	return names
}

var identity = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// setTransform copies the node's TRS, or its matrix when one is given.
// Zero rotation and scale arrays mean the glTF defaults.
func setTransform(n *scene.Node, gn *gltf.Node) {
	if gn.Matrix != ([16]float64{}) && gn.Matrix != identity {
		var m mgl32.Mat4
		for i, v := range gn.Matrix {
			m[i] = float32(v)
		}
		decompose(n, m)
		return
	}
	t, r, s := gn.Translation, gn.Rotation, gn.Scale
	if r == ([4]float64{}) {
		r[3] = 1
	}
	if s == ([3]float64{}) {
		s = [3]float64{1, 1, 1}
	}
	n.Position = mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])}
	n.Rotation = mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}.Normalize()
	n.Scale = mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
}

// decompose splits a column-major TRS matrix. Shear is discarded.
func decompose(n *scene.Node, m mgl32.Mat4) {
	n.Position = m.Col(3).Vec3()
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	n.Scale = mgl32.Vec3{sx, sy, sz}
	if sx == 0 || sy == 0 || sz == 0 {
		n.Rotation = mgl32.QuatIdent()
		return
	}
	rot := mgl32.Mat3FromCols(
		m.Col(0).Vec3().Mul(1/sx),
		m.Col(1).Vec3().Mul(1/sy),
		m.Col(2).Vec3().Mul(1/sz),
	)
	n.Rotation = mgl32.Mat4ToQuat(rot.Mat4()).Normalize()
}

// meshBounds returns the local box of every primitive's POSITION accessor.
// The accessor min/max are required by glTF; positions are read only when a
// writer left them out, which is impossible for compressed primitives.
func meshBounds(doc *gltf.Document, mesh *gltf.Mesh) (scene.Bounds, bool) {
	b := scene.EmptyBounds()
	for _, prim := range mesh.Primitives {
		idx, ok := prim.Attributes[gltf.POSITION]
		if !ok || idx < 0 || idx >= len(doc.Accessors) {
			continue
		}
		acc := doc.Accessors[idx]
		if len(acc.Min) >= 3 && len(acc.Max) >= 3 {
			b = b.Expand(mgl32.Vec3{float32(acc.Min[0]), float32(acc.Min[1]), float32(acc.Min[2])})
			b = b.Expand(mgl32.Vec3{float32(acc.Max[0]), float32(acc.Max[1]), float32(acc.Max[2])})
			continue
		}
		if acc.BufferView == nil {
			continue
		}
		positions, err := modeler.ReadPosition(doc, acc, nil)
		if err != nil {
			continue
		}
		for _, p := range positions {
			b = b.Expand(mgl32.Vec3(p))
		}
	}
	return b, !b.IsEmpty()
}

// decodeAnimation converts one animation. Channels that cannot be read are
// returned as errors next to the clip built from the rest.
func decodeAnimation(doc *gltf.Document, a *gltf.Animation, index int, names []string) (*animation.Clip, []error) {
	name := a.Name
	if name == "" {
		name = fmt.Sprintf("animation%d", index)
	}

	var (
		tracks  []animation.Track
		skipped []error
	)
	for _, ch := range a.Channels {
		if ch.Target.Node == nil || *ch.Target.Node < 0 || *ch.Target.Node >= len(names) {
			continue
		}
		var path animation.Path
		switch ch.Target.Path {
		case gltf.TRSTranslation:
			path = animation.PathTranslation
		case gltf.TRSRotation:
			path = animation.PathRotation
		case gltf.TRSScale:
			path = animation.PathScale
		default:
			// Morph target weights are not animated.
			continue
		}
		if ch.Sampler < 0 || ch.Sampler >= len(a.Samplers) {
			continue
		}
		s := a.Samplers[ch.Sampler]

		node := names[*ch.Target.Node]
		times, err := readFloats(doc, s.Input)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("%s %v input: %w", node, ch.Target.Path, err))
			continue
		}
		values, stride, err := readKeyValues(doc, s.Output)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("%s %v output: %w", node, ch.Target.Path, err))
			continue
		}
		want := 3
		if path == animation.PathRotation {
			want = 4
		}
		if stride != want {
			skipped = append(skipped, fmt.Errorf("%s %v: %d components: %w", node, ch.Target.Path, stride, ErrUnsupportedAccessor))
			continue
		}

		interp := animation.InterpolationLinear
		switch s.Interpolation {
		case gltf.InterpolationStep:
			interp = animation.InterpolationStep
		case gltf.InterpolationCubicSpline:
			values = splineValues(values, stride)
		}

		tracks = append(tracks, animation.Track{
			Node:          node,
			Path:          path,
			Times:         times,
			Values:        values,
			Interpolation: interp,
		})
	}
	return animation.NewClip(name, tracks), skipped
}

// splineValues keeps the value of each in-tangent, value, out-tangent
// triple. Curves are then sampled linearly between keys.
func splineValues(values []float32, stride int) []float32 {
	group := stride * 3
	out := make([]float32, 0, len(values)/3)
	for i := 0; i+group <= len(values); i += group {
		out = append(out, values[i+stride:i+2*stride]...)
	}
	return out
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range: %w", idx, ErrUnsupportedAccessor)
	}
	return doc.Accessors[idx], nil
}

func readFloats(doc *gltf.Document, idx int) ([]float32, error) {
	acc, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(doc, acc, nil)
	if err != nil {
		return nil, err
	}
	f, ok := data.([]float32)
	if !ok {
		return nil, fmt.Errorf("keyframe times as %T: %w", data, ErrUnsupportedAccessor)
	}
	return f, nil
}

// readKeyValues flattens a VEC3 or VEC4 output accessor into floats,
// normalizing integer quaternion components.
func readKeyValues(doc *gltf.Document, idx int) ([]float32, int, error) {
	acc, err := accessor(doc, idx)
	if err != nil {
		return nil, 0, err
	}
	data, err := modeler.ReadAccessor(doc, acc, nil)
	if err != nil {
		return nil, 0, err
	}
	switch v := data.(type) {
	case [][3]float32:
		out := make([]float32, 0, len(v)*3)
		for _, e := range v {
			out = append(out, e[:]...)
		}
		return out, 3, nil
	case [][4]float32:
		out := make([]float32, 0, len(v)*4)
		for _, e := range v {
			out = append(out, e[:]...)
		}
		return out, 4, nil
	case [][4]int8:
		return normalized(v, func(c int8) float32 { return max(float32(c)/127, -1) }), 4, nil
	case [][4]uint8:
		return normalized(v, func(c uint8) float32 { return float32(c) / 255 }), 4, nil
	case [][4]int16:
		return normalized(v, func(c int16) float32 { return max(float32(c)/32767, -1) }), 4, nil
	case [][4]uint16:
		return normalized(v, func(c uint16) float32 { return float32(c) / 65535 }), 4, nil
	default:
		return nil, 0, fmt.Errorf("keyframe values as %T: %w", data, ErrUnsupportedAccessor)
	}
}

func normalized[T int8 | uint8 | int16 | uint16](in [][4]T, conv func(T) float32) []float32 {
	out := make([]float32, 0, len(in)*4)
	for _, e := range in {
		for _, c := range e {
			out = append(out, conv(c))
		}
	}
	return out
}
