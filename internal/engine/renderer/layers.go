package renderer

// Layer is one offscreen render target.
type Layer int

const (
	LayerMain Layer = iota
	LayerSecondary
	LayerOverlay
	layerCount
)

func (l Layer) String() string {
	switch l {
	case LayerMain:
		return "main"
	case LayerSecondary:
		return "secondary"
	case LayerOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// Order returns the layers bottom to top. Main and secondary sit at z 0
// with secondary drawn after main; the overlay sits at overlayZ and goes
// under both when lowered.
func Order(overlayZ int) []Layer {
	if overlayZ < 0 {
		return []Layer{LayerOverlay, LayerMain, LayerSecondary}
	}
	return []Layer{LayerMain, LayerSecondary, LayerOverlay}
}
