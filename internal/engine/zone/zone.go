// Package zone maps the page scroll offset to one of the three scroll zones.
package zone

import "fmt"

// Zone is a named region of the page scroll range.
type Zone int

const (
	Home Zone = iota
	About
	Projects
)

// All lists every zone in scroll order.
var All = []Zone{Home, About, Projects}

// Index returns the scroll order of the zone.
func (z Zone) Index() int { return int(z) }

func (z Zone) String() string {
	switch z {
	case Home:
		return "home"
	case About:
		return "about"
	case Projects:
		return "projects"
	default:
		return fmt.Sprintf("zone(%d)", int(z))
	}
}

// Parse converts a zone name used in config files.
func Parse(s string) (Zone, error) {
	for _, z := range All {
		if z.String() == s {
			return z, nil
		}
	}
	return Home, fmt.Errorf("unknown zone %q", s)
}

// Thresholds are the lower bounds of the About and Projects zones in pixels.
type Thresholds struct {
	AboutStart    float64
	ProjectsStart float64
}

// FromLayout derives thresholds from section offsets minus margin. Results
// are clamped to zero and ordered so ProjectsStart >= AboutStart.
func FromLayout(aboutOffset, projectsOffset, margin float64) Thresholds {
	t := Thresholds{
		AboutStart:    clamp(aboutOffset - margin),
		ProjectsStart: clamp(projectsOffset - margin),
	}
	if t.ProjectsStart < t.AboutStart {
		t.ProjectsStart = t.AboutStart
	}
	return t
}

// Classify returns the zone containing offset.
func Classify(offset float64, t Thresholds) Zone {
	switch {
	case offset >= t.ProjectsStart:
		return Projects
	case offset >= t.AboutStart:
		return About
	default:
		return Home
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
