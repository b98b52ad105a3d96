package camera

import (
	"fmt"
	gomath "math"

	"github.com/charmbracelet/harmonica"
)

// snapEpsilon is the remaining distance below which a component lands
// exactly on its target.
const snapEpsilon = 1e-5

// Easer moves a pose one step toward a target.
type Easer interface {
	Step(current, target Pose) Pose
	// Reset drops any motion state, e.g. after the target source changed.
	Reset()
}

// DampEaser covers a fixed fraction of the remaining distance per step.
type DampEaser struct {
	Factor float32
}

// NewDampEaser creates an exponential-decay easer.
func NewDampEaser(factor float32) *DampEaser {
	return &DampEaser{Factor: factor}
}

// Step implements Easer.
func (e *DampEaser) Step(current, target Pose) Pose {
	cur, tgt := current.components(), target.components()
	for i := range cur {
		d := tgt[i] - cur[i]
		if d == 0 {
			continue
		}
		if abs(d) < snapEpsilon {
			cur[i] = tgt[i]
			continue
		}
		next := cur[i] + d*e.Factor
		if next == cur[i] {
			// step below float precision
			next = tgt[i]
		}
		cur[i] = next
	}
	return poseFrom(cur)
}

// Reset implements Easer.
func (e *DampEaser) Reset() {}

// SpringEaser drives every pose component with a damped spring.
type SpringEaser struct {
	spring   harmonica.Spring
	velocity [6]float64
}

// NewSpringEaser creates a spring easer stepped at fps updates per second.
// A damping ratio of 1 is critically damped.
func NewSpringEaser(fps int, frequency, damping float64) *SpringEaser {
	if fps <= 0 {
		fps = 60
	}
	return &SpringEaser{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

// Step implements Easer.
func (e *SpringEaser) Step(current, target Pose) Pose {
	cur, tgt := current.components(), target.components()
	for i := range cur {
		d := tgt[i] - cur[i]
		if abs(d) < snapEpsilon && gomath.Abs(e.velocity[i]) < snapEpsilon {
			cur[i] = tgt[i]
			e.velocity[i] = 0
			continue
		}
		pos, vel := e.spring.Update(float64(cur[i]), e.velocity[i], float64(tgt[i]))
		cur[i] = float32(pos)
		e.velocity[i] = vel
	}
	return poseFrom(cur)
}

// Reset implements Easer.
func (e *SpringEaser) Reset() {
	e.velocity = [6]float64{}
}

// NewEaser builds the easer named by kind ("damp" or "spring").
func NewEaser(kind string, damping float32, fps int, frequency, ratio float64) (Easer, error) {
	switch kind {
	case "", "damp":
		return NewDampEaser(damping), nil
	case "spring":
		return NewSpringEaser(fps, frequency, ratio), nil
	default:
		return nil, fmt.Errorf("unknown easing %q", kind)
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
