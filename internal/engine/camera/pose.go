package camera

import "github.com/go-gl/mathgl/mgl32"

// Pose is a camera target: position plus Euler rotation in radians.
// It is always replaced as a whole.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
}

// PoseDegrees builds a pose from a rotation given in degrees.
func PoseDegrees(position, rotationDeg [3]float32) Pose {
	return Pose{
		Position: mgl32.Vec3(position),
		Rotation: mgl32.Vec3{
			mgl32.DegToRad(rotationDeg[0]),
			mgl32.DegToRad(rotationDeg[1]),
			mgl32.DegToRad(rotationDeg[2]),
		},
	}
}

// ApproxEqual reports whether both poses match within eps per component.
func (p Pose) ApproxEqual(o Pose, eps float32) bool {
	for i := range 3 {
		if mgl32.Abs(p.Position[i]-o.Position[i]) > eps || mgl32.Abs(p.Rotation[i]-o.Rotation[i]) > eps {
			return false
		}
	}
	return true
}

// Lerp moves every component of p toward o by t.
func (p Pose) Lerp(o Pose, t float32) Pose {
	if t >= 1 {
		return o
	}
	return Pose{
		Position: p.Position.Add(o.Position.Sub(p.Position).Mul(t)),
		Rotation: p.Rotation.Add(o.Rotation.Sub(p.Rotation).Mul(t)),
	}
}

func (p Pose) components() [6]float32 {
	return [6]float32{
		p.Position[0], p.Position[1], p.Position[2],
		p.Rotation[0], p.Rotation[1], p.Rotation[2],
	}
}

func poseFrom(c [6]float32) Pose {
	return Pose{
		Position: mgl32.Vec3{c[0], c[1], c[2]},
		Rotation: mgl32.Vec3{c[3], c[4], c[5]},
	}
}
