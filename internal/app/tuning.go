package app

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/nahome/folio3d/internal/config"
	"github.com/nahome/folio3d/internal/engine/camera"
	"github.com/nahome/folio3d/internal/engine/zone"
)

// Overlay describes one panel glued to a screen mesh of the room.
type Overlay struct {
	Name     string
	Surface  string
	Width    int
	Height   int
	Axis     mgl32.Vec3
	Degrees  float32
	MirrorX  float32
	Zone     zone.Zone
	FocusKey int
	Color    [4]float32
}

// Icon binds an app icon node, matched by substring, to its pop-in clip.
type Icon struct {
	Node string
	Clip string
}

// Tuning is everything the choreographer reads from config. It can be
// replaced between frames.
type Tuning struct {
	Fade float32 // seconds
	Ease float32 // per-frame stage lerp factor

	Intro, Idle, Smile, Typing string
	Icons                      []Icon
	HoldUntilLoaded            bool

	Start, Home, About, Projects camera.Pose
	FocusOffset, FaceOffset      mgl32.Vec3

	Easing          string
	Damping         float32
	FPS             int
	SpringFrequency float64
	SpringDamping   float64

	CharacterStart       mgl32.Vec3
	CharacterProjects    mgl32.Vec3
	CharacterProjectsYaw float32 // radians
	RoomOffstage         mgl32.Vec3
	RoomYaw              float32 // radians
	IconHiddenY          float32

	NeckBone, WaistBone      string
	FaceTracking             bool
	MaxNeckYaw, MaxNeckPitch float32 // degrees

	PositionThreshold float32
	AngleThreshold    float32
	Overlays          []Overlay

	MaxFramesBetweenRenders int
}

// TuningFrom converts a validated config.
func TuningFrom(cfg *config.Config) (Tuning, error) {
	pose := func(p config.PoseConfig) camera.Pose {
		return camera.PoseDegrees(p.Position, p.Rotation)
	}

	t := Tuning{
		Fade:            cfg.Animation.FadeSeconds,
		Ease:            cfg.Stage.Ease,
		Intro:           cfg.Animation.Intro,
		Idle:            cfg.Animation.Idle,
		Smile:           cfg.Animation.Smile,
		Typing:          cfg.Animation.Typing,
		HoldUntilLoaded: cfg.Animation.HoldUntilLoaded,

		Start:       pose(cfg.Camera.Start),
		Home:        pose(cfg.Camera.Home),
		About:       pose(cfg.Camera.About),
		Projects:    pose(cfg.Camera.Projects),
		FocusOffset: mgl32.Vec3(cfg.Camera.FocusOffset),
		FaceOffset:  mgl32.Vec3(cfg.Camera.FaceOffset),

		Easing:          cfg.Camera.Easing,
		Damping:         cfg.Camera.Damping,
		FPS:             cfg.Loop.FPSLimit,
		SpringFrequency: cfg.Camera.SpringFrequency,
		SpringDamping:   cfg.Camera.SpringDamping,

		CharacterStart:       mgl32.Vec3(cfg.Stage.CharacterStart),
		CharacterProjects:    mgl32.Vec3(cfg.Stage.CharacterProjects),
		CharacterProjectsYaw: mgl32.DegToRad(cfg.Stage.CharacterProjectsYaw),
		RoomOffstage:         mgl32.Vec3(cfg.Stage.RoomOffstage),
		RoomYaw:              mgl32.DegToRad(cfg.Stage.RoomYaw),
		IconHiddenY:          cfg.Stage.IconHiddenY,

		NeckBone:     cfg.Stage.NeckBone,
		WaistBone:    cfg.Stage.WaistBone,
		FaceTracking: cfg.Stage.FaceTracking,
		MaxNeckYaw:   cfg.Stage.MaxNeckYaw,
		MaxNeckPitch: cfg.Stage.MaxNeckPitch,

		PositionThreshold: cfg.Projector.PositionThreshold,
		AngleThreshold:    cfg.Projector.AngleThreshold,

		MaxFramesBetweenRenders: cfg.Loop.MaxFramesBetweenRenders,
	}

	for _, ic := range cfg.Animation.Icons {
		t.Icons = append(t.Icons, Icon{Node: ic.Node, Clip: ic.Clip})
	}
	for _, o := range cfg.Projector.Overlays {
		z, err := zone.Parse(o.Zone)
		if err != nil {
			return Tuning{}, fmt.Errorf("overlay %s: %w", o.Name, err)
		}
		t.Overlays = append(t.Overlays, Overlay{
			Name:     o.Name,
			Surface:  o.Surface,
			Width:    o.Width,
			Height:   o.Height,
			Axis:     mgl32.Vec3(o.OffsetAxis),
			Degrees:  o.OffsetDegrees,
			MirrorX:  o.MirrorX,
			Zone:     z,
			FocusKey: o.FocusKey,
			Color:    o.Color,
		})
	}
	return t, nil
}

// easer builds the camera easing the tuning selects.
func (t Tuning) easer() (camera.Easer, error) {
	return camera.NewEaser(t.Easing, t.Damping, t.FPS, t.SpringFrequency, t.SpringDamping)
}
