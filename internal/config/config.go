// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Loop      LoopConfig      `yaml:"loop"`
	Assets    AssetsConfig    `yaml:"assets"`
	Page      PageConfig      `yaml:"page"`
	Camera    CameraConfig    `yaml:"camera"`
	Animation AnimationConfig `yaml:"animation"`
	Stage     StageConfig     `yaml:"stage"`
	Projector ProjectorConfig `yaml:"projector"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// LoopConfig holds frame loop settings.
type LoopConfig struct {
	FPSLimit                int           `yaml:"fps_limit"`                   // 0 disables rate limiting
	MaxFramesBetweenRenders int           `yaml:"max_frames_between_renders"` // forced redraw interval per layer
	MaxDelta                time.Duration `yaml:"max_delta"`                   // clamp for frame delta after stalls
	WatchConfig             bool          `yaml:"watch_config"`                // reload tuning values when the file changes
}

// AssetsConfig holds model paths.
type AssetsConfig struct {
	Character   string `yaml:"character"`
	Apps        string `yaml:"apps"`
	Room        string `yaml:"room"`
	DecoderPath string `yaml:"decoder_path"` // location of the mesh decompression decoder
}

// SectionConfig describes one vertical section of the page.
// A zero height means one viewport height.
type SectionConfig struct {
	Name   string  `yaml:"name"`
	Height float64 `yaml:"height"`
}

// PageConfig holds the simulated page layout.
type PageConfig struct {
	Sections   []SectionConfig `yaml:"sections"`
	Margin     float64         `yaml:"margin"`      // subtracted from section offsets to get zone thresholds
	ScrollStep float64         `yaml:"scroll_step"` // pixels per wheel notch
}

// PoseConfig is a camera or model pose; rotation is in degrees.
type PoseConfig struct {
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation"`
}

// CameraConfig holds camera and director settings.
type CameraConfig struct {
	FOV             float32    `yaml:"fov"`
	Near            float32    `yaml:"near"`
	Far             float32    `yaml:"far"`
	Damping         float32    `yaml:"damping"`
	Easing          string     `yaml:"easing"` // "damp" or "spring"
	SpringFrequency float64    `yaml:"spring_frequency"`
	SpringDamping   float64    `yaml:"spring_damping"`
	Start           PoseConfig `yaml:"start"`
	Home            PoseConfig `yaml:"home"`
	About           PoseConfig `yaml:"about"`
	Projects        PoseConfig `yaml:"projects"`
	FocusOffset     [3]float32 `yaml:"focus_offset"`
	FaceOffset      [3]float32 `yaml:"face_offset"`
}

// IconConfig binds an app icon node to its clip.
type IconConfig struct {
	Node string `yaml:"node"` // substring match on node names
	Clip string `yaml:"clip"`
}

// AnimationConfig holds clip names and fade timings.
type AnimationConfig struct {
	FadeSeconds     float32      `yaml:"fade_seconds"`
	HoldUntilLoaded bool         `yaml:"hold_until_loaded"`
	Intro           string       `yaml:"intro"`
	Idle            string       `yaml:"idle"`
	Smile           string       `yaml:"smile"`
	Typing          string       `yaml:"typing"`
	Icons           []IconConfig `yaml:"icons"`
}

// StageConfig holds model placement per zone.
type StageConfig struct {
	Ease                 float32    `yaml:"ease"`
	CharacterStart       [3]float32 `yaml:"character_start"`
	CharacterProjects    [3]float32 `yaml:"character_projects"`
	CharacterProjectsYaw float32    `yaml:"character_projects_yaw"` // degrees
	RoomOffstage         [3]float32 `yaml:"room_offstage"`
	RoomYaw              float32    `yaml:"room_yaw"` // degrees
	IconHiddenY          float32    `yaml:"icon_hidden_y"`
	NeckBone             string     `yaml:"neck_bone"`
	WaistBone            string     `yaml:"waist_bone"`
	FaceTracking         bool       `yaml:"face_tracking"`
	MaxNeckYaw           float32    `yaml:"max_neck_yaw"`   // degrees
	MaxNeckPitch         float32    `yaml:"max_neck_pitch"` // degrees
}

// OverlayConfig binds a panel to a screen mesh.
type OverlayConfig struct {
	Name          string     `yaml:"name"`
	Surface       string     `yaml:"surface"`
	Width         int        `yaml:"width"`
	Height        int        `yaml:"height"`
	OffsetAxis    [3]float32 `yaml:"offset_axis"`
	OffsetDegrees float32    `yaml:"offset_degrees"`
	MirrorX       float32    `yaml:"mirror_x"`
	Zone          string     `yaml:"zone"`
	FocusKey      int        `yaml:"focus_key"` // 0 = never focused
	Color         [4]float32 `yaml:"color"`
}

// ProjectorConfig holds screen projector settings.
type ProjectorConfig struct {
	PositionThreshold float32         `yaml:"position_threshold"`
	AngleThreshold    float32         `yaml:"angle_threshold"` // radians
	Overlays          []OverlayConfig `yaml:"overlays"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "folio3d",
			Width:  1280,
			Height: 800,
			VSync:  true,
		},
		Loop: LoopConfig{
			FPSLimit:                60,
			MaxFramesBetweenRenders: 3,
			MaxDelta:                250 * time.Millisecond,
			WatchConfig:             false,
		},
		Assets: AssetsConfig{
			Character:   "assets/nahomeRig.glb",
			Apps:        "assets/apps.glb",
			Room:        "assets/bedRoom.glb",
			DecoderPath: "https://www.gstatic.com/draco/v1/decoders/",
		},
		Page: PageConfig{
			Sections: []SectionConfig{
				{Name: "home", Height: 0},
				{Name: "about", Height: 2500},
				{Name: "projects", Height: 1600},
			},
			Margin:     100,
			ScrollStep: 120,
		},
		Camera: CameraConfig{
			FOV:             50,
			Near:            0.1,
			Far:             2000,
			Damping:         0.08,
			Easing:          "damp",
			SpringFrequency: 6,
			SpringDamping:   1,
			Home:            PoseConfig{Position: [3]float32{-1.6, 1.38, 2.82}, Rotation: [3]float32{0, -17, 0}},
			About:           PoseConfig{Position: [3]float32{0, 1.56, 1.46}},
			Projects:        PoseConfig{Position: [3]float32{2.98, 1.08, 1.46}, Rotation: [3]float32{0, 52.6, 0}},
			FocusOffset:     [3]float32{0, 0, 0.75},
			FaceOffset:      [3]float32{0, 1, 1.2},
		},
		Animation: AnimationConfig{
			FadeSeconds:     0.3,
			HoldUntilLoaded: true,
			Intro:           "runToJump",
			Idle:            "idle",
			Smile:           "smile",
			Typing:          "typing",
			Icons: []IconConfig{
				{Node: "blender", Clip: "blenderAction"},
				{Node: "figma", Clip: "figmaAction"},
				{Node: "illustrator", Clip: "illustratorAction"},
				{Node: "javascript", Clip: "javaAction"},
				{Node: "photoshop", Clip: "photoshopAction"},
				{Node: "react", Clip: "reactAction"},
			},
		},
		Stage: StageConfig{
			Ease:                 0.08,
			CharacterStart:       [3]float32{0, -2, -8},
			CharacterProjects:    [3]float32{0, 0, -0.98},
			CharacterProjectsYaw: -180,
			RoomOffstage:         [3]float32{-10, 0, 0},
			RoomYaw:              180,
			IconHiddenY:          100,
			NeckBone:             "mixamorigNeck",
			WaistBone:            "mixamorigSpine",
			FaceTracking:         true,
			MaxNeckYaw:           40,
			MaxNeckPitch:         25,
		},
		Projector: ProjectorConfig{
			PositionThreshold: 0.01,
			AngleThreshold:    0.01,
			Overlays: []OverlayConfig{
				{Name: "video", Surface: "leftScreen", Width: 1440, Height: 1024,
					OffsetAxis: [3]float32{0, 1, 0}, OffsetDegrees: 180, MirrorX: 1,
					Zone: "projects", Color: [4]float32{0.05, 0.05, 0.05, 0.9}},
				{Name: "projects", Surface: "middleScreen", Width: 1440, Height: 1024,
					OffsetAxis: [3]float32{1, 0, 0}, OffsetDegrees: 5, MirrorX: -1,
					Zone: "projects", FocusKey: 1, Color: [4]float32{0.95, 0.45, 0.1, 0.85}},
				{Name: "gallery", Surface: "rightScreen", Width: 1440, Height: 1024,
					OffsetAxis: [3]float32{0, 1, 0}, MirrorX: -1.1,
					Zone: "projects", FocusKey: 2, Color: [4]float32{0.9, 0.9, 0.85, 0.85}},
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
