package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 800 {
		t.Errorf("expected height 800, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	if cfg.Loop.FPSLimit != 60 {
		t.Errorf("expected fps limit 60, got %d", cfg.Loop.FPSLimit)
	}
	if cfg.Loop.MaxFramesBetweenRenders != 3 {
		t.Errorf("expected 3 frames between forced renders, got %d", cfg.Loop.MaxFramesBetweenRenders)
	}
	if cfg.Loop.MaxDelta != 250*time.Millisecond {
		t.Errorf("expected max delta 250ms, got %v", cfg.Loop.MaxDelta)
	}

	if cfg.Camera.Damping != 0.08 {
		t.Errorf("expected damping 0.08, got %v", cfg.Camera.Damping)
	}
	if cfg.Camera.Easing != "damp" {
		t.Errorf("expected damp easing, got %s", cfg.Camera.Easing)
	}
	if cfg.Camera.Home.Rotation[1] != -17 {
		t.Errorf("expected home yaw -17, got %v", cfg.Camera.Home.Rotation[1])
	}

	if cfg.Page.Margin != 100 {
		t.Errorf("expected margin 100, got %v", cfg.Page.Margin)
	}
	if len(cfg.Page.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(cfg.Page.Sections))
	}

	if len(cfg.Animation.Icons) != 6 {
		t.Errorf("expected 6 icon bindings, got %d", len(cfg.Animation.Icons))
	}
	if len(cfg.Projector.Overlays) != 3 {
		t.Errorf("expected 3 overlays, got %d", len(cfg.Projector.Overlays))
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true

loop:
  fps_limit: 144
  max_delta: 100ms

page:
  margin: 50
  sections:
    - name: home
    - name: about
      height: 1200

camera:
  damping: 0.12
  easing: spring
  about:
    position: [0, 2, 3]
    rotation: [10, 0, 0]

logging:
  level: "debug"
  log_file: "folio.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Loop.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.Loop.FPSLimit)
	}
	if cfg.Loop.MaxDelta != 100*time.Millisecond {
		t.Errorf("expected max delta 100ms, got %v", cfg.Loop.MaxDelta)
	}
	if cfg.Page.Margin != 50 {
		t.Errorf("expected margin 50, got %v", cfg.Page.Margin)
	}
	if len(cfg.Page.Sections) != 2 || cfg.Page.Sections[1].Height != 1200 {
		t.Errorf("expected sections to be replaced, got %+v", cfg.Page.Sections)
	}
	if cfg.Camera.Damping != 0.12 {
		t.Errorf("expected damping 0.12, got %v", cfg.Camera.Damping)
	}
	if cfg.Camera.About.Position != [3]float32{0, 2, 3} {
		t.Errorf("unexpected about position %v", cfg.Camera.About.Position)
	}
	// Untouched values keep their defaults.
	if cfg.Camera.Home.Rotation[1] != -17 {
		t.Errorf("expected home yaw to stay -17, got %v", cfg.Camera.Home.Rotation[1])
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "folio.log" {
		t.Errorf("expected log file 'folio.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"zero damping", func(c *Config) { c.Camera.Damping = 0 }},
		{"damping above one", func(c *Config) { c.Camera.Damping = 1.5 }},
		{"zero stage ease", func(c *Config) { c.Stage.Ease = 0 }},
		{"unknown easing", func(c *Config) { c.Camera.Easing = "bounce" }},
		{"negative fps", func(c *Config) { c.Loop.FPSLimit = -5 }},
		{"no forced renders", func(c *Config) { c.Loop.MaxFramesBetweenRenders = 0 }},
		{"negative margin", func(c *Config) { c.Page.Margin = -1 }},
		{"negative section", func(c *Config) { c.Page.Sections[1].Height = -10 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "fps zero disables limit",
			setup: func() { *flagFPS = 0 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Loop.FPSLimit != 0 {
					t.Errorf("expected fps limit 0, got %d", cfg.Loop.FPSLimit)
				}
			},
			teardown: func() { *flagFPS = -1 },
		},
		{
			name:  "watch flag",
			setup: func() { *flagWatch = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Loop.WatchConfig {
					t.Error("expected watch_config to be enabled")
				}
			},
			teardown: func() { *flagWatch = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, used, err := LoadWithPath()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if used != configPath {
		t.Errorf("expected config path %s, got %s", configPath, used)
	}

	// Width comes from the flag, height from the file.
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("camera:\n  damping: 2\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, _, err := LoadWithPath(); err == nil {
		t.Error("expected damping above 1 to be rejected")
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Camera.Damping = 0.2
	written, err := cfg.Save(path)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if written != path {
		t.Errorf("expected %s, got %s", path, written)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Camera.Damping != 0.2 {
		t.Errorf("expected damping 0.2 after round trip, got %v", loaded.Camera.Damping)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the config file, found %d entries", len(entries))
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Camera.Damping = 2
	if _, err := cfg.Save(path); err == nil {
		t.Error("expected invalid config to be rejected")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no file to be written, got %v", err)
	}
}

func TestSaveDefaultLocation(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("APPDATA", dir)

	written, err := Default().Save("")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if written != filepath.Join(ConfigDir(), "config.yaml") {
		t.Errorf("expected config dir, got %s", written)
	}
}
