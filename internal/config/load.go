package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// LoadWithPath loads configuration with priority: defaults < file < flags,
// and reports which file was used ("" when none).
func LoadWithPath() (*Config, string, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, "", fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config: %w", err)
	}

	return cfg, configPath, nil
}

// Validate rejects values the frame loop cannot work with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Camera.Damping <= 0 || c.Camera.Damping > 1 {
		return fmt.Errorf("camera.damping must be in (0, 1], got %v", c.Camera.Damping)
	}
	if c.Stage.Ease <= 0 || c.Stage.Ease > 1 {
		return fmt.Errorf("stage.ease must be in (0, 1], got %v", c.Stage.Ease)
	}
	switch c.Camera.Easing {
	case "damp", "spring":
	default:
		return fmt.Errorf("camera.easing must be damp or spring, got %q", c.Camera.Easing)
	}
	if c.Loop.FPSLimit < 0 {
		return fmt.Errorf("loop.fps_limit must not be negative, got %d", c.Loop.FPSLimit)
	}
	if c.Loop.MaxFramesBetweenRenders < 1 {
		return fmt.Errorf("loop.max_frames_between_renders must be at least 1, got %d", c.Loop.MaxFramesBetweenRenders)
	}
	if c.Page.Margin < 0 {
		return fmt.Errorf("page.margin must not be negative, got %v", c.Page.Margin)
	}
	for _, s := range c.Page.Sections {
		if s.Height < 0 {
			return fmt.Errorf("page section %q has negative height", s.Name)
		}
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "folio3d")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "folio3d")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "folio3d")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "folio3d")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
