package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

var (
	// ErrInvalidWindow is returned when the render surface would have no area.
	ErrInvalidWindow = errors.New("window width and height must be positive")
	// ErrInvalidSettings is returned when an effect default is outside its panel range.
	ErrInvalidSettings = errors.New("effect settings out of range")
	// ErrInvalidScene is returned when the sphere field would be empty or degenerate.
	ErrInvalidScene = errors.New("invalid scene parameters")
)

// Config represents the main configuration
type Config struct {
	Window  WindowConfig `yaml:"window"`
	Camera  CameraConfig `yaml:"camera"`
	Scene   SceneConfig  `yaml:"scene"`
	Effects Settings     `yaml:"effects"`
	Glitch  GlitchConfig `yaml:"glitch"`
	Panel   PanelConfig  `yaml:"panel"`
	Log     LogConfig    `yaml:"log"`
}

// WindowConfig describes the render surface
type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	VSync     bool   `yaml:"vsync"`
	FrameRate int    `yaml:"framerate"`
}

// CameraConfig describes the perspective camera
type CameraConfig struct {
	FOV      float64 `yaml:"fov"`
	Near     float64 `yaml:"near"`
	Far      float64 `yaml:"far"`
	Distance float64 `yaml:"distance"`
}

// SceneConfig controls the sphere field and its animation
type SceneConfig struct {
	Count         int     `yaml:"count"`
	MaxRadius     float64 `yaml:"max_radius"`
	MaxScale      float64 `yaml:"max_scale"`
	Seed          int64   `yaml:"seed"` // 0 means random
	RotationStepX float64 `yaml:"rotation_step_x"`
	RotationStepY float64 `yaml:"rotation_step_y"`
	TimeStep      float64 `yaml:"time_step"`
}

// Settings holds the live-tunable effect parameters. The config file only
// provides their startup values.
type Settings struct {
	Scale   float64 `yaml:"scale"`
	Limit   float64 `yaml:"limit"`
	Amount  float64 `yaml:"amount"`
	Enabled bool    `yaml:"enabled"`
	Wild    bool    `yaml:"wild"`
}

// GlitchConfig contains glitch pass construction parameters
type GlitchConfig struct {
	DTSize int `yaml:"dt_size"`
}

// PanelConfig controls the tweak panel window
type PanelConfig struct {
	Enabled bool   `yaml:"enabled"`
	Title   string `yaml:"title"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Panel ranges shared by validation and the tweak panel.
const (
	ScaleMin, ScaleMax, ScaleStep    = 0.1, 10.0, 0.1
	LimitMin, LimitMax, LimitStep    = 0.1, 300.0, 0.1
	AmountMin, AmountMax, AmountStep = 0.0, 0.02, 0.001
)

// DefaultSettings returns the startup effect parameters
func DefaultSettings() Settings {
	return Settings{
		Scale:   3,
		Limit:   100,
		Amount:  0.0015,
		Enabled: false,
		Wild:    false,
	}
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:     1280,
			Height:    720,
			Title:     "spherefx",
			VSync:     true,
			FrameRate: 60,
		},
		Camera: CameraConfig{
			FOV:      70,
			Near:     1,
			Far:      1000,
			Distance: 400,
		},
		Scene: SceneConfig{
			Count:         100,
			MaxRadius:     400,
			MaxScale:      50,
			Seed:          0,
			RotationStepX: 0.005,
			RotationStepY: 0.01,
			TimeStep:      0.05,
		},
		Effects: DefaultSettings(),
		Glitch: GlitchConfig{
			DTSize: 2,
		},
		Panel: PanelConfig{
			Enabled: true,
			Title:   "spherefx settings",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads the configuration from a file. Fields missing from the file
// keep their defaults. When the file does not exist the defaults are returned
// together with a wrapped error; test it with errors.Is(err, os.ErrNotExist).
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("config file not found, using defaults: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return config, fmt.Errorf("error parsing config: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate checks the startup preconditions.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidWindow, c.Window.Width, c.Window.Height)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera clip planes must satisfy 0 < near < far: near=%v far=%v", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("camera fov must be in (0, 180): %v", c.Camera.FOV)
	}
	if err := c.Scene.Validate(); err != nil {
		return err
	}
	if c.Glitch.DTSize <= 0 {
		return fmt.Errorf("glitch dt_size must be positive: %d", c.Glitch.DTSize)
	}
	return c.Effects.Validate()
}

// Validate rejects an empty field and non-positive extents or time step.
func (s SceneConfig) Validate() error {
	switch {
	case s.Count <= 0:
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalidScene, s.Count)
	case s.MaxRadius <= 0:
		return fmt.Errorf("%w: max_radius must be positive, got %v", ErrInvalidScene, s.MaxRadius)
	case s.MaxScale <= 0:
		return fmt.Errorf("%w: max_scale must be positive, got %v", ErrInvalidScene, s.MaxScale)
	case s.TimeStep <= 0:
		return fmt.Errorf("%w: time_step must be positive, got %v", ErrInvalidScene, s.TimeStep)
	}
	return nil
}

// Validate reports whether every value lies inside its panel range.
func (s Settings) Validate() error {
	switch {
	case s.Scale < ScaleMin || s.Scale > ScaleMax:
		return fmt.Errorf("%w: scale %v not in [%v, %v]", ErrInvalidSettings, s.Scale, ScaleMin, ScaleMax)
	case s.Limit < LimitMin || s.Limit > LimitMax:
		return fmt.Errorf("%w: limit %v not in [%v, %v]", ErrInvalidSettings, s.Limit, LimitMin, LimitMax)
	case s.Amount < AmountMin || s.Amount > AmountMax:
		return fmt.Errorf("%w: amount %v not in [%v, %v]", ErrInvalidSettings, s.Amount, AmountMin, AmountMax)
	}
	return nil
}
