// Package config loads the desktop host configuration from YAML with
// environment overrides for the settings most often changed per run.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment overrides.
const (
	EnvConfig   = "POLYCUBE_CONFIG"
	EnvCatalog  = "POLYCUBE_CATALOG"
	EnvLogLevel = "POLYCUBE_LOG_LEVEL"
)

// Config is the root configuration document.
type Config struct {
	Interaction InteractionConfig `yaml:"interaction"`
	Animation   AnimationConfig   `yaml:"animation"`
	Mesh        MeshConfig        `yaml:"mesh"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Log         LogConfig         `yaml:"log"`
	Window      WindowConfig      `yaml:"window"`
}

type InteractionConfig struct {
	DragThresholdPx float64 `yaml:"drag_threshold_px"`
	GizmoRadius     float64 `yaml:"gizmo_radius"`
	GizmoTolerance  float64 `yaml:"gizmo_tolerance"`
}

type AnimationConfig struct {
	DurationMs int `yaml:"duration_ms"`
}

// Duration returns the animation length.
func (a AnimationConfig) Duration() time.Duration {
	return time.Duration(a.DurationMs) * time.Millisecond
}

type MeshConfig struct {
	CellsPerUnit int `yaml:"cells_per_unit"`
}

type CatalogConfig struct {
	// Path to a Lisp catalog file. Empty selects the built-in catalog.
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Interaction: InteractionConfig{
			DragThresholdPx: 3,
			GizmoRadius:     1.6,
			GizmoTolerance:  0.25,
		},
		Animation: AnimationConfig{DurationMs: 200},
		Mesh:      MeshConfig{CellsPerUnit: 8},
		Log:       LogConfig{Level: "info"},
		Window: WindowConfig{
			Title:  "Polycube",
			Width:  1280,
			Height: 800,
		},
	}
}

// FromEnv loads the file named by POLYCUBE_CONFIG, or the defaults when it
// is unset.
func FromEnv() (Config, error) {
	return Load(os.Getenv(EnvConfig))
}

// Load reads path over the defaults. An empty path returns the defaults.
// Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvCatalog); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Interaction.DragThresholdPx <= 0 {
		errs = append(errs, fmt.Errorf("interaction.drag_threshold_px must be positive, got %v", c.Interaction.DragThresholdPx))
	}
	if c.Interaction.GizmoRadius <= 0 {
		errs = append(errs, fmt.Errorf("interaction.gizmo_radius must be positive, got %v", c.Interaction.GizmoRadius))
	}
	if c.Interaction.GizmoTolerance <= 0 {
		errs = append(errs, fmt.Errorf("interaction.gizmo_tolerance must be positive, got %v", c.Interaction.GizmoTolerance))
	}
	if c.Animation.DurationMs <= 0 {
		errs = append(errs, fmt.Errorf("animation.duration_ms must be positive, got %d", c.Animation.DurationMs))
	}
	if c.Mesh.CellsPerUnit <= 0 {
		errs = append(errs, fmt.Errorf("mesh.cells_per_unit must be positive, got %d", c.Mesh.CellsPerUnit))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
