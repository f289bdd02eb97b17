// Package config loads and validates the application configuration from a
// YAML file.
package config

import (
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/roomi-fields/obsidian-image-autocrop/internal/imaging"
)

// TransparentColor is the background_color value that requests a fully
// transparent fill instead of a solid color.
const TransparentColor = "transparent"

// Config represents the application configuration.
type Config struct {
	// WatchedFolder is the vault folder monitored for new images.
	WatchedFolder string `yaml:"watched_folder"`

	// Enabled turns automatic processing on or off.
	Enabled bool `yaml:"enabled"`

	// TargetSize is the output side length in pixels, 1-2000.
	TargetSize int `yaml:"target_size"`

	// TrimThreshold is the alpha value separating background from content,
	// 0-255. Values above 50 rarely make sense in practice.
	TrimThreshold int `yaml:"trim_threshold"`

	// BackgroundTolerance is the per-channel color distance still matched
	// as background, 5-100.
	BackgroundTolerance int `yaml:"background_tolerance"`

	// BackgroundColor is "transparent" or a "#RRGGBB" hex color used to
	// fill padded areas.
	BackgroundColor string `yaml:"background_color"`

	// FitMode is "pad-square" or "contain".
	FitMode string `yaml:"fit_mode"`

	// KeepBackup preserves pristine originals under _originals before the
	// first processing of each image.
	KeepBackup bool `yaml:"keep_backup"`

	// StartupGraceSeconds drops watch events for this many seconds after
	// startup.
	StartupGraceSeconds int `yaml:"startup_grace_seconds"`

	// DebounceMs collapses rapid successive events per file.
	DebounceMs int `yaml:"debounce_ms"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Enabled:             true,
		TargetSize:          512,
		TrimThreshold:       10,
		BackgroundTolerance: 30,
		BackgroundColor:     TransparentColor,
		FitMode:             "pad-square",
		KeepBackup:          true,
		StartupGraceSeconds: 3,
		DebounceMs:          500,
	}
}

// Load reads and validates a config file, applying defaults for absent
// fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its documented range.
func (c *Config) Validate() error {
	if c.TargetSize < 1 || c.TargetSize > 2000 {
		return fmt.Errorf("target_size %d out of range 1-2000", c.TargetSize)
	}
	if c.TrimThreshold < 0 || c.TrimThreshold > 255 {
		return fmt.Errorf("trim_threshold %d out of range 0-255", c.TrimThreshold)
	}
	if c.BackgroundTolerance < 5 || c.BackgroundTolerance > 100 {
		return fmt.Errorf("background_tolerance %d out of range 5-100", c.BackgroundTolerance)
	}
	if _, err := c.fill(); err != nil {
		return err
	}
	if _, err := c.fitMode(); err != nil {
		return err
	}
	if c.StartupGraceSeconds < 0 {
		return fmt.Errorf("startup_grace_seconds %d must not be negative", c.StartupGraceSeconds)
	}
	if c.DebounceMs < 0 {
		return fmt.Errorf("debounce_ms %d must not be negative", c.DebounceMs)
	}
	return nil
}

// ProcessConfig converts the validated config into the pipeline's processing
// parameters.
func (c *Config) ProcessConfig() (imaging.ProcessConfig, error) {
	fill, err := c.fill()
	if err != nil {
		return imaging.ProcessConfig{}, err
	}
	mode, err := c.fitMode()
	if err != nil {
		return imaging.ProcessConfig{}, err
	}
	return imaging.ProcessConfig{
		TargetSize:          c.TargetSize,
		TrimThreshold:       uint8(c.TrimThreshold),
		BackgroundTolerance: uint8(c.BackgroundTolerance),
		Fill:                fill,
		FitMode:             mode,
	}, nil
}

// StartupGrace returns the startup gate window as a duration.
func (c *Config) StartupGrace() time.Duration {
	return time.Duration(c.StartupGraceSeconds) * time.Second
}

// Debounce returns the per-file debounce window as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// fill parses background_color into the canvas fill color. "transparent"
// maps to the zero NRGBA value (alpha 0).
func (c *Config) fill() (color.NRGBA, error) {
	s := strings.TrimSpace(strings.ToLower(c.BackgroundColor))
	if s == "" || s == TransparentColor {
		return color.NRGBA{}, nil
	}
	parsed, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("background_color %q: %w", c.BackgroundColor, err)
	}
	r, g, b := parsed.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// fitMode parses fit_mode.
func (c *Config) fitMode() (imaging.FitMode, error) {
	switch c.FitMode {
	case "", "pad-square":
		return imaging.FitPadSquare, nil
	case "contain":
		return imaging.FitContain, nil
	default:
		return 0, fmt.Errorf("fit_mode %q must be %q or %q", c.FitMode, "pad-square", "contain")
	}
}
