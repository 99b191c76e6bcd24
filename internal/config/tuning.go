package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for the scroll jank
// tracker. Every field is optional; the Get* methods supply defaults for
// anything the JSON leaves out.
type TuningConfig struct {
	// Feature toggles
	ScrollJankV4Enabled *bool `json:"scroll_jank_v4_enabled,omitempty"`
	EmitV1AtEndOfScroll *bool `json:"emit_v1_at_end_of_scroll,omitempty"`
	EmitV4AtEndOfScroll *bool `json:"emit_v4_at_end_of_scroll,omitempty"`

	// V4 running consistency params
	V4DiscountFactor      *float64 `json:"v4_discount_factor,omitempty"`
	V4StabilityCorrection *float64 `json:"v4_stability_correction,omitempty"`
	V4FastScrollThreshold *float64 `json:"v4_fast_scroll_continuity_threshold,omitempty"`
	V4FlingThreshold      *float64 `json:"v4_fling_continuity_threshold,omitempty"`
	DefaultVsyncInterval  *string  `json:"default_vsync_interval,omitempty"` // duration string like "16.667ms"
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := ParseTuningConfig(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseTuningConfig decodes and validates a JSON tuning document.
func ParseTuningConfig(data []byte) (*TuningConfig, error) {
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,       // from cmd/
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	// The decelerating rule divides by (1 - discount).
	if c.V4DiscountFactor != nil {
		if *c.V4DiscountFactor < 0 || *c.V4DiscountFactor >= 1 {
			return fmt.Errorf("v4_discount_factor must be in [0, 1), got %f", *c.V4DiscountFactor)
		}
	}

	if c.V4StabilityCorrection != nil && *c.V4StabilityCorrection < 0 {
		return fmt.Errorf("v4_stability_correction must be non-negative, got %f", *c.V4StabilityCorrection)
	}

	if c.V4FastScrollThreshold != nil && *c.V4FastScrollThreshold < 0 {
		return fmt.Errorf("v4_fast_scroll_continuity_threshold must be non-negative, got %f", *c.V4FastScrollThreshold)
	}

	if c.V4FlingThreshold != nil && *c.V4FlingThreshold < 0 {
		return fmt.Errorf("v4_fling_continuity_threshold must be non-negative, got %f", *c.V4FlingThreshold)
	}

	if c.DefaultVsyncInterval != nil && *c.DefaultVsyncInterval != "" {
		d, err := time.ParseDuration(*c.DefaultVsyncInterval)
		if err != nil {
			return fmt.Errorf("invalid default_vsync_interval '%s': %w", *c.DefaultVsyncInterval, err)
		}
		if d <= 0 {
			return fmt.Errorf("default_vsync_interval must be positive, got %s", d)
		}
	}

	return nil
}

// GetScrollJankV4Enabled returns the scroll_jank_v4_enabled value or the default.
func (c *TuningConfig) GetScrollJankV4Enabled() bool {
	if c.ScrollJankV4Enabled == nil {
		return true // default
	}
	return *c.ScrollJankV4Enabled
}

// GetEmitV1AtEndOfScroll returns the emit_v1_at_end_of_scroll value or the default.
func (c *TuningConfig) GetEmitV1AtEndOfScroll() bool {
	if c.EmitV1AtEndOfScroll == nil {
		return true
	}
	return *c.EmitV1AtEndOfScroll
}

// GetEmitV4AtEndOfScroll returns the emit_v4_at_end_of_scroll value or the default.
func (c *TuningConfig) GetEmitV4AtEndOfScroll() bool {
	if c.EmitV4AtEndOfScroll == nil {
		return true
	}
	return *c.EmitV4AtEndOfScroll
}

// GetV4DiscountFactor returns the v4_discount_factor value or the default.
func (c *TuningConfig) GetV4DiscountFactor() float64 {
	if c.V4DiscountFactor == nil {
		return 0.01
	}
	return *c.V4DiscountFactor
}

// GetV4StabilityCorrection returns the v4_stability_correction value or the default.
func (c *TuningConfig) GetV4StabilityCorrection() float64 {
	if c.V4StabilityCorrection == nil {
		return 0.05
	}
	return *c.V4StabilityCorrection
}

// GetV4FastScrollThreshold returns the v4_fast_scroll_continuity_threshold value or the default.
func (c *TuningConfig) GetV4FastScrollThreshold() float64 {
	if c.V4FastScrollThreshold == nil {
		return 3.0 // pixels
	}
	return *c.V4FastScrollThreshold
}

// GetV4FlingThreshold returns the v4_fling_continuity_threshold value or the default.
func (c *TuningConfig) GetV4FlingThreshold() float64 {
	if c.V4FlingThreshold == nil {
		return 0.2 // pixels
	}
	return *c.V4FlingThreshold
}

// GetDefaultVsyncInterval parses and returns the DefaultVsyncInterval as a time.Duration.
func (c *TuningConfig) GetDefaultVsyncInterval() time.Duration {
	const fallback = 16667 * time.Microsecond
	if c.DefaultVsyncInterval == nil || *c.DefaultVsyncInterval == "" {
		return fallback
	}
	d, err := time.ParseDuration(*c.DefaultVsyncInterval)
	if err != nil || d <= 0 {
		return fallback // default on parse error
	}
	return d
}
