package scrolljank

import (
	"fmt"

	"github.com/banshee-data/jank.report/internal/config"
)

// TrackerConfig holds the tunables of a Tracker. They are read once, at
// construction.
type TrackerConfig struct {
	// V4Enabled gates the V4 detector. When false V4 keeps no state and
	// emits nothing.
	V4Enabled bool
	// EmitV1AtEndOfScroll and EmitV4AtEndOfScroll choose whether per-scroll
	// metrics are emitted by OnScrollEnded or deferred to the next
	// OnScrollStarted (or Close).
	EmitV1AtEndOfScroll bool
	EmitV4AtEndOfScroll bool

	DiscountFactor                float64
	StabilityCorrection           float64
	FastScrollContinuityThreshold float64 // pixels
	FlingContinuityThreshold      float64 // pixels
}

// DefaultTrackerConfig returns a TrackerConfig populated from the canonical
// tuning defaults file (config/tuning.defaults.json).
func DefaultTrackerConfig() TrackerConfig {
	cfg := config.MustLoadDefaultConfig()
	return TrackerConfigFromTuning(cfg)
}

// TrackerConfigFromTuning builds a TrackerConfig from a loaded TuningConfig.
// Use this in production code where the TuningConfig is already loaded.
func TrackerConfigFromTuning(cfg *config.TuningConfig) TrackerConfig {
	return TrackerConfig{
		V4Enabled:                     cfg.GetScrollJankV4Enabled(),
		EmitV1AtEndOfScroll:           cfg.GetEmitV1AtEndOfScroll(),
		EmitV4AtEndOfScroll:           cfg.GetEmitV4AtEndOfScroll(),
		DiscountFactor:                cfg.GetV4DiscountFactor(),
		StabilityCorrection:           cfg.GetV4StabilityCorrection(),
		FastScrollContinuityThreshold: cfg.GetV4FastScrollThreshold(),
		FlingContinuityThreshold:      cfg.GetV4FlingThreshold(),
	}
}

// Validate reports tunables the V4 arithmetic cannot work with.
func (c TrackerConfig) Validate() error {
	if c.DiscountFactor < 0 || c.DiscountFactor >= 1 {
		return fmt.Errorf("discount factor must be in [0, 1), got %f", c.DiscountFactor)
	}
	if c.StabilityCorrection < 0 {
		return fmt.Errorf("stability correction must be non-negative, got %f", c.StabilityCorrection)
	}
	if c.FastScrollContinuityThreshold < 0 || c.FlingContinuityThreshold < 0 {
		return fmt.Errorf("continuity thresholds must be non-negative, got %f/%f",
			c.FastScrollContinuityThreshold, c.FlingContinuityThreshold)
	}
	return nil
}
