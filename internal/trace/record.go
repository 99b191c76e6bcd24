// Package trace reads recorded scroll frame traces and replays them through
// a scroll jank tracker.
//
// A trace is a JSON Lines file. Each line is one Record; blank lines and
// lines starting with '#' are ignored. Timestamps are microseconds from an
// arbitrary origin.
package trace

import (
	"fmt"
	"time"

	"github.com/banshee-data/jank.report/internal/scrolljank"
)

// RecordType identifies what a Record describes.
type RecordType string

const (
	RecordScrollBegin RecordType = "scroll_begin"
	RecordFrame       RecordType = "frame"
	RecordScrollEnd   RecordType = "scroll_end"
)

// Record is one line of a trace.
type Record struct {
	Type RecordType `json:"type"`

	// Frame fields. EarliestInputUs and LastInputUs default to
	// FirstInputUs; VsyncIntervalUs defaults to the replay's default vsync
	// interval.
	EarliestInputUs       *int64  `json:"earliest_input_us,omitempty"`
	FirstInputUs          *int64  `json:"first_input_us,omitempty"`
	LastInputUs           *int64  `json:"last_input_us,omitempty"`
	PresentationUs        *int64  `json:"presentation_us,omitempty"`
	VsyncIntervalUs       *int64  `json:"vsync_interval_us,omitempty"`
	Inertial              bool    `json:"inertial,omitempty"`
	AbsDeltaPx            float32 `json:"abs_delta_px,omitempty"`
	MaxAbsInertialDeltaPx float32 `json:"max_abs_inertial_delta_px,omitempty"`

	// Line is the 1-based line the record was read from, or 0.
	Line int `json:"-"`
}

// Validate checks r against what the tracker requires of its callers. Frames
// that the tracker would merely ignore, such as out-of-order presentations,
// are valid.
func (r Record) Validate() error {
	switch r.Type {
	case RecordScrollBegin, RecordScrollEnd:
		return nil
	case RecordFrame:
	default:
		return fmt.Errorf("unknown record type %q", r.Type)
	}

	if r.FirstInputUs == nil {
		return fmt.Errorf("frame is missing first_input_us")
	}
	if r.PresentationUs == nil {
		return fmt.Errorf("frame is missing presentation_us")
	}
	if r.EarliestInputUs != nil && *r.EarliestInputUs > *r.FirstInputUs {
		return fmt.Errorf("earliest_input_us %d is after first_input_us %d", *r.EarliestInputUs, *r.FirstInputUs)
	}
	if !r.Inertial && r.MaxAbsInertialDeltaPx != 0 {
		return fmt.Errorf("max_abs_inertial_delta_px %v set on a frame without inertial input", r.MaxAbsInertialDeltaPx)
	}
	if r.AbsDeltaPx < 0 || r.MaxAbsInertialDeltaPx < 0 {
		return fmt.Errorf("scroll deltas must be absolute values, got %v/%v", r.AbsDeltaPx, r.MaxAbsInertialDeltaPx)
	}
	if r.VsyncIntervalUs != nil && *r.VsyncIntervalUs <= 0 {
		return fmt.Errorf("vsync_interval_us must be positive, got %d", *r.VsyncIntervalUs)
	}
	return nil
}

// Frame converts a frame record into the tracker's input, creating fresh
// events for it. The earliest and latest events are the same unless the
// record names a separate earliest input.
func (r Record) Frame(defaultVsync time.Duration) scrolljank.PresentedFrame {
	first := scrolljank.TicksFromMicros(*r.FirstInputUs)
	latest := scrolljank.NewScrollUpdateEvent(first)
	earliest := latest
	if r.EarliestInputUs != nil && *r.EarliestInputUs != *r.FirstInputUs {
		earliest = scrolljank.NewScrollUpdateEvent(scrolljank.TicksFromMicros(*r.EarliestInputUs))
	}

	last := first
	if r.LastInputUs != nil {
		last = scrolljank.TicksFromMicros(*r.LastInputUs)
	}
	vsync := defaultVsync
	if r.VsyncIntervalUs != nil {
		vsync = time.Duration(*r.VsyncIntervalUs) * time.Microsecond
	}

	return scrolljank.PresentedFrame{
		EarliestEvent:                earliest,
		LatestEvent:                  latest,
		LastInputGenerationTs:        last,
		PresentationTs:               scrolljank.TicksFromMicros(*r.PresentationUs),
		VsyncInterval:                vsync,
		HasInertialInput:             r.Inertial,
		AbsTotalRawDeltaPixels:       r.AbsDeltaPx,
		MaxAbsInertialRawDeltaPixels: r.MaxAbsInertialDeltaPx,
	}
}
