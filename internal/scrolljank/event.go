package scrolljank

import (
	"fmt"
	"time"
)

// V4Result is the per-frame verdict of the V4 detector. It is attached to
// the earliest input event coalesced into the frame.
type V4Result struct {
	AbsTotalRawDeltaPixels       float32
	MaxAbsInertialRawDeltaPixels float32

	// VsyncsSincePreviousFrame and RunningDeliveryCutoff are only set when
	// the scroll already had a presented frame; VsyncsSincePreviousFrame is
	// zero otherwise.
	VsyncsSincePreviousFrame int
	RunningDeliveryCutoff    time.Duration

	// AdjustedDeliveryCutoff is only set when at least one vsync was
	// skipped since the previous frame.
	AdjustedDeliveryCutoff time.Duration

	CurrentDeliveryCutoff time.Duration
	MissedVsyncsPerReason JankReasonArray
}

// HasPreviousFrame reports whether the frame was compared with an earlier
// frame of the same scroll.
func (r *V4Result) HasPreviousFrame() bool { return r.VsyncsSincePreviousFrame > 0 }

// IsJanky reports whether any reason attributed a missed vsync to the frame.
func (r *V4Result) IsJanky() bool { return r.MissedVsyncsPerReason.Any() }

// MissedVsyncs returns how many vsyncs the frame missed. A single cause
// explains the whole delay, so this is the maximum across reasons.
func (r *V4Result) MissedVsyncs() int { return r.MissedVsyncsPerReason.Max() }

// ScrollUpdateEvent is the tracker's view of one scroll update input. The
// tracker reads its generation timestamp and writes the jank verdicts back
// onto it; each verdict may be written only once.
type ScrollUpdateEvent struct {
	generationTs TimeTicks

	janky    bool
	jankySet bool

	v4 *V4Result
}

// NewScrollUpdateEvent returns an event generated at ts.
func NewScrollUpdateEvent(ts TimeTicks) *ScrollUpdateEvent {
	return &ScrollUpdateEvent{generationTs: ts}
}

// GenerationTimestamp returns when the input was generated.
func (e *ScrollUpdateEvent) GenerationTimestamp() TimeTicks { return e.generationTs }

// SetJankyScrolledFrame records the V1 verdict. It panics if a verdict was
// already recorded.
func (e *ScrollUpdateEvent) SetJankyScrolledFrame(janky bool) {
	if e.jankySet {
		panic(fmt.Sprintf("scrolljank: janky flag already set on event generated at %v", e.generationTs))
	}
	e.janky = janky
	e.jankySet = true
}

// JankyScrolledFrame returns the V1 verdict and whether one was recorded.
func (e *ScrollUpdateEvent) JankyScrolledFrame() (janky, ok bool) {
	return e.janky, e.jankySet
}

// SetScrollJankV4 attaches the V4 verdict. It panics if one is already
// attached.
func (e *ScrollUpdateEvent) SetScrollJankV4(result V4Result) {
	if e.v4 != nil {
		panic(fmt.Sprintf("scrolljank: v4 result already set on event generated at %v", e.generationTs))
	}
	e.v4 = &result
}

// ScrollJankV4 returns the attached V4 verdict, or nil.
func (e *ScrollUpdateEvent) ScrollJankV4() *V4Result { return e.v4 }
