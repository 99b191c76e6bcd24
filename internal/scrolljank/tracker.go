package scrolljank

import (
	"fmt"
	"time"

	"github.com/banshee-data/jank.report/internal/metrics"
)

// PresentedFrame is everything the tracker needs to know about one
// presented frame.
type PresentedFrame struct {
	// EarliestEvent is the earliest generated input coalesced into the
	// frame and receives the V4 result. LatestEvent is the most recently
	// generated one and receives the V1 verdict. They may be the same
	// event.
	EarliestEvent *ScrollUpdateEvent
	LatestEvent   *ScrollUpdateEvent

	LastInputGenerationTs TimeTicks
	PresentationTs        TimeTicks
	VsyncInterval         time.Duration

	HasInertialInput bool
	// AbsTotalRawDeltaPixels sums the absolute unpredicted deltas of every
	// input in the frame. MaxAbsInertialRawDeltaPixels is the largest
	// absolute delta of an inertial input, and must be 0 when
	// HasInertialInput is false.
	AbsTotalRawDeltaPixels       float32
	MaxAbsInertialRawDeltaPixels float32
}

// Tracker classifies presented scroll frames and aggregates the results
// into fixed windows and per-scroll totals. Use NewTracker to create one.
type Tracker struct {
	cfg      TrackerConfig
	sink     metrics.Sink
	reporter ScrollReporter

	window    windowV1
	perScroll *scrollV1 // nil between scrolls

	windowV4    windowV4
	perScrollV4 *scrollV4        // nil between scrolls
	prevFrameV4 *previousFrameV4 // nil until the scroll presents a frame

	// Shared by V1 and V4 and kept across scroll boundaries.
	prevPresentationTs        TimeTicks
	prevLastInputGenerationTs TimeTicks
}

// NewTracker returns a Tracker that publishes to sink. A nil sink discards
// all samples.
func NewTracker(cfg TrackerConfig, sink metrics.Sink) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		opsf("rejecting tracker config: %v", err)
		return nil, fmt.Errorf("invalid tracker config: %w", err)
	}
	if sink == nil {
		sink = metrics.Discard
	}
	t := &Tracker{cfg: cfg, sink: sink}
	// The first frame ever has nothing to be compared with and would always
	// count as smooth, so the first window skips it.
	t.window.NumPresentedFrames = -1
	t.windowV4.PresentedFrames = -1
	return t, nil
}

// Config returns the tunables the tracker was built with.
func (t *Tracker) Config() TrackerConfig { return t.cfg }

// SetScrollReporter installs r to receive the V1 outcome of every accepted
// frame. Pass nil to stop reporting.
func (t *Tracker) SetScrollReporter(r ScrollReporter) { t.reporter = r }

// ReportLatestPresentationData processes one presented frame and reports
// whether it was accepted. Frames with inconsistent timestamps, or that
// were presented no later than the previous accepted frame, are ignored
// without touching any state.
//
// It panics if either event is nil, if the earliest event was generated
// after the latest one, or if an inertial delta is reported for a frame
// without inertial input.
func (t *Tracker) ReportLatestPresentationData(f PresentedFrame) bool {
	if f.EarliestEvent == nil || f.LatestEvent == nil {
		panic("scrolljank: presented frame is missing its earliest or latest event")
	}
	firstInputTs := f.LatestEvent.GenerationTimestamp()
	firstInputV4Ts := f.EarliestEvent.GenerationTimestamp()
	if firstInputV4Ts > firstInputTs {
		panic(fmt.Sprintf("scrolljank: earliest event generated at %v after latest event at %v",
			firstInputV4Ts, firstInputTs))
	}
	if !f.HasInertialInput && f.MaxAbsInertialRawDeltaPixels != 0 {
		panic(fmt.Sprintf("scrolljank: inertial delta %v reported without inertial input",
			f.MaxAbsInertialRawDeltaPixels))
	}

	if f.LastInputGenerationTs < firstInputTs || f.PresentationTs <= f.LastInputGenerationTs {
		tracef("MalformedTimestamps first_input=%v last_input=%v presentation=%v",
			firstInputTs, f.LastInputGenerationTs, f.PresentationTs)
		return false
	}
	if f.PresentationTs <= t.prevPresentationTs {
		tracef("OutOfOrderTerminatedFrame presentation=%v previous=%v", f.PresentationTs, t.prevPresentationTs)
		return false
	}
	vsync := f.VsyncInterval.Truncate(time.Microsecond)
	if vsync <= 0 {
		tracef("NonPositiveVsyncInterval vsync_interval=%v", f.VsyncInterval)
		return false
	}

	// Normally created by OnScrollStarted, but the start of a scroll is
	// occasionally never observed.
	if t.perScroll == nil {
		t.perScroll = &scrollV1{}
	}

	// Presentation deltas jitter by up to a few ms, so a vsync only counts
	// as missed past half an interval.
	threshold := vsync + halfOf(vsync)
	presentationDelta := f.PresentationTs.Sub(t.prevPresentationTs)
	missedFrame := presentationDelta > threshold
	inputAvailable := firstInputTs.Sub(t.prevLastInputGenerationTs) < threshold

	totalVsyncs := vsyncsIn(presentationDelta, vsync)
	missedVsyncs := totalVsyncs - 1

	if missedFrame && inputAvailable {
		t.window.MissedFrames++
		t.perScroll.MissedFrames++
		t.recordVsyncCounts(MissedVsyncsPerFrameHistogram, missedVsyncs)
		t.window.MissedVsyncs += missedVsyncs
		t.perScroll.MissedVsyncs += missedVsyncs

		if t.reporter != nil {
			t.reporter.IncrementDelayedFrameCount()
			t.reporter.AddMissedVsyncs(missedVsyncs)
		}
		if missedVsyncs > t.perScroll.MaxMissedVsyncs {
			t.perScroll.MaxMissedVsyncs = missedVsyncs
			if t.reporter != nil {
				t.reporter.SetMaxMissedVsyncs(missedVsyncs)
			}
		}
		if missedVsyncs > t.window.MaxMissedVsyncs {
			t.window.MaxMissedVsyncs = missedVsyncs
		}

		tracef("MissedFrame missed_frames=%d missed_vsyncs=%d vsync_interval=%v",
			t.perScroll.MissedFrames, t.perScroll.MissedVsyncs, vsync)
		f.LatestEvent.SetJankyScrolledFrame(true)
	} else {
		f.LatestEvent.SetJankyScrolledFrame(false)
		t.recordVsyncCounts(MissedVsyncsPerFrameHistogram, 0)
	}

	if t.reporter != nil {
		if inputAvailable {
			t.reporter.AddVsyncs(totalVsyncs)
		} else {
			t.reporter.AddVsyncs(1)
		}
	}

	t.window.NumPresentedFrames++
	t.perScroll.NumPresentedFrames++
	if t.reporter != nil {
		t.reporter.IncrementFrameCount()
	}

	if t.window.NumPresentedFrames == HistogramEmitFrequency {
		t.emitPerWindowAndReset()
	}

	// V4 compares against the previous presentation, so it must run before
	// the shared timestamps move on.
	t.reportV4(f, firstInputV4Ts, vsync)

	t.prevPresentationTs = f.PresentationTs
	t.prevLastInputGenerationTs = f.LastInputGenerationTs
	return true
}

// OnScrollStarted begins a new scroll. Per-scroll metrics still pending from
// the previous scroll are emitted first.
func (t *Tracker) OnScrollStarted() {
	t.emitPerScrollAndReset()
	t.emitPerScrollV4AndReset()
	t.perScroll = &scrollV1{}
	if t.cfg.V4Enabled {
		t.perScrollV4 = &scrollV4{}
	}
	t.prevFrameV4 = nil
}

// OnScrollEnded emits per-scroll metrics for each detector configured to
// emit at the end of a scroll. The others wait for the next OnScrollStarted
// or Close.
func (t *Tracker) OnScrollEnded() {
	if t.cfg.EmitV1AtEndOfScroll {
		t.emitPerScrollAndReset()
	}
	if t.cfg.EmitV4AtEndOfScroll {
		t.emitPerScrollV4AndReset()
	}
}

// Close emits any per-scroll metrics that are still pending. Fixed windows
// that have not reached HistogramEmitFrequency frames are dropped.
func (t *Tracker) Close() {
	t.emitPerScrollAndReset()
	t.emitPerScrollV4AndReset()
}

// vsyncsIn returns how many vsync intervals d spans, rounded to nearest.
func vsyncsIn(d, vsync time.Duration) int {
	return int((d + halfOf(vsync)) / vsync)
}

// halfOf halves d at microsecond resolution.
func halfOf(d time.Duration) time.Duration {
	return d / time.Microsecond / 2 * time.Microsecond
}

// scaleDuration returns d*factor truncated to whole microseconds.
func scaleDuration(d time.Duration, factor float64) time.Duration {
	return time.Duration(float64(d/time.Microsecond)*factor) * time.Microsecond
}
