package scrolljank

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/jank.report/internal/config"
	"github.com/banshee-data/jank.report/internal/metrics"
)

func TestNewTracker_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultTrackerConfig()
	cfg.DiscountFactor = 1
	tracker, err := NewTracker(cfg, nil)
	assert.Error(t, err)
	assert.Nil(t, tracker)
}

func TestNewTracker_NilSinkDiscards(t *testing.T) {
	t.Parallel()

	tracker, err := NewTracker(DefaultTrackerConfig(), nil)
	require.NoError(t, err)
	tracker.OnScrollStarted()
	assert.True(t, tracker.ReportLatestPresentationData(PresentedFrame{
		EarliestEvent:         NewScrollUpdateEvent(ms(103)),
		LatestEvent:           NewScrollUpdateEvent(ms(103)),
		LastInputGenerationTs: ms(103),
		PresentationTs:        ms(148),
		VsyncInterval:         testVsyncInterval,
	}))
	tracker.Close()
}

func TestTracker_EmitsHistograms(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	f1 := frameTimestamps{firstInput: ms(103), lastInput: ms(103), presentation: ms(148)}
	last := h.produceMockFrames(f1, HistogramEmitFrequency)

	for _, name := range []string{
		DelayedFramesWindowHistogram,
		DelayedFramesWindowV4Histogram,
		MissedVsyncsSumInWindowHistogram,
		MissedVsyncsSumInWindowV4Histogram,
		MissedVsyncsMaxInWindowV4Histogram,
	} {
		h.expectTotalCount(name, 0)
	}

	// The first window emits at the 65th reported frame.
	last = h.produceMockFrames(last, 1)
	h.expectUniqueSample(DelayedFramesWindowHistogram, 0, 1)
	h.expectUniqueSample(MissedVsyncsSumInWindowHistogram, 0, 1)
	h.expectCleanV4Window()

	// Later windows emit every 64 frames.
	h.produceMockFrames(last, HistogramEmitFrequency)
	for _, name := range []string{
		DelayedFramesWindowHistogram,
		DelayedFramesWindowV4Histogram,
		MissedVsyncsSumInWindowHistogram,
		MissedVsyncsSumInWindowV4Histogram,
		MissedVsyncsMaxInWindowV4Histogram,
	} {
		h.expectUniqueSample(name, 0, 2)
	}
}

func TestTracker_FrameProducedEveryVsync(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	f1 := frameTimestamps{firstInput: ms(103), lastInput: ms(111), presentation: ms(148)}
	f2 := frameTimestamps{firstInput: ms(119), lastInput: ms(127), presentation: ms(164)}
	h.report(f1)
	h.report(f2)
	h.produceMockFrames(f2, firstWindowSize-2)

	h.expectUniqueSample(DelayedFramesWindowHistogram, 0, 1)
	h.expectUniqueSample(MissedVsyncsSumInWindowHistogram, 0, 1)
	h.expectCleanV4Window()
}

func TestTracker_NoFrameProducedForMissingInput(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	// F2 is two vsyncs after F1, but its first input arrived a full
	// threshold after F1's last one, so nothing was ready for the vsync in
	// between.
	f1 := frameTimestamps{firstInput: ms(103), lastInput: ms(111), presentation: ms(148)}
	f2 := frameTimestamps{firstInput: ms(135), lastInput: ms(143), presentation: ms(180)}
	h.report(f1)
	_, latest := h.report(f2)
	h.produceMockFrames(f2, firstWindowSize-2)

	janky, ok := latest.JankyScrolledFrame()
	assert.True(t, ok)
	assert.False(t, janky)

	h.expectUniqueSample(DelayedFramesWindowHistogram, 0, 1)
	h.expectUniqueSample(MissedVsyncsSumInWindowHistogram, 0, 1)
	h.expectCleanV4Window()
}

func TestTracker_MissedVsyncWhenInputWasPresent(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	f1 := frameTimestamps{firstInput: ms(103), lastInput: ms(111), presentation: ms(148)}
	f2 := frameTimestamps{firstInput: ms(119), lastInput: ms(127), presentation: ms(196)}
	f3 := frameTimestamps{firstInput: ms(135), lastInput: ms(143), presentation: ms(228)}

	_, e1 := h.report(f1)
	h.expectUniqueSample(MissedVsyncsPerFrameHistogram, 0, 1)
	_, e2 := h.report(f2)
	h.expectBucketCount(MissedVsyncsPerFrameHistogram, 2, 1)
	_, e3 := h.report(f3)
	h.expectBucketCount(MissedVsyncsPerFrameHistogram, 1, 1)

	for _, tc := range []struct {
		event *ScrollUpdateEvent
		janky bool
	}{{e1, false}, {e2, true}, {e3, true}} {
		janky, ok := tc.event.JankyScrolledFrame()
		assert.True(t, ok)
		assert.Equal(t, tc.janky, janky, "event at %v", tc.event.GenerationTimestamp())
	}

	last := h.produceMockFrames(f3, firstWindowSize-3)
	h.expectBucketCount(MissedVsyncsPerFrameHistogram, 0, 63)

	// F2 missed 2 vsyncs and F3 missed 1.
	h.expectUniqueSample(DelayedFramesWindowHistogram, 100*2/HistogramEmitFrequency, 1)
	h.expectUniqueSample(MissedVsyncsSumInWindowHistogram, 3, 1)
	h.expectUniqueSample(MissedVsyncsMaxInWindowHistogram, 2, 1)
	h.expectV4Window(2, reasons(MissedVsyncDueToDeceleratingInputFrameDelivery, 2), 3, 2)

	// Counters restart for the next window.
	h.produceMockFrames(last, HistogramEmitFrequency)
	for _, name := range []string{
		DelayedFramesWindowHistogram,
		DelayedFramesWindowV4Histogram,
		MissedVsyncsSumInWindowHistogram,
		MissedVsyncsSumInWindowV4Histogram,
		MissedVsyncsMaxInWindowHistogram,
		MissedVsyncsMaxInWindowV4Histogram,
	} {
		h.expectBucketCount(name, 0, 1)
	}
	h.expectBucketCount(MissedVsyncsPerFrameHistogram, 0, 127)
}

func TestTracker_MissedVsyncWhenCoalescedInputWasPresent(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	// F2 also carries an input generated at 119ms that was coalesced into a
	// later one. Only V4 looks at it.
	f1 := frameTimestamps{firstInput: ms(103), lastInput: ms(111), presentation: ms(135)}
	f2 := frameTimestamps{firstInput: ms(135), lastInput: ms(143), presentation: ms(183), earliestInput: ms(119)}
	f3 := frameTimestamps{firstInput: ms(151), lastInput: ms(159), presentation: ms(215)}

	h.report(f1)
	earliest, latest := h.report(f2)
	h.report(f3)

	janky, _ := latest.JankyScrolledFrame()
	assert.False(t, janky)
	assert.Nil(t, latest.ScrollJankV4())
	require.NotNil(t, earliest.ScrollJankV4())
	assert.True(t, earliest.ScrollJankV4().IsJanky())
	assert.Equal(t, 2, earliest.ScrollJankV4().MissedVsyncs())

	last := h.produceMockFrames(f3, firstWindowSize-3)

	h.expectUniqueSample(DelayedFramesWindowHistogram, 100*1/HistogramEmitFrequency, 1)
	h.expectUniqueSample(MissedVsyncsSumInWindowHistogram, 1, 1)
	h.expectUniqueSample(MissedVsyncsMaxInWindowHistogram, 1, 1)
	h.expectV4Window(2, reasons(MissedVsyncDueToDeceleratingInputFrameDelivery, 2), 3, 2)

	h.produceMockFrames(last, HistogramEmitFrequency)
	for _, name := range []string{
		DelayedFramesWindowHistogram,
		DelayedFramesWindowV4Histogram,
		MissedVsyncsSumInWindowHistogram,
		MissedVsyncsMaxInWindowHistogram,
		MissedVsyncsSumInWindowV4Histogram,
		MissedVsyncsMaxInWindowV4Histogram,
	} {
		h.expectBucketCount(name, 0, 1)
	}
}

func TestTracker_ScrollWithZeroVsyncs(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.report(frameTimestamps{firstInput: ms(103), lastInput: ms(111), presentation: ms(148)})
	h.tracker.OnScrollStarted()
	h.expectUniqueSample(DelayedFramesPerScrollV4Histogram, 0, 1)

	// Presented less than half a vsync after the previous frame.
	h.report(frameTimestamps{firstInput: ms(119), lastInput: ms(127), presentation: ms(149)})
	h.tracker.OnScrollStarted()
	h.expectUniqueSample(DelayedFramesPerScrollV4Histogram, 0, 2)
}

// reportPerScrollFrames reports a 10 frame scroll in which F2 misses 2
// vsyncs and F3 misses 1.
func (h *trackerHarness) reportPerScrollFrames() {
	f1 := frameTimestamps{firstInput: ms(103), lastInput: ms(111), presentation: ms(148)}
	f2 := frameTimestamps{firstInput: ms(119), lastInput: ms(127), presentation: ms(196)}
	f3 := frameTimestamps{firstInput: ms(135), lastInput: ms(143), presentation: ms(228)}
	h.report(f1)
	h.report(f2)
	h.report(f3)
	h.produceMockFrames(f3, perScrollFrames-3)
}

const (
	perScrollFrames     = 10
	perScrollDelayedPct = 100 * 2 / perScrollFrames
	perScrollMissedSum  = 3
	perScrollMissedMax  = 2
)

func (h *trackerHarness) expectPerScrollV1(emitted bool) {
	h.t.Helper()
	if !emitted {
		h.expectTotalCount(MissedVsyncsSumPerScrollHistogram, 0)
		h.expectTotalCount(MissedVsyncsMaxPerScrollHistogram, 0)
		h.expectTotalCount(DelayedFramesPerScrollHistogram, 0)
		return
	}
	h.expectUniqueSample(MissedVsyncsSumPerScrollHistogram, perScrollMissedSum, 1)
	h.expectUniqueSample(MissedVsyncsMaxPerScrollHistogram, perScrollMissedMax, 1)
	h.expectUniqueSample(DelayedFramesPerScrollHistogram, perScrollDelayedPct, 1)
}

func (h *trackerHarness) expectPerScrollV4(emitted bool) {
	h.t.Helper()
	if !emitted {
		h.expectTotalCount(DelayedFramesPerScrollV4Histogram, 0)
		return
	}
	h.expectUniqueSample(DelayedFramesPerScrollV4Histogram, perScrollDelayedPct, 1)
}

func TestTracker_PerScrollV1DeferredToNextScroll(t *testing.T) {
	t.Parallel()
	h := newHarness(t, func(c *TrackerConfig) { c.EmitV1AtEndOfScroll = false })

	h.reportPerScrollFrames()
	h.tracker.OnScrollEnded()
	h.expectPerScrollV1(false)

	h.rec.Reset()
	h.tracker.OnScrollStarted()
	h.expectPerScrollV1(true)

	h.rec.Reset()
	h.tracker.Close()
	h.expectPerScrollV1(false)
}

func TestTracker_PerScrollV1AtEndOfScroll(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.reportPerScrollFrames()
	h.tracker.OnScrollEnded()
	h.expectPerScrollV1(true)

	h.rec.Reset()
	h.tracker.OnScrollStarted()
	h.tracker.Close()
	h.expectPerScrollV1(false)
}

func TestTracker_PerScrollV4DeferredToNextScroll(t *testing.T) {
	t.Parallel()
	h := newHarness(t, func(c *TrackerConfig) { c.EmitV4AtEndOfScroll = false })

	h.reportPerScrollFrames()
	h.tracker.OnScrollEnded()
	h.expectPerScrollV4(false)

	h.rec.Reset()
	h.tracker.OnScrollStarted()
	h.expectPerScrollV4(true)

	h.rec.Reset()
	h.tracker.Close()
	h.expectPerScrollV4(false)
}

func TestTracker_PerScrollV4AtEndOfScroll(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.reportPerScrollFrames()
	h.tracker.OnScrollEnded()
	h.expectPerScrollV4(true)

	h.rec.Reset()
	h.tracker.OnScrollStarted()
	h.tracker.Close()
	h.expectPerScrollV4(false)
}

func TestTracker_CloseEmitsPendingScroll(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.reportPerScrollFrames()
	h.tracker.Close()
	h.expectPerScrollV1(true)
	h.expectPerScrollV4(true)

	// Nothing is left to flush.
	h.rec.Reset()
	h.tracker.Close()
	assert.Empty(t, h.rec.Names())
}

func TestTracker_CloseMatchesScrollEnded(t *testing.T) {
	t.Parallel()

	ended := newHarness(t)
	ended.reportPerScrollFrames()
	ended.tracker.OnScrollEnded()

	closed := newHarness(t)
	closed.reportPerScrollFrames()
	closed.tracker.Close()

	assert.Equal(t, ended.rec.Snapshot(), closed.rec.Snapshot())
}

func TestTracker_ScrollWithoutFramesEmitsNothing(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.tracker.OnScrollEnded()
	h.tracker.OnScrollStarted()
	h.tracker.Close()
	assert.Empty(t, h.rec.Names())
}

func TestTracker_FrameWithoutScrollStart(t *testing.T) {
	t.Parallel()

	rec := metrics.NewRecorder()
	tracker, err := NewTracker(DefaultTrackerConfig(), rec)
	require.NoError(t, err)

	h := &trackerHarness{t: t, rec: rec, tracker: tracker}
	h.reportPerScrollFrames()
	tracker.OnScrollEnded()

	// Both detectors open the scroll on the first frame they see.
	h.expectPerScrollV1(true)
	h.expectPerScrollV4(true)
}

func TestTracker_IgnoresMalformedAndOutOfOrderFrames(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	f1 := frameTimestamps{firstInput: ms(103), lastInput: ms(111), presentation: ms(148)}
	h.report(f1)
	before := *h.tracker
	snapshot := h.rec.Snapshot()

	tests := []struct {
		name         string
		input        TimeTicks
		lastInput    TimeTicks
		presentation TimeTicks
		vsync        time.Duration
	}{
		{"last input before first input", ms(160), ms(150), ms(180), testVsyncInterval},
		{"presented before last input", ms(160), ms(200), ms(190), testVsyncInterval},
		{"presented with last input", ms(160), ms(180), ms(180), testVsyncInterval},
		{"duplicate presentation", ms(120), ms(130), ms(148), testVsyncInterval},
		{"out of order", ms(120), ms(130), ms(140), testVsyncInterval},
		{"no vsync interval", ms(160), ms(170), ms(180), 0},
		{"sub-microsecond vsync interval", ms(160), ms(170), ms(180), 500 * time.Nanosecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := NewScrollUpdateEvent(tt.input)
			accepted := h.tracker.ReportLatestPresentationData(PresentedFrame{
				EarliestEvent:         event,
				LatestEvent:           event,
				LastInputGenerationTs: tt.lastInput,
				PresentationTs:        tt.presentation,
				VsyncInterval:         tt.vsync,
			})

			assert.False(t, accepted)
			assert.Equal(t, before, *h.tracker)
			assert.Equal(t, snapshot, h.rec.Snapshot())
			_, ok := event.JankyScrolledFrame()
			assert.False(t, ok)
			assert.Nil(t, event.ScrollJankV4())
		})
	}
}

func TestTracker_ContractViolationsPanic(t *testing.T) {
	t.Parallel()

	t.Run("missing events", func(t *testing.T) {
		event := NewScrollUpdateEvent(ms(100))
		for name, frame := range map[string]PresentedFrame{
			"earliest": {LatestEvent: event},
			"latest":   {EarliestEvent: event},
		} {
			h := newHarness(t)
			frame.LastInputGenerationTs = ms(100)
			frame.PresentationTs = ms(148)
			frame.VsyncInterval = testVsyncInterval
			assert.PanicsWithValue(t, "scrolljank: presented frame is missing its earliest or latest event", func() {
				h.tracker.ReportLatestPresentationData(frame)
			}, "nil %s event", name)
		}
	})

	t.Run("earliest event after latest event", func(t *testing.T) {
		h := newHarness(t)
		assert.Panics(t, func() {
			h.tracker.ReportLatestPresentationData(PresentedFrame{
				EarliestEvent:         NewScrollUpdateEvent(ms(120)),
				LatestEvent:           NewScrollUpdateEvent(ms(110)),
				LastInputGenerationTs: ms(120),
				PresentationTs:        ms(148),
				VsyncInterval:         testVsyncInterval,
			})
		})
	})

	t.Run("inertial delta without inertial input", func(t *testing.T) {
		h := newHarness(t)
		assert.Panics(t, func() {
			h.report(frameTimestamps{firstInput: ms(100), presentation: ms(148), maxInertialDelta: 0.5})
		})
	})

	t.Run("verdict written twice", func(t *testing.T) {
		h := newHarness(t)
		event := NewScrollUpdateEvent(ms(100))
		frame := PresentedFrame{
			EarliestEvent:         event,
			LatestEvent:           event,
			LastInputGenerationTs: ms(100),
			PresentationTs:        ms(148),
			VsyncInterval:         testVsyncInterval,
		}
		h.tracker.ReportLatestPresentationData(frame)
		frame.PresentationTs = ms(164)
		assert.Panics(t, func() { h.tracker.ReportLatestPresentationData(frame) })
	})
}

func TestTracker_V1SpansScrollBoundaries(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	// F2 is the first frame of a new scroll and is judged against F1 by V1,
	// but not by V4.
	h.report(frameTimestamps{firstInput: ms(108), presentation: ms(116), absDelta: 4})
	h.tracker.OnScrollStarted()
	h.rec.Reset()

	f2 := frameTimestamps{firstInput: ms(124), presentation: ms(164)}
	_, latest := h.report(f2)
	janky, _ := latest.JankyScrolledFrame()
	assert.True(t, janky)
	require.NotNil(t, latest.ScrollJankV4())
	assert.False(t, latest.ScrollJankV4().HasPreviousFrame())
	assert.False(t, latest.ScrollJankV4().IsJanky())

	h.produceMockFrames(f2, firstWindowSize-2)
	h.expectUniqueSample(DelayedFramesWindowHistogram, 100*1/HistogramEmitFrequency, 1)
	h.expectUniqueSample(MissedVsyncsSumInWindowHistogram, 2, 1)
	h.expectUniqueSample(MissedVsyncsMaxInWindowHistogram, 2, 1)
	h.expectCleanV4Window()
}

func TestTracker_ScrollReporter(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	var summary ScrollSummary
	h.tracker.SetScrollReporter(&summary)
	h.reportPerScrollFrames()

	assert.Equal(t, ScrollSummary{
		FrameCount:        10,
		DelayedFrameCount: 2,
		// F1 has no input available and counts as one vsync.
		Vsyncs:          1 + 3 + 2 + 7,
		MissedVsyncs:    3,
		MaxMissedVsyncs: 2,
	}, summary)
	assert.InDelta(t, 20.0, summary.DelayedFramePercentage(), 1e-9)

	h.tracker.SetScrollReporter(nil)
	h.report(frameTimestamps{firstInput: ms(300), presentation: ms(400)})
	assert.Equal(t, 10, summary.FrameCount)
}

func TestScrollSummary_EmptyPercentage(t *testing.T) {
	t.Parallel()

	var s ScrollSummary
	assert.Equal(t, 0.0, s.DelayedFramePercentage())
}

func TestTracker_TraceLog(t *testing.T) {
	var ops, diag, trace bytes.Buffer
	SetLogWriters(&ops, &diag, &trace)
	defer SetLogWriters(nil, nil, nil)

	h := newHarness(t)
	h.report(frameTimestamps{firstInput: ms(103), lastInput: ms(111), presentation: ms(148)})
	h.report(frameTimestamps{firstInput: ms(119), lastInput: ms(127), presentation: ms(196)})
	h.report(frameTimestamps{firstInput: ms(119), lastInput: ms(127), presentation: ms(180)})
	h.tracker.OnScrollEnded()
	h.tracker.OnScrollStarted()
	h.tracker.OnScrollEnded()

	assert.Contains(t, trace.String(), tracePrefix)
	assert.Contains(t, diag.String(), diagPrefix)
	assert.NotContains(t, diag.String(), "MissedFrame")
	assert.Empty(t, ops.String())
	assert.Contains(t, trace.String(), "MissedFrame missed_frames=1 missed_vsyncs=2")
	assert.Contains(t, trace.String(), "DelayedFrameV4")
	assert.Contains(t, trace.String(), "OutOfOrderTerminatedFrame")
	assert.Contains(t, diag.String(), "NoPresentedFramesInScroll")

	_, err := NewTracker(TrackerConfig{DiscountFactor: -1}, nil)
	require.Error(t, err)
	assert.Contains(t, ops.String(), opsPrefix)
	assert.Contains(t, ops.String(), "rejecting tracker config")
}

func TestTracker_TraceLogDisabled(t *testing.T) {
	var ops bytes.Buffer
	SetLogWriters(&ops, nil, nil)
	defer SetLogWriters(nil, nil, nil)

	h := newHarness(t)
	h.report(frameTimestamps{firstInput: ms(103), presentation: ms(148)})
	h.report(frameTimestamps{firstInput: ms(119), presentation: ms(196)})
	h.tracker.OnScrollEnded()
	h.tracker.OnScrollStarted()
	h.tracker.OnScrollEnded()

	assert.Nil(t, diagLogger)
	assert.Nil(t, traceLogger)
	assert.Empty(t, ops.String())
}

func TestTrackerConfigFromTuning(t *testing.T) {
	t.Parallel()

	cfg, err := config.ParseTuningConfig([]byte(`{
		"scroll_jank_v4_enabled": false,
		"emit_v1_at_end_of_scroll": false,
		"v4_discount_factor": 0.02
	}`))
	require.NoError(t, err)

	got := TrackerConfigFromTuning(cfg)
	assert.False(t, got.V4Enabled)
	assert.False(t, got.EmitV1AtEndOfScroll)
	assert.True(t, got.EmitV4AtEndOfScroll)
	assert.Equal(t, 0.02, got.DiscountFactor)
	assert.Equal(t, 0.05, got.StabilityCorrection)
	assert.Equal(t, 3.0, got.FastScrollContinuityThreshold)
	assert.Equal(t, 0.2, got.FlingContinuityThreshold)
}

func TestDefaultTrackerConfig(t *testing.T) {
	t.Parallel()

	assert.Equal(t, TrackerConfig{
		V4Enabled:                     true,
		EmitV1AtEndOfScroll:           true,
		EmitV4AtEndOfScroll:           true,
		DiscountFactor:                0.01,
		StabilityCorrection:           0.05,
		FastScrollContinuityThreshold: 3,
		FlingContinuityThreshold:      0.2,
	}, DefaultTrackerConfig())
}

func TestTrackerConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := DefaultTrackerConfig()
	tests := []struct {
		name    string
		mutate  func(*TrackerConfig)
		wantErr bool
	}{
		{"defaults", func(*TrackerConfig) {}, false},
		{"zero discount", func(c *TrackerConfig) { c.DiscountFactor = 0 }, false},
		{"discount of one", func(c *TrackerConfig) { c.DiscountFactor = 1 }, true},
		{"negative discount", func(c *TrackerConfig) { c.DiscountFactor = -0.1 }, true},
		{"negative stability", func(c *TrackerConfig) { c.StabilityCorrection = -1 }, true},
		{"negative fast scroll", func(c *TrackerConfig) { c.FastScrollContinuityThreshold = -1 }, true},
		{"negative fling", func(c *TrackerConfig) { c.FlingContinuityThreshold = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
