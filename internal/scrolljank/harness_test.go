package scrolljank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/jank.report/internal/metrics"
)

const testVsyncInterval = 16 * time.Millisecond

// firstWindowSize is the number of frames reported before the first window
// emits; the very first frame is not counted.
const firstWindowSize = HistogramEmitFrequency + 1

func ms(v int64) TimeTicks { return TicksFromMillis(v) }
func us(v int64) TimeTicks { return TicksFromMicros(v) }

// frameTimestamps describes a test frame. Zero lastInput and earliestInput
// default to firstInput.
type frameTimestamps struct {
	firstInput    TimeTicks
	lastInput     TimeTicks
	presentation  TimeTicks
	earliestInput TimeTicks

	inertial         bool
	absDelta         float32
	maxInertialDelta float32
}

type trackerHarness struct {
	t       *testing.T
	rec     *metrics.Recorder
	tracker *Tracker
}

func newHarness(t *testing.T, mutate ...func(*TrackerConfig)) *trackerHarness {
	t.Helper()
	cfg := DefaultTrackerConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	rec := metrics.NewRecorder()
	tracker, err := NewTracker(cfg, rec)
	require.NoError(t, err)
	tracker.OnScrollStarted()
	return &trackerHarness{t: t, rec: rec, tracker: tracker}
}

// report feeds f to the tracker and returns the earliest and latest events.
func (h *trackerHarness) report(f frameTimestamps) (earliest, latest *ScrollUpdateEvent) {
	latest = NewScrollUpdateEvent(f.firstInput)
	earliest = latest
	if f.earliestInput != 0 {
		earliest = NewScrollUpdateEvent(f.earliestInput)
	}
	last := f.lastInput
	if last == 0 {
		last = f.firstInput
	}
	h.tracker.ReportLatestPresentationData(PresentedFrame{
		EarliestEvent:                earliest,
		LatestEvent:                  latest,
		LastInputGenerationTs:        last,
		PresentationTs:               f.presentation,
		VsyncInterval:                testVsyncInterval,
		HasInertialInput:             f.inertial,
		AbsTotalRawDeltaPixels:       f.absDelta,
		MaxAbsInertialRawDeltaPixels: f.maxInertialDelta,
	})
	return earliest, latest
}

// produceMockFrames reports n frames, each one vsync after prev with no
// scroll delta, and returns the last of them.
func (h *trackerHarness) produceMockFrames(prev frameTimestamps, n int) frameTimestamps {
	prev.absDelta = 0
	prev.maxInertialDelta = 0
	for i := 0; i < n; i++ {
		prev.firstInput = prev.firstInput.Add(testVsyncInterval)
		if prev.lastInput != 0 {
			prev.lastInput = prev.lastInput.Add(testVsyncInterval)
		}
		prev.presentation = prev.presentation.Add(testVsyncInterval)
		if prev.earliestInput != 0 {
			prev.earliestInput = prev.earliestInput.Add(testVsyncInterval)
		}
		h.report(prev)
	}
	return prev
}

func (h *trackerHarness) expectUniqueSample(name string, sample, count int) {
	h.t.Helper()
	got := h.rec.Samples(name)
	if count == 0 {
		assert.Empty(h.t, got, name)
		return
	}
	want := make([]int, count)
	for i := range want {
		want[i] = sample
	}
	assert.Equal(h.t, want, got, name)
}

func (h *trackerHarness) expectBucketCount(name string, sample, count int) {
	h.t.Helper()
	assert.Equal(h.t, count, h.rec.BucketCount(name, sample), "%s bucket %d", name, sample)
}

func (h *trackerHarness) expectTotalCount(name string, count int) {
	h.t.Helper()
	assert.Equal(h.t, count, h.rec.TotalCount(name), name)
}

// expectV4Window checks one emitted V4 window given frame counts; the
// percentages are derived from them.
func (h *trackerHarness) expectV4Window(delayed int, perReason JankReasonArray, sum, max int) {
	h.t.Helper()
	h.expectUniqueSample(DelayedFramesWindowV4Histogram, 100*delayed/HistogramEmitFrequency, 1)
	for _, reason := range AllJankReasons() {
		h.expectUniqueSample(DelayedFramesWindowV4ReasonHistogram(reason),
			100*perReason[reason]/HistogramEmitFrequency, 1)
	}
	h.expectUniqueSample(MissedVsyncsSumInWindowV4Histogram, sum, 1)
	h.expectUniqueSample(MissedVsyncsMaxInWindowV4Histogram, max, 1)
}

func (h *trackerHarness) expectCleanV4Window() {
	h.t.Helper()
	h.expectV4Window(0, JankReasonArray{}, 0, 0)
}

func reasons(r JankReason, n int) JankReasonArray {
	var a JankReasonArray
	a[r] = n
	return a
}
