package scrolljank

import "fmt"

// HistogramEmitFrequency is the number of presented frames in a fixed
// window.
const HistogramEmitFrequency = 64

// Layout of the vsync count histograms.
const (
	VsyncCountsMin     = 1
	VsyncCountsMax     = 50
	VsyncCountsBuckets = 25
)

// V1 histograms.
const (
	DelayedFramesWindowHistogram      = "Event.ScrollJank.DelayedFramesPercentage.FixedWindow"
	MissedVsyncsSumInWindowHistogram  = "Event.ScrollJank.MissedVsyncsSum.FixedWindow"
	MissedVsyncsMaxInWindowHistogram  = "Event.ScrollJank.MissedVsyncsMax.FixedWindow"
	DelayedFramesPerScrollHistogram   = "Event.ScrollJank.DelayedFramesPercentage.PerScroll"
	MissedVsyncsSumPerScrollHistogram = "Event.ScrollJank.MissedVsyncsSum.PerScroll"
	MissedVsyncsMaxPerScrollHistogram = "Event.ScrollJank.MissedVsyncsMax.PerScroll"
	MissedVsyncsPerFrameHistogram     = "Event.ScrollJank.MissedVsyncs.PerFrame"
)

// V4 histograms.
const (
	DelayedFramesWindowV4Histogram     = "Event.ScrollJank.DelayedFramesPercentage4.FixedWindow"
	MissedVsyncsSumInWindowV4Histogram = "Event.ScrollJank.MissedVsyncsSum4.FixedWindow"
	MissedVsyncsMaxInWindowV4Histogram = "Event.ScrollJank.MissedVsyncsMax4.FixedWindow"
	DelayedFramesPerScrollV4Histogram  = "Event.ScrollJank.DelayedFramesPercentage4.PerScroll"
)

// DelayedFramesWindowV4ReasonHistogram returns the per-window percentage
// histogram of frames delayed for reason.
func DelayedFramesWindowV4ReasonHistogram(reason JankReason) string {
	if reason < 0 || int(reason) >= NumJankReasons {
		panic(fmt.Sprintf("scrolljank: unknown jank reason %d", int(reason)))
	}
	return DelayedFramesWindowV4Histogram + "." + reason.String()
}

func (t *Tracker) recordVsyncCounts(name string, sample int) {
	t.sink.RecordCustomCounts(name, sample, VsyncCountsMin, VsyncCountsMax, VsyncCountsBuckets)
}

func (t *Tracker) emitPerScrollAndReset() {
	if t.perScroll == nil {
		return
	}
	s := t.perScroll
	t.perScroll = nil

	// Scroll started but nothing reached the screen.
	if s.NumPresentedFrames == 0 {
		diagf("NoPresentedFramesInScroll")
		return
	}
	t.sink.RecordPercentage(DelayedFramesPerScrollHistogram, 100*s.MissedFrames/s.NumPresentedFrames)
	t.recordVsyncCounts(MissedVsyncsMaxPerScrollHistogram, s.MaxMissedVsyncs)
	t.recordVsyncCounts(MissedVsyncsSumPerScrollHistogram, s.MissedVsyncs)
}

func (t *Tracker) emitPerScrollV4AndReset() {
	if t.perScrollV4 == nil {
		return
	}
	s := t.perScrollV4
	t.perScrollV4 = nil

	if s.DelayedFrames > s.PresentedFrames {
		panic(fmt.Sprintf("scrolljank: per-scroll v4 delayed frames %d exceed presented frames %d",
			s.DelayedFrames, s.PresentedFrames))
	}
	if s.PresentedFrames > 0 {
		t.sink.RecordPercentage(DelayedFramesPerScrollV4Histogram, 100*s.DelayedFrames/s.PresentedFrames)
	}
}

func (t *Tracker) emitPerWindowAndReset() {
	w := &t.window
	if w.NumPresentedFrames != HistogramEmitFrequency {
		panic(fmt.Sprintf("scrolljank: v1 window emitted after %d frames", w.NumPresentedFrames))
	}

	t.sink.RecordPercentage(DelayedFramesWindowHistogram, 100*w.MissedFrames/HistogramEmitFrequency)
	t.recordVsyncCounts(MissedVsyncsSumInWindowHistogram, w.MissedVsyncs)
	t.recordVsyncCounts(MissedVsyncsMaxInWindowHistogram, w.MaxMissedVsyncs)

	// Every later window has a previous frame to compare its first frame
	// against, so it starts at 0 rather than -1.
	*w = windowV1{}
}

func (t *Tracker) emitPerWindowV4AndReset() {
	w := &t.windowV4
	if err := w.check(); err != nil {
		panic("scrolljank: " + err.Error())
	}
	if w.PresentedFrames != HistogramEmitFrequency {
		panic(fmt.Sprintf("scrolljank: v4 window emitted after %d frames", w.PresentedFrames))
	}

	t.sink.RecordPercentage(DelayedFramesWindowV4Histogram, 100*w.DelayedFrames/HistogramEmitFrequency)
	t.recordVsyncCounts(MissedVsyncsSumInWindowV4Histogram, w.MissedVsyncs)
	t.recordVsyncCounts(MissedVsyncsMaxInWindowV4Histogram, w.MaxConsecutiveMissedVsyncs)
	for _, reason := range AllJankReasons() {
		t.sink.RecordPercentage(DelayedFramesWindowV4ReasonHistogram(reason),
			100*w.DelayedFramesPerReason[reason]/HistogramEmitFrequency)
	}

	*w = windowV4{}
}

// check verifies the counter relationships that hold at every point of a
// window's life. The first window starts at -1 presented frames, so the
// delayed frame bound only applies once its first frame is counted.
func (w *windowV4) check() error {
	if w.PresentedFrames >= 0 && w.DelayedFrames > w.PresentedFrames {
		return fmt.Errorf("v4 window delayed frames %d exceed presented frames %d", w.DelayedFrames, w.PresentedFrames)
	}
	if w.MissedVsyncs < w.DelayedFrames {
		return fmt.Errorf("v4 window missed vsyncs %d below delayed frames %d", w.MissedVsyncs, w.DelayedFrames)
	}
	if w.MaxConsecutiveMissedVsyncs > w.MissedVsyncs {
		return fmt.Errorf("v4 window max missed vsyncs %d exceed total %d", w.MaxConsecutiveMissedVsyncs, w.MissedVsyncs)
	}
	for _, reason := range AllJankReasons() {
		if n := w.DelayedFramesPerReason[reason]; n > w.DelayedFrames {
			return fmt.Errorf("v4 window %s frames %d exceed delayed frames %d", reason, n, w.DelayedFrames)
		}
	}
	return nil
}
