package scrolljank

import (
	"fmt"
	"time"
)

// TimeTicks is a monotonic timestamp in microseconds from an arbitrary
// origin. All tracker arithmetic runs at microsecond resolution.
type TimeTicks int64

// TicksFromMillis returns the timestamp ms milliseconds after the origin.
func TicksFromMillis(ms int64) TimeTicks { return TimeTicks(ms * 1000) }

// TicksFromMicros returns the timestamp us microseconds after the origin.
func TicksFromMicros(us int64) TimeTicks { return TimeTicks(us) }

// Sub returns the duration t-u.
func (t TimeTicks) Sub(u TimeTicks) time.Duration { return time.Duration(t-u) * time.Microsecond }

// Add returns t+d, truncating d to whole microseconds.
func (t TimeTicks) Add(d time.Duration) TimeTicks { return t + TimeTicks(d/time.Microsecond) }

// Micros returns t in microseconds since the origin.
func (t TimeTicks) Micros() int64 { return int64(t) }

func (t TimeTicks) String() string { return (time.Duration(t) * time.Microsecond).String() }

// JankReason is a cause the V4 detector can attribute a delayed frame to.
type JankReason int

const (
	// MissedVsyncDueToDeceleratingInputFrameDelivery: the first input of the
	// frame could have been presented earlier given recent delivery speed.
	MissedVsyncDueToDeceleratingInputFrameDelivery JankReason = iota
	// MissedVsyncDuringFastScroll: vsyncs were skipped between two frames
	// of a fast regular scroll.
	MissedVsyncDuringFastScroll
	// MissedVsyncAtStartOfFling: vsyncs were skipped on the transition from
	// a fast regular scroll to a fling.
	MissedVsyncAtStartOfFling
	// MissedVsyncDuringFling: vsyncs were skipped in the middle of a fling.
	MissedVsyncDuringFling

	// NumJankReasons is the number of JankReason values.
	NumJankReasons = int(MissedVsyncDuringFling) + 1
)

var jankReasonNames = [NumJankReasons]string{
	"MissedVsyncDueToDeceleratingInputFrameDelivery",
	"MissedVsyncDuringFastScroll",
	"MissedVsyncAtStartOfFling",
	"MissedVsyncDuringFling",
}

// AllJankReasons lists every reason in declaration order.
func AllJankReasons() []JankReason {
	reasons := make([]JankReason, NumJankReasons)
	for i := range reasons {
		reasons[i] = JankReason(i)
	}
	return reasons
}

func (r JankReason) String() string {
	if r < 0 || int(r) >= NumJankReasons {
		return fmt.Sprintf("JankReason(%d)", int(r))
	}
	return jankReasonNames[r]
}

// JankReasonArray holds one value per JankReason, indexed by the reason.
type JankReasonArray [NumJankReasons]int

// Any reports whether any reason holds a positive value.
func (a JankReasonArray) Any() bool {
	for _, v := range a {
		if v > 0 {
			return true
		}
	}
	return false
}

// Max returns the largest value across all reasons (0 when all are zero).
func (a JankReasonArray) Max() int {
	m := 0
	for _, v := range a {
		if v > m {
			m = v
		}
	}
	return m
}

// windowV1 accumulates V1 results over a fixed window of presented frames.
type windowV1 struct {
	NumPresentedFrames int
	MissedFrames       int
	MissedVsyncs       int
	MaxMissedVsyncs    int
}

// scrollV1 accumulates V1 results over a single scroll.
type scrollV1 struct {
	NumPresentedFrames int
	MissedFrames       int
	MissedVsyncs       int
	MaxMissedVsyncs    int
}

// windowV4 accumulates V4 results over a fixed window of presented frames.
type windowV4 struct {
	PresentedFrames            int
	DelayedFrames              int
	MissedVsyncs               int
	MaxConsecutiveMissedVsyncs int
	DelayedFramesPerReason     JankReasonArray
}

// scrollV4 accumulates V4 results over a single scroll.
type scrollV4 struct {
	PresentedFrames int
	DelayedFrames   int
}

// previousFrameV4 is what V4 remembers about the last frame of the scroll.
type previousFrameV4 struct {
	HasInertialInput       bool
	AbsTotalRawDeltaPixels float32
	RunningDeliveryCutoff  time.Duration
}
