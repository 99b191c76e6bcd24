package scrolljank

// ScrollReporter receives the V1 per-frame outcomes of the current scroll as
// they are decided. It is optional; see Tracker.SetScrollReporter.
type ScrollReporter interface {
	IncrementFrameCount()
	IncrementDelayedFrameCount()
	AddVsyncs(n int)
	AddMissedVsyncs(n int)
	SetMaxMissedVsyncs(n int)
}

// ScrollSummary is a ScrollReporter that aggregates one scroll. Vsyncs
// counts the vsyncs spanned by frames whose input was available on time; any
// other frame counts as one.
type ScrollSummary struct {
	FrameCount        int `json:"frame_count"`
	DelayedFrameCount int `json:"delayed_frame_count"`
	Vsyncs            int `json:"vsyncs"`
	MissedVsyncs      int `json:"missed_vsyncs"`
	MaxMissedVsyncs   int `json:"max_missed_vsyncs"`
}

func (s *ScrollSummary) IncrementFrameCount()        { s.FrameCount++ }
func (s *ScrollSummary) IncrementDelayedFrameCount() { s.DelayedFrameCount++ }
func (s *ScrollSummary) AddVsyncs(n int)             { s.Vsyncs += n }
func (s *ScrollSummary) AddMissedVsyncs(n int)       { s.MissedVsyncs += n }
func (s *ScrollSummary) SetMaxMissedVsyncs(n int)    { s.MaxMissedVsyncs = n }

// DelayedFramePercentage returns the share of delayed frames, or 0 for an
// empty scroll.
func (s *ScrollSummary) DelayedFramePercentage() float64 {
	if s.FrameCount == 0 {
		return 0
	}
	return 100 * float64(s.DelayedFrameCount) / float64(s.FrameCount)
}
