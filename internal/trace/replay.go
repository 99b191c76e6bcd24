package trace

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/jank.report/internal/metrics"
	"github.com/banshee-data/jank.report/internal/monitoring"
	"github.com/banshee-data/jank.report/internal/scrolljank"
)

// SkippedFramesHistogram counts the frames of one replay that the tracker
// ignored.
const SkippedFramesHistogram = "JankReplay.SkippedFrames"

// Options controls a replay.
type Options struct {
	// DefaultVsyncInterval is used by frames that carry no interval of
	// their own.
	DefaultVsyncInterval time.Duration
	// Sink, when set, receives replay-level metrics. Tracker metrics go to
	// the tracker's own sink.
	Sink metrics.Sink
	// ProgressEvery logs progress every N records. Zero disables it.
	ProgressEvery int
}

// FrameOutcome is what the tracker decided about one frame record.
type FrameOutcome struct {
	Index       int `json:"index"`
	Line        int `json:"line,omitempty"`
	ScrollIndex int `json:"scroll_index"`

	PresentationTs scrolljank.TimeTicks `json:"presentation_us"`
	// Skipped frames were ignored by the tracker and carry no verdicts.
	Skipped bool                 `json:"skipped"`
	JankyV1 bool                 `json:"janky_v1"`
	V4      *scrolljank.V4Result `json:"v4,omitempty"`
}

// JankyV4 reports whether the V4 detector attributed missed vsyncs to the
// frame.
func (f FrameOutcome) JankyV4() bool { return f.V4 != nil && f.V4.IsJanky() }

// ScrollOutcome is the V1 aggregate of one scroll.
type ScrollOutcome struct {
	ID    uuid.UUID `json:"id"`
	Index int       `json:"index"`
	// Implicit scrolls were opened by a frame arriving outside any scroll.
	Implicit bool                     `json:"implicit,omitempty"`
	Summary  scrolljank.ScrollSummary `json:"summary"`
}

// Result collects the outcomes of a replay.
type Result struct {
	Frames  []FrameOutcome   `json:"frames"`
	Scrolls []*ScrollOutcome `json:"scrolls"`
	Skipped int              `json:"skipped"`
}

// JankyV1Count returns the number of frames the V1 detector marked janky.
func (r *Result) JankyV1Count() int {
	n := 0
	for _, f := range r.Frames {
		if f.JankyV1 {
			n++
		}
	}
	return n
}

// JankyV4Count returns the number of frames the V4 detector marked janky.
func (r *Result) JankyV4Count() int {
	n := 0
	for _, f := range r.Frames {
		if f.JankyV4() {
			n++
		}
	}
	return n
}

type replayer struct {
	tracker *scrolljank.Tracker
	opts    Options
	result  *Result
	current *ScrollOutcome // nil between scrolls
}

// Replay feeds records through tracker in order and closes it once every
// record has been fed, flushing any pending per-scroll metrics. The tracker
// must not be used afterwards.
//
// Records are validated before they are fed; an invalid record aborts the
// replay with an error naming its line. A cancelled ctx also aborts the
// replay. In both cases the tracker is left open and the partial result is
// returned alongside the error.
func Replay(ctx context.Context, tracker *scrolljank.Tracker, records []Record, opts Options) (*Result, error) {
	if opts.DefaultVsyncInterval <= 0 {
		return nil, fmt.Errorf("default vsync interval must be positive, got %v", opts.DefaultVsyncInterval)
	}

	rp := &replayer{tracker: tracker, opts: opts, result: &Result{}}
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return rp.result, fmt.Errorf("replay interrupted at record %d: %w", i, err)
		}
		if err := rec.Validate(); err != nil {
			return rp.result, fmt.Errorf("record %d (line %d): %w", i, rec.Line, err)
		}
		rp.feed(rec)
		if opts.ProgressEvery > 0 && (i+1)%opts.ProgressEvery == 0 {
			monitoring.Logf("replay: %d/%d records, %d frames, %d scrolls", i+1, len(records), len(rp.result.Frames), len(rp.result.Scrolls))
		}
	}

	rp.endScroll()
	tracker.Close()

	if opts.Sink != nil {
		opts.Sink.RecordCount(SkippedFramesHistogram, rp.result.Skipped)
	}
	return rp.result, nil
}

func (rp *replayer) feed(rec Record) {
	switch rec.Type {
	case RecordScrollBegin:
		rp.endScroll()
		rp.beginScroll(false)
	case RecordScrollEnd:
		rp.endScroll()
	case RecordFrame:
		if rp.current == nil {
			rp.beginScroll(true)
		}
		rp.frame(rec)
	}
}

func (rp *replayer) beginScroll(implicit bool) {
	rp.current = &ScrollOutcome{
		ID:       uuid.New(),
		Index:    len(rp.result.Scrolls),
		Implicit: implicit,
	}
	rp.result.Scrolls = append(rp.result.Scrolls, rp.current)
	rp.tracker.OnScrollStarted()
	rp.tracker.SetScrollReporter(&rp.current.Summary)
}

func (rp *replayer) endScroll() {
	if rp.current == nil {
		return
	}
	rp.tracker.OnScrollEnded()
	rp.tracker.SetScrollReporter(nil)
	rp.current = nil
}

func (rp *replayer) frame(rec Record) {
	f := rec.Frame(rp.opts.DefaultVsyncInterval)
	out := FrameOutcome{
		Index:          len(rp.result.Frames),
		Line:           rec.Line,
		ScrollIndex:    rp.current.Index,
		PresentationTs: f.PresentationTs,
	}

	if !rp.tracker.ReportLatestPresentationData(f) {
		out.Skipped = true
		rp.result.Skipped++
	} else {
		out.JankyV1, _ = f.LatestEvent.JankyScrolledFrame()
		if v4 := f.EarliestEvent.ScrollJankV4(); v4 != nil {
			r := *v4
			out.V4 = &r
		}
	}
	rp.result.Frames = append(rp.result.Frames, out)
}
