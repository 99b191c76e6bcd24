package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/jank.report/internal/metrics"
	"github.com/banshee-data/jank.report/internal/scrolljank"
	"github.com/banshee-data/jank.report/internal/trace"
)

// ErrRunNotFound is returned when a run ID has no replay_runs row.
var ErrRunNotFound = errors.New("replay run not found")

// Run is one replay of a trace.
type Run struct {
	ID           uuid.UUID `json:"run_id"`
	Source       string    `json:"source"`
	ConfigJSON   string    `json:"config_json"`
	StartedAt    time.Time `json:"started_at"`
	FrameCount   int       `json:"frame_count"`
	SkippedCount int       `json:"skipped_count"`
}

// InsertRun persists a new run. A zero ID or StartedAt is filled in.
func (db *DB) InsertRun(run *Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if run.ConfigJSON == "" {
		run.ConfigJSON = "{}"
	}

	return retryOnBusy(func() error {
		_, err := db.Exec(`
			INSERT INTO replay_runs (run_id, source, config_json, started_at, frame_count, skipped_count)
			VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID.String(), run.Source, run.ConfigJSON, run.StartedAt.UnixNano(),
			run.FrameCount, run.SkippedCount,
		)
		return err
	})
}

// GetRun returns the run with the given ID, or ErrRunNotFound.
func (db *DB) GetRun(id uuid.UUID) (*Run, error) {
	row := db.QueryRow(`
		SELECT run_id, source, config_json, started_at, frame_count, skipped_count
		FROM replay_runs
		WHERE run_id = ?`, id.String())
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return run, err
}

// ListRuns returns every run, newest first.
func (db *DB) ListRuns() ([]*Run, error) {
	rows, err := db.Query(`
		SELECT run_id, source, config_json, started_at, frame_count, skipped_count
		FROM replay_runs
		ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		run       Run
		id        string
		startedAt int64
	)
	if err := s.Scan(&id, &run.Source, &run.ConfigJSON, &startedAt, &run.FrameCount, &run.SkippedCount); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("run %q: %w", id, err)
	}
	run.ID = parsed
	run.StartedAt = time.Unix(0, startedAt)
	return &run, nil
}

// SaveResult stores the frame and scroll outcomes of a replay under an
// existing run and updates its counts, all in one transaction.
func (db *DB) SaveResult(runID uuid.UUID, result *trace.Result) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE replay_runs SET frame_count = ?, skipped_count = ? WHERE run_id = ?`,
		len(result.Frames), result.Skipped, runID.String())
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRunNotFound
	}

	frameStmt, err := tx.Prepare(`
		INSERT INTO frame_results (
			run_id, frame_index, trace_line, scroll_index, presentation_us, skipped, janky_v1,
			has_v4, janky_v4, vsyncs_since_previous_frame, missed_vsyncs_v4,
			missed_decelerating, missed_fast_scroll, missed_start_of_fling, missed_during_fling,
			running_cutoff_us, adjusted_cutoff_us, current_cutoff_us,
			abs_delta_px, max_abs_inertial_delta_px
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer frameStmt.Close()

	for _, f := range result.Frames {
		var v4 scrolljank.V4Result
		if f.V4 != nil {
			v4 = *f.V4
		}
		missed := v4.MissedVsyncsPerReason
		if _, err := frameStmt.Exec(
			runID.String(), f.Index, f.Line, f.ScrollIndex, f.PresentationTs.Micros(),
			boolToInt(f.Skipped), boolToInt(f.JankyV1),
			boolToInt(f.V4 != nil), boolToInt(f.JankyV4()), v4.VsyncsSincePreviousFrame, v4.MissedVsyncs(),
			missed[scrolljank.MissedVsyncDueToDeceleratingInputFrameDelivery],
			missed[scrolljank.MissedVsyncDuringFastScroll],
			missed[scrolljank.MissedVsyncAtStartOfFling],
			missed[scrolljank.MissedVsyncDuringFling],
			v4.RunningDeliveryCutoff.Microseconds(), v4.AdjustedDeliveryCutoff.Microseconds(),
			v4.CurrentDeliveryCutoff.Microseconds(),
			v4.AbsTotalRawDeltaPixels, v4.MaxAbsInertialRawDeltaPixels,
		); err != nil {
			return fmt.Errorf("insert frame %d: %w", f.Index, err)
		}
	}

	for _, s := range result.Scrolls {
		if _, err := tx.Exec(`
			INSERT INTO scroll_summaries (
				scroll_id, run_id, scroll_index, implicit, frame_count, delayed_frame_count,
				vsyncs, missed_vsyncs, max_missed_vsyncs
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID.String(), runID.String(), s.Index, boolToInt(s.Implicit),
			s.Summary.FrameCount, s.Summary.DelayedFrameCount, s.Summary.Vsyncs,
			s.Summary.MissedVsyncs, s.Summary.MaxMissedVsyncs,
		); err != nil {
			return fmt.Errorf("insert scroll %d: %w", s.Index, err)
		}
	}

	return tx.Commit()
}

// RunResult loads the outcomes stored by SaveResult. Frames whose V4
// verdict was recorded get a V4Result back.
func (db *DB) RunResult(runID uuid.UUID) (*trace.Result, error) {
	result := &trace.Result{}

	rows, err := db.Query(`
		SELECT frame_index, trace_line, scroll_index, presentation_us, skipped, janky_v1,
		       has_v4, vsyncs_since_previous_frame,
		       missed_decelerating, missed_fast_scroll, missed_start_of_fling, missed_during_fling,
		       running_cutoff_us, adjusted_cutoff_us, current_cutoff_us,
		       abs_delta_px, max_abs_inertial_delta_px
		FROM frame_results
		WHERE run_id = ?
		ORDER BY frame_index`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("query frames: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			f                           trace.FrameOutcome
			presentationUs              int64
			hasV4                       bool
			v4                          scrolljank.V4Result
			running, adjusted, current  int64
			decel, fast, startOf, fling int
		)
		if err := rows.Scan(
			&f.Index, &f.Line, &f.ScrollIndex, &presentationUs, &f.Skipped, &f.JankyV1,
			&hasV4, &v4.VsyncsSincePreviousFrame,
			&decel, &fast, &startOf, &fling,
			&running, &adjusted, &current,
			&v4.AbsTotalRawDeltaPixels, &v4.MaxAbsInertialRawDeltaPixels,
		); err != nil {
			return nil, err
		}
		f.PresentationTs = scrolljank.TicksFromMicros(presentationUs)
		if f.Skipped {
			result.Skipped++
		}
		if hasV4 {
			v4.MissedVsyncsPerReason[scrolljank.MissedVsyncDueToDeceleratingInputFrameDelivery] = decel
			v4.MissedVsyncsPerReason[scrolljank.MissedVsyncDuringFastScroll] = fast
			v4.MissedVsyncsPerReason[scrolljank.MissedVsyncAtStartOfFling] = startOf
			v4.MissedVsyncsPerReason[scrolljank.MissedVsyncDuringFling] = fling
			v4.RunningDeliveryCutoff = time.Duration(running) * time.Microsecond
			v4.AdjustedDeliveryCutoff = time.Duration(adjusted) * time.Microsecond
			v4.CurrentDeliveryCutoff = time.Duration(current) * time.Microsecond
			f.V4 = &v4
		}
		result.Frames = append(result.Frames, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	scrolls, err := db.Query(`
		SELECT scroll_id, scroll_index, implicit, frame_count, delayed_frame_count,
		       vsyncs, missed_vsyncs, max_missed_vsyncs
		FROM scroll_summaries
		WHERE run_id = ?
		ORDER BY scroll_index`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("query scrolls: %w", err)
	}
	defer scrolls.Close()

	for scrolls.Next() {
		var (
			s  trace.ScrollOutcome
			id string
		)
		if err := scrolls.Scan(&id, &s.Index, &s.Implicit, &s.Summary.FrameCount,
			&s.Summary.DelayedFrameCount, &s.Summary.Vsyncs, &s.Summary.MissedVsyncs,
			&s.Summary.MaxMissedVsyncs); err != nil {
			return nil, err
		}
		if s.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("scroll %q: %w", id, err)
		}
		result.Scrolls = append(result.Scrolls, &s)
	}
	return result, scrolls.Err()
}

// InsertHistogramSample stores one sample recorded during a run.
func (db *DB) InsertHistogramSample(runID uuid.UUID, name string, layout metrics.Layout, sample int) error {
	return retryOnBusy(func() error {
		_, err := db.Exec(`
			INSERT INTO histogram_samples (run_id, name, kind, sample, bucket_min, bucket_max, bucket_count)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID.String(), name, layout.Kind.String(), sample, layout.Min, layout.Max, layout.BucketCount(),
		)
		return err
	})
}

// RunHistograms replays the samples stored for a run into a Recorder.
func (db *DB) RunHistograms(runID uuid.UUID) (*metrics.Recorder, error) {
	rows, err := db.Query(`
		SELECT name, kind, sample, bucket_min, bucket_max, bucket_count
		FROM histogram_samples
		WHERE run_id = ?
		ORDER BY sample_id`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("query histogram samples: %w", err)
	}
	defer rows.Close()

	rec := metrics.NewRecorder()
	for rows.Next() {
		var (
			name, kind               string
			sample, min, max, counts int
		)
		if err := rows.Scan(&name, &kind, &sample, &min, &max, &counts); err != nil {
			return nil, err
		}
		switch kind {
		case metrics.KindPercentage.String():
			rec.RecordPercentage(name, sample)
		case metrics.KindCount.String():
			rec.RecordCount(name, sample)
		case metrics.KindCustomCounts.String():
			rec.RecordCustomCounts(name, sample, min, max, counts)
		default:
			return nil, fmt.Errorf("histogram %s: unknown kind %q", name, kind)
		}
	}
	return rec, rows.Err()
}

// DeleteRun removes a run and everything stored under it.
func (db *DB) DeleteRun(runID uuid.UUID) error {
	res, err := db.Exec(`DELETE FROM replay_runs WHERE run_id = ?`, runID.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRunNotFound
	}
	return nil
}
