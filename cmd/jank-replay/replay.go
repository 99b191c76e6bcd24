package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/banshee-data/jank.report/internal/config"
	"github.com/banshee-data/jank.report/internal/db"
	"github.com/banshee-data/jank.report/internal/metrics"
	"github.com/banshee-data/jank.report/internal/report"
	"github.com/banshee-data/jank.report/internal/scrolljank"
	"github.com/banshee-data/jank.report/internal/trace"
)

// Summary is the JSON document written by -json.
type Summary struct {
	Trace      string            `json:"trace"`
	RunID      *uuid.UUID        `json:"run_id,omitempty"`
	Frames     int               `json:"frames"`
	Skipped    int               `json:"skipped"`
	JankyV1    int               `json:"janky_v1"`
	JankyV4    int               `json:"janky_v4"`
	Histograms []metrics.Summary `json:"histograms"`
	Result     *trace.Result     `json:"result"`
}

func loadTuning(path string) (*config.TuningConfig, error) {
	if path == "" {
		return config.EmptyTuningConfig(), nil
	}
	return config.LoadTuningConfig(path)
}

// dropIncompleteRun removes a run whose replay failed before its results
// were stored, along with any histogram samples already written for it.
// Left in place it would read as a replay of an empty trace.
func dropIncompleteRun(database *db.DB, id uuid.UUID) {
	if err := database.DeleteRun(id); err != nil {
		log.Printf("failed to remove incomplete run %s: %v", id, err)
		return
	}
	log.Printf("Removed incomplete run %s", id)
}

// runReplay replays cfg.TracePath and writes the summary table to out.
// SIGINT and SIGTERM stop the replay.
func runReplay(cfg Config, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return replay(ctx, cfg, out)
}

func replay(ctx context.Context, cfg Config, out io.Writer) error {
	tuning, err := loadTuning(cfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load tuning config: %w", err)
	}
	records, err := trace.ReadFile(cfg.TracePath)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		scrolljank.SetLogWriters(os.Stderr, os.Stderr, os.Stderr)
	} else {
		scrolljank.SetLogWriters(os.Stderr, nil, nil)
	}

	rec := metrics.NewRecorder()
	sinks := []metrics.Sink{rec}
	if cfg.Verbose {
		sinks = append(sinks, metrics.LogSink{})
	}

	var (
		database *db.DB
		run      *db.Run
		stored   bool
	)
	if cfg.DBPath != "" {
		database, err = db.NewDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		configJSON, err := json.Marshal(tuning)
		if err != nil {
			return fmt.Errorf("failed to encode tuning config: %w", err)
		}
		run = &db.Run{Source: cfg.TracePath, ConfigJSON: string(configJSON)}
		if err := database.InsertRun(run); err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		defer func() {
			if !stored {
				dropIncompleteRun(database, run.ID)
			}
		}()
		sinks = append(sinks, db.NewSampleSink(database, run.ID))
	}
	sink := metrics.Multi(sinks...)

	tracker, err := scrolljank.NewTracker(scrolljank.TrackerConfigFromTuning(tuning), sink)
	if err != nil {
		return err
	}

	res, err := trace.Replay(ctx, tracker, records, trace.Options{
		DefaultVsyncInterval: tuning.GetDefaultVsyncInterval(),
		Sink:                 sink,
		ProgressEvery:        cfg.ProgressEvery,
	})
	if err != nil {
		return err
	}

	if database != nil {
		if err := database.SaveResult(run.ID, res); err != nil {
			return fmt.Errorf("failed to store results: %w", err)
		}
		stored = true
		log.Printf("Stored run %s in %s", run.ID, cfg.DBPath)
	}

	hists := rec.Snapshot()
	summaries := metrics.SummarizeAll(hists)
	if err := writeSummaryTable(out, res, summaries); err != nil {
		return err
	}

	if cfg.JSONPath != "" {
		s := Summary{
			Trace:      cfg.TracePath,
			Frames:     len(res.Frames),
			Skipped:    res.Skipped,
			JankyV1:    res.JankyV1Count(),
			JankyV4:    res.JankyV4Count(),
			Histograms: summaries,
			Result:     res,
		}
		if run != nil {
			s.RunID = &run.ID
		}
		if err := writeJSON(cfg.JSONPath, s); err != nil {
			return err
		}
	}
	if cfg.HTMLPath != "" {
		if err := writeHTML(cfg.HTMLPath, cfg.TracePath, res, hists); err != nil {
			return err
		}
	}
	if cfg.PlotDir != "" {
		if _, err := report.SavePlots(cfg.PlotDir, res); err != nil {
			return err
		}
	}
	return nil
}

func writeSummaryTable(out io.Writer, res *trace.Result, summaries []metrics.Summary) error {
	fmt.Fprintf(out, "Frames: %d (skipped %d)  Scrolls: %d  Janky V1: %d  Janky V4: %d\n\n",
		len(res.Frames), res.Skipped, len(res.Scrolls), res.JankyV1Count(), res.JankyV4Count())

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "HISTOGRAM\tCOUNT\tMEAN\tP50\tP95\tMAX")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%g\t%g\t%g\n", s.Name, s.Count, s.Mean, s.P50, s.P95, s.Max)
	}
	return tw.Flush()
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func writeHTML(path, title string, res *trace.Result, hists []metrics.Histogram) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := report.WriteHTML(f, title, res, hists); err != nil {
		return err
	}
	return f.Close()
}
