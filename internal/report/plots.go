package report

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/jank.report/internal/monitoring"
	"github.com/banshee-data/jank.report/internal/trace"
)

// Plot file names written by SavePlots.
const (
	MissedVsyncsPlot   = "missed_vsyncs.png"
	DeliveryCutoffPlot = "delivery_cutoff.png"
)

// frameSeries holds the per-frame points SavePlots draws.
type frameSeries struct {
	missed, janky              plotter.XYs
	running, adjusted, current plotter.XYs
}

// collectSeries extracts the plotted points from res. The adjusted cutoff
// only exists for frames presented more than one vsync after the previous
// frame, so other frames contribute no adjusted point.
func collectSeries(res *trace.Result) frameSeries {
	var s frameSeries
	for _, f := range res.Frames {
		if f.Skipped {
			continue
		}
		x := float64(f.Index)
		if f.JankyV1 {
			s.janky = append(s.janky, plotter.XY{X: x, Y: 0})
		}
		if f.V4 == nil {
			continue
		}
		s.missed = append(s.missed, plotter.XY{X: x, Y: float64(f.V4.MissedVsyncs())})
		if !f.V4.HasPreviousFrame() {
			continue
		}
		s.running = append(s.running, plotter.XY{X: x, Y: ms(f.V4.RunningDeliveryCutoff.Microseconds())})
		if f.V4.VsyncsSincePreviousFrame > 1 {
			s.adjusted = append(s.adjusted, plotter.XY{X: x, Y: ms(f.V4.AdjustedDeliveryCutoff.Microseconds())})
		}
		s.current = append(s.current, plotter.XY{X: x, Y: ms(f.V4.CurrentDeliveryCutoff.Microseconds())})
	}
	return s
}

// SavePlots writes PNG plots of res into dir, creating it if needed, and
// returns the paths written. Results without presented frames produce no
// plots; results without V4 verdicts get only the V1 janky frames.
func SavePlots(dir string, res *trace.Result) ([]string, error) {
	if res == nil {
		return nil, fmt.Errorf("report: nil result")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create plot directory: %w", err)
	}
	s := collectSeries(res)

	var written []string
	if len(s.missed) > 0 || len(s.janky) > 0 {
		p := newPlot("Missed vsyncs per frame", "Frame", "Vsyncs")
		if len(s.missed) > 0 {
			if err := addLine(p, 0, "missed (v4)", s.missed); err != nil {
				return written, err
			}
		}
		if len(s.janky) > 0 {
			if err := addScatter(p, 1, "janky (v1)", s.janky); err != nil {
				return written, err
			}
		}
		path := filepath.Join(dir, MissedVsyncsPlot)
		if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
			return written, fmt.Errorf("failed to save %s: %w", path, err)
		}
		written = append(written, path)
	}

	if len(s.running) > 0 {
		p := newPlot("Delivery cutoffs (v4)", "Frame", "Cutoff (ms)")
		if err := addLine(p, 0, "running", s.running); err != nil {
			return written, err
		}
		if len(s.adjusted) > 0 {
			if err := addScatter(p, 1, "adjusted", s.adjusted); err != nil {
				return written, err
			}
		}
		if err := addLine(p, 2, "current", s.current); err != nil {
			return written, err
		}
		path := filepath.Join(dir, DeliveryCutoffPlot)
		if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
			return written, fmt.Errorf("failed to save %s: %w", path, err)
		}
		written = append(written, path)
	}

	monitoring.Logf("Wrote %d plot(s) to %s", len(written), dir)
	return written, nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p
}

func addLine(p *plot.Plot, i int, name string, pts plotter.XYs) error {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("%s line: %w", name, err)
	}
	line.Color = plotutil.Color(i)
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

func addScatter(p *plot.Plot, i int, name string, pts plotter.XYs) error {
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("%s scatter: %w", name, err)
	}
	sc.Color = plotutil.Color(i)
	sc.Shape = plotutil.Shape(i)
	p.Add(sc)
	p.Legend.Add(name, sc)
	return nil
}

func ms(us int64) float64 { return float64(us) / 1000 }
