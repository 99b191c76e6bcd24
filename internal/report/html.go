// Package report renders replay results as an HTML dashboard (go-echarts)
// and as static PNG plots (gonum/plot).
package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/jank.report/internal/metrics"
	"github.com/banshee-data/jank.report/internal/scrolljank"
	"github.com/banshee-data/jank.report/internal/trace"
)

// AssetsHost is where the rendered page loads the echarts scripts from.
var AssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// shortReasonNames label the V4 reasons on chart axes.
var shortReasonNames = [scrolljank.NumJankReasons]string{
	"decelerating",
	"fast scroll",
	"start of fling",
	"during fling",
}

// WriteHTML renders res and the recorded histograms as a single HTML page
// on w. hists may be nil.
func WriteHTML(w io.Writer, title string, res *trace.Result, hists []metrics.Histogram) error {
	if res == nil {
		return fmt.Errorf("report: nil result")
	}

	page := components.NewPage()
	page.SetAssetsHost(AssetsHost)
	page.PageTitle = title
	page.AddCharts(frameChart(title, res), reasonChart(res), scrollChart(res))
	for _, h := range hists {
		if len(h.Samples) == 0 {
			continue
		}
		page.AddCharts(histogramChart(h))
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// frameChart plots the vsyncs each presented frame missed, per algorithm.
func frameChart(title string, res *trace.Result) *charts.Line {
	x := make([]int, 0, len(res.Frames))
	v1 := make([]opts.LineData, 0, len(res.Frames))
	v4 := make([]opts.LineData, 0, len(res.Frames))
	for _, f := range res.Frames {
		if f.Skipped {
			continue
		}
		x = append(x, f.Index)
		janky := 0
		if f.JankyV1 {
			janky = 1
		}
		v1 = append(v1, opts.LineData{Value: janky})
		missed := 0
		if f.V4 != nil {
			missed = f.V4.MissedVsyncs()
		}
		v4 = append(v4, opts.LineData{Value: missed})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "480px", AssetsHost: AssetsHost}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Missed vsyncs per frame",
			Subtitle: fmt.Sprintf("frames=%d skipped=%d janky v1=%d janky v4=%d", len(res.Frames), res.Skipped, res.JankyV1Count(), res.JankyV4Count()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frame", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Vsyncs", NameLocation: "middle", NameGap: 30}),
	)
	line.SetXAxis(x).
		AddSeries("janky (v1)", v1).
		AddSeries("missed vsyncs (v4)", v4)
	return line
}

// reasonChart totals the V4 missed vsyncs attributed to each reason.
func reasonChart(res *trace.Result) *charts.Bar {
	var totals scrolljank.JankReasonArray
	for _, f := range res.Frames {
		if f.V4 == nil {
			continue
		}
		for i, n := range f.V4.MissedVsyncsPerReason {
			totals[i] += n
		}
	}

	x := make([]string, 0, scrolljank.NumJankReasons)
	y := make([]opts.BarData, 0, scrolljank.NumJankReasons)
	for _, r := range scrolljank.AllJankReasons() {
		x = append(x, shortReasonNames[r])
		y = append(y, opts.BarData{Value: totals[r], Name: r.String()})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "360px", AssetsHost: AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: "Missed vsyncs by reason (v4)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("missed vsyncs", y,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)
	return bar
}

// scrollChart shows the share of delayed frames in each scroll.
func scrollChart(res *trace.Result) *charts.Bar {
	x := make([]string, 0, len(res.Scrolls))
	y := make([]opts.BarData, 0, len(res.Scrolls))
	for _, s := range res.Scrolls {
		label := fmt.Sprintf("scroll %d", s.Index)
		if s.Implicit {
			label += "*"
		}
		x = append(x, label)
		y = append(y, opts.BarData{Value: s.Summary.DelayedFramePercentage()})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "360px", AssetsHost: AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: "Delayed frames per scroll (%)", Subtitle: "* scroll opened implicitly"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 100}),
	)
	bar.SetXAxis(x).AddSeries("delayed %", y,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)
	return bar
}

// histogramChart draws the populated buckets of h.
func histogramChart(h metrics.Histogram) *charts.Bar {
	buckets := h.Buckets()
	x := make([]string, 0, len(buckets))
	y := make([]opts.BarData, 0, len(buckets))
	for _, b := range buckets {
		x = append(x, fmt.Sprintf("[%d,%d)", b.Min, b.Max))
		y = append(y, opts.BarData{Value: b.Count})
	}
	s := metrics.Summarize(h)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "320px", AssetsHost: AssetsHost}),
		charts.WithTitleOpts(opts.Title{
			Title:    h.Name,
			Subtitle: fmt.Sprintf("%s n=%d mean=%.2f p50=%g p95=%g max=%g", h.Layout.Kind, s.Count, s.Mean, s.P50, s.P95, s.Max),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("samples", y)
	return bar
}
