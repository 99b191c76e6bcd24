package metrics

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of a histogram's raw samples.
type Summary struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
	Max    float64 `json:"max"`
}

// Summarize computes a Summary of h. An empty histogram yields a zero
// Summary carrying only the name.
func Summarize(h Histogram) Summary {
	s := Summary{Name: h.Name, Count: len(h.Samples)}
	if s.Count == 0 {
		return s
	}

	x := make([]float64, len(h.Samples))
	for i, v := range h.Samples {
		x[i] = float64(v)
	}
	sort.Float64s(x)

	s.Mean = stat.Mean(x, nil)
	if s.Count > 1 {
		s.StdDev = stat.StdDev(x, nil)
	}
	s.Min = floats.Min(x)
	s.Max = floats.Max(x)
	s.P50 = stat.Quantile(0.5, stat.Empirical, x, nil)
	s.P95 = stat.Quantile(0.95, stat.Empirical, x, nil)
	return s
}

// SummarizeAll summarizes every histogram in hs, preserving order.
func SummarizeAll(hs []Histogram) []Summary {
	out := make([]Summary, 0, len(hs))
	for _, h := range hs {
		out = append(out, Summarize(h))
	}
	return out
}
