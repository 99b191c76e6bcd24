package metrics

import (
	"fmt"
	"sort"
	"sync"
)

// Histogram is the recorded state of one named histogram.
type Histogram struct {
	Name    string
	Layout  Layout
	Samples []int
}

// Buckets returns the populated buckets of h in ascending order.
func (h *Histogram) Buckets() []Bucket {
	counts := make(map[int]int)
	for _, s := range h.Samples {
		counts[h.Layout.BucketIndex(s)]++
	}
	idx := make([]int, 0, len(counts))
	for i := range counts {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	out := make([]Bucket, 0, len(idx))
	for _, i := range idx {
		out = append(out, Bucket{Min: h.Layout.Ranges[i], Max: h.Layout.Ranges[i+1], Count: counts[i]})
	}
	return out
}

// Recorder is an in-memory Sink. It keeps every sample so callers can
// inspect exact values as well as bucket counts. It is safe for concurrent
// use.
type Recorder struct {
	mu         sync.Mutex
	histograms map[string]*Histogram
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{histograms: make(map[string]*Histogram)}
}

func (r *Recorder) record(name string, layout func() Layout, sample int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.histograms[name]
	if !ok {
		h = &Histogram{Name: name, Layout: layout()}
		r.histograms[name] = h
	}
	h.Samples = append(h.Samples, sample)
}

// RecordPercentage implements Sink.
func (r *Recorder) RecordPercentage(name string, sample int) {
	r.record(name, PercentageLayout, sample)
}

// RecordCustomCounts implements Sink. The layout of a histogram is fixed by
// its first sample.
func (r *Recorder) RecordCustomCounts(name string, sample, min, max, buckets int) {
	r.record(name, func() Layout { return ExponentialLayout(min, max, buckets) }, sample)
}

// RecordCount implements Sink.
func (r *Recorder) RecordCount(name string, sample int) {
	r.record(name, CountLayout, sample)
}

// CountLayout is the layout used by RecordCount.
func CountLayout() Layout {
	l := ExponentialLayout(CountsMin, CountsMax, CountsBuckets)
	l.Kind = KindCount
	return l
}

// Samples returns a copy of the raw samples recorded under name, in
// recording order.
func (r *Recorder) Samples(name string) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.histograms[name]
	if !ok {
		return nil
	}
	return append([]int(nil), h.Samples...)
}

// TotalCount returns how many samples were recorded under name.
func (r *Recorder) TotalCount(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.histograms[name]; ok {
		return len(h.Samples)
	}
	return 0
}

// BucketCount returns how many samples recorded under name fall into the
// bucket that holds sample.
func (r *Recorder) BucketCount(name string, sample int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.histograms[name]
	if !ok {
		return 0
	}
	want := h.Layout.BucketIndex(sample)
	n := 0
	for _, s := range h.Samples {
		if h.Layout.BucketIndex(s) == want {
			n++
		}
	}
	return n
}

// UniqueSample returns the single value recorded under name. It fails if the
// histogram is empty or holds more than one distinct value.
func (r *Recorder) UniqueSample(name string) (int, error) {
	samples := r.Samples(name)
	if len(samples) == 0 {
		return 0, fmt.Errorf("histogram %q has no samples", name)
	}
	for _, s := range samples[1:] {
		if s != samples[0] {
			return 0, fmt.Errorf("histogram %q has distinct samples %v", name, samples)
		}
	}
	return samples[0], nil
}

// Names returns the names of all histograms with samples, sorted.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.histograms))
	for name := range r.histograms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a deep copy of every histogram, sorted by name.
func (r *Recorder) Snapshot() []Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Histogram, 0, len(r.histograms))
	for _, h := range r.histograms {
		out = append(out, Histogram{
			Name:    h.Name,
			Layout:  h.Layout,
			Samples: append([]int(nil), h.Samples...),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Reset discards everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.histograms = make(map[string]*Histogram)
}
