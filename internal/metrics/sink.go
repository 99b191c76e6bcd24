// Package metrics records histogram samples emitted by the scroll jank
// tracker. A Sink is fire-and-forget: recording never returns an error and
// never blocks on a slow consumer.
package metrics

// Sink receives metric samples.
type Sink interface {
	// RecordPercentage records a value in [0, 100] into a linear histogram.
	RecordPercentage(name string, sample int)
	// RecordCustomCounts records a value into an exponentially bucketed
	// histogram with the given layout.
	RecordCustomCounts(name string, sample, min, max, buckets int)
	// RecordCount records a value into the default 1..1e6 count histogram.
	RecordCount(name string, sample int)
}

// Layout of the histogram used by RecordCount.
const (
	CountsMin     = 1
	CountsMax     = 1000000
	CountsBuckets = 50
)

// Discard is a Sink that drops every sample.
var Discard Sink = discard{}

type discard struct{}

func (discard) RecordPercentage(string, int)                  {}
func (discard) RecordCustomCounts(string, int, int, int, int) {}
func (discard) RecordCount(string, int)                       {}

// Multi returns a Sink that forwards every sample to each of sinks in order.
// Nil sinks are skipped.
func Multi(sinks ...Sink) Sink {
	var out multiSink
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type multiSink []Sink

func (m multiSink) RecordPercentage(name string, sample int) {
	for _, s := range m {
		s.RecordPercentage(name, sample)
	}
}

func (m multiSink) RecordCustomCounts(name string, sample, min, max, buckets int) {
	for _, s := range m {
		s.RecordCustomCounts(name, sample, min, max, buckets)
	}
}

func (m multiSink) RecordCount(name string, sample int) {
	for _, s := range m {
		s.RecordCount(name, sample)
	}
}
