package metrics

import "github.com/banshee-data/jank.report/internal/monitoring"

// LogSink writes one line per sample. A nil Logf writes through
// monitoring.Logf.
type LogSink struct {
	Logf func(format string, v ...interface{})
}

func (s LogSink) logf(format string, v ...interface{}) {
	if s.Logf != nil {
		s.Logf(format, v...)
		return
	}
	monitoring.Logf(format, v...)
}

// RecordPercentage implements Sink.
func (s LogSink) RecordPercentage(name string, sample int) {
	s.logf("histogram %s: %d%%", name, sample)
}

// RecordCustomCounts implements Sink.
func (s LogSink) RecordCustomCounts(name string, sample, min, max, buckets int) {
	s.logf("histogram %s: %d (range %d..%d, %d buckets)", name, sample, min, max, buckets)
}

// RecordCount implements Sink.
func (s LogSink) RecordCount(name string, sample int) {
	s.logf("histogram %s: %d", name, sample)
}
