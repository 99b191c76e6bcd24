package db

import (
	"github.com/google/uuid"

	"github.com/banshee-data/jank.report/internal/metrics"
	"github.com/banshee-data/jank.report/internal/monitoring"
)

// SampleSink is a metrics.Sink that stores every sample under one run.
// Sinks cannot report errors, so failed inserts are logged through
// monitoring and the sample is dropped.
type SampleSink struct {
	db    *DB
	runID uuid.UUID
}

// NewSampleSink returns a sink writing to the run runID, which must already
// exist.
func NewSampleSink(db *DB, runID uuid.UUID) *SampleSink {
	return &SampleSink{db: db, runID: runID}
}

func (s *SampleSink) insert(name string, layout metrics.Layout, sample int) {
	monitoring.LogError("store histogram sample "+name, s.db.InsertHistogramSample(s.runID, name, layout, sample))
}

// RecordPercentage implements metrics.Sink.
func (s *SampleSink) RecordPercentage(name string, sample int) {
	s.insert(name, metrics.PercentageLayout(), sample)
}

// RecordCustomCounts implements metrics.Sink.
func (s *SampleSink) RecordCustomCounts(name string, sample, min, max, buckets int) {
	s.insert(name, metrics.ExponentialLayout(min, max, buckets), sample)
}

// RecordCount implements metrics.Sink.
func (s *SampleSink) RecordCount(name string, sample int) {
	s.insert(name, metrics.CountLayout(), sample)
}
