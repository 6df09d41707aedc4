package repository

import (
	"time"

	"github.com/recruitflow/recruitflow-backend/internal/pkg/metrics"
)

// QueryRecorder counts store queries; satisfied by *perf.Collector.
type QueryRecorder interface {
	RecordQuery()
}

// instrumentQuery wraps a database query with timing metrics and the
// performance layer's query counter.
func instrumentQuery(rec QueryRecorder, operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	duration := time.Since(start).Seconds()

	metrics.DBQueryDurationSeconds.WithLabelValues(operation).Observe(duration)
	if rec != nil {
		rec.RecordQuery()
	}
	return err
}
