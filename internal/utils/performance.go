// Package utils holds small helpers shared by clients and handlers.
package utils

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/finsight/internal/metrics"
)

// SlowCallThreshold is the duration above which an upstream call is
// logged as slow.
const SlowCallThreshold = 5 * time.Second

// Timer measures one upstream operation
type Timer struct {
	start    time.Time
	provider string
	op       string
	log      zerolog.Logger
}

// NewTimer starts timing op against provider
func NewTimer(provider, op string, log zerolog.Logger) *Timer {
	return &Timer{
		start:    time.Now(),
		provider: provider,
		op:       op,
		log:      log,
	}
}

// Stop records the elapsed time in metrics.UpstreamDuration and returns it.
// Calls slower than SlowCallThreshold are logged at warn.
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)
	metrics.UpstreamDuration.WithLabelValues(t.provider, t.op).Observe(duration.Seconds())

	if duration > SlowCallThreshold {
		t.log.Warn().
			Str("provider", t.provider).
			Str("operation", t.op).
			Dur("duration", duration).
			Msg("Slow upstream call")
	} else {
		t.log.Debug().
			Str("provider", t.provider).
			Str("operation", t.op).
			Dur("duration_ms", duration).
			Msg("Upstream call finished")
	}

	return duration
}
