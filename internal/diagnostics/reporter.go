package diagnostics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Reporter captures exceptions for out-of-band diagnostics. The event-log
// write path reports every failure here regardless of whether it was
// retryable.
type Reporter interface {
	Report(ctx context.Context, err error, fields ...zap.Field)
}

var reportedErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "diagnostics_reported_errors_total",
	Help: "Errors reported to the diagnostics collaborator",
})

type zapReporter struct {
	log *zap.Logger
}

// New creates a Reporter backed by structured logging and an error counter.
func New(log *zap.Logger) Reporter {
	return &zapReporter{log: log}
}

func (r *zapReporter) Report(_ context.Context, err error, fields ...zap.Field) {
	reportedErrors.Inc()
	r.log.Error("Reported error", append([]zap.Field{zap.Error(err)}, fields...)...)
}
