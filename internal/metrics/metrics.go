package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventWritesDropped counts event-log writes swallowed by the
	// never-block failure policy, partitioned by whether the failure was
	// queued for reprocessing.
	EventWritesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventlog_writes_dropped_total",
		Help: "Event log writes that failed and were dropped from the hot path",
	}, []string{"retryable"})

	// PayloadsExternalized counts payloads written to blob storage instead
	// of inline.
	PayloadsExternalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventlog_payloads_externalized_total",
		Help: "Event payloads stored in blob storage due to size",
	})

	// ReprocessEnqueued counts retryable failures handed to the
	// reprocessing queue.
	ReprocessEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventlog_reprocess_enqueued_total",
		Help: "Failed event writes enqueued for asynchronous reprocessing",
	})

	// ReprocessReplays counts reprocessor write replays by outcome.
	ReprocessReplays = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventlog_reprocess_replays_total",
		Help: "Reprocessed event write attempts",
	}, []string{"outcome"})
)
