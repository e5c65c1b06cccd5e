// Package metrics holds the prometheus collectors for process gateway and
// indexer traffic. Collectors are always updated; exposing them is up to the
// caller through Register.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/xerrors"
)

const (
	namespace = "permaweb"

	StatusOk    = "ok"
	StatusError = "error"
)

var (
	GatewayOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "operations_total",
		Help:      "Process gateway operations by operation and status.",
	}, []string{"operation", "status"})

	GatewayDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "operation_duration_seconds",
		Help:      "Latency of process gateway operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	PollAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "poll_attempts_total",
		Help:      "Attempts made by polling loops.",
	}, []string{"operation"})

	GQLRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "gql",
		Name:      "requests_total",
		Help:      "Indexer GraphQL requests by kind and status.",
	}, []string{"kind", "status"})

	GQLDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "gql",
		Name:      "request_duration_seconds",
		Help:      "Latency of indexer GraphQL requests.",
		Buckets:   prometheus.DefBuckets,
	})
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{GatewayOperations, GatewayDuration, PollAttempts, GQLRequests, GQLDuration}
}

// Register adds every collector to reg. Collectors already registered are skipped.
func Register(reg prometheus.Registerer) error {
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if xerrors.As(err, &are) {
				continue
			}
			return xerrors.Errorf("register collector: %w", err)
		}
	}
	return nil
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOk
}

// ObserveGateway records one gateway operation that started at start.
func ObserveGateway(operation string, start time.Time, err error) {
	GatewayOperations.WithLabelValues(operation, status(err)).Inc()
	GatewayDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func ObserveGQL(kind string, start time.Time, err error) {
	GQLRequests.WithLabelValues(kind, status(err)).Inc()
	GQLDuration.Observe(time.Since(start).Seconds())
}
