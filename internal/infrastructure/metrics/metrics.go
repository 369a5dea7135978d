package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	domainerrors "hgigs.backend/internal/domain/errors"
)

const namespace = "hgigs"

var (
	// EngineOperations counts engine calls by operation and outcome (ok or error kind).
	EngineOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "engine_operations_total",
		Help:      "Escrow engine operations by outcome.",
	}, []string{"operation", "result"})

	// Settlements counts released payments by release path.
	Settlements = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settlements_total",
		Help:      "Escrow payments released, by release method.",
	}, []string{"method"})

	// EventsPublished counts relayed market events by outcome.
	EventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Market events handed to the broker.",
	}, []string{"result"})

	// HTTPRequestDuration observes request latency by route.
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

var registerOnce sync.Once

// Register adds all collectors to reg. Later calls are no-ops.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(EngineOperations, Settlements, EventsPublished, HTTPRequestDuration)
	})
}

// ObserveOperation records the outcome of one engine operation.
func ObserveOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = domainerrors.Kind(err)
	}
	EngineOperations.WithLabelValues(operation, result).Inc()
}
