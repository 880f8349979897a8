package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	cascadeCommits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cascade_commits_total",
			Help: "Lead mutations committed or rejected by the store",
		},
		[]string{"result"},
	)

	appointmentsMirrored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cascade_appointments_mirrored_total",
			Help: "Appointment documents rewritten by lead cascades",
		},
	)

	candidateTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "candidate_transitions_total",
			Help: "Recruiting pipeline transitions by target status",
		},
		[]string{"to", "result"},
	)

	outboundMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbound_messages_total",
			Help: "Messages handed to the messaging gateway",
		},
		[]string{"driver", "result"},
	)

	sideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "side_effect_failures_total",
			Help: "Audit, notification or messaging failures after a committed write",
		},
		[]string{"kind"},
	)
)

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

func RecordCascadeCommit(ok bool, appointments int) {
	cascadeCommits.WithLabelValues(result(ok)).Inc()
	if ok {
		appointmentsMirrored.Add(float64(appointments))
	}
}

func RecordTransition(to string, ok bool) {
	candidateTransitions.WithLabelValues(to, result(ok)).Inc()
}

func RecordOutboundMessage(driver string, ok bool) {
	outboundMessages.WithLabelValues(driver, result(ok)).Inc()
}

func RecordSideEffectFailure(kind string) {
	sideEffectFailures.WithLabelValues(kind).Inc()
}
