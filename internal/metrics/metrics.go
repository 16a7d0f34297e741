// Package metrics exposes Prometheus instrumentation for the booking engine.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	messagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salon_booking",
			Name:      "messages_processed_total",
			Help:      "Inbound messages processed by conversation outcome.",
		},
		[]string{"outcome"},
	)

	sessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salon_booking",
			Name:      "sessions_started_total",
			Help:      "Count of conversation sessions created.",
		},
	)

	sessionsExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salon_booking",
			Name:      "sessions_expired_total",
			Help:      "Count of sessions replaced after idle timeout.",
		},
	)

	retriesExhausted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salon_booking",
			Name:      "retries_exhausted_total",
			Help:      "Sessions destroyed after exceeding the retry budget, by state.",
		},
		[]string{"state"},
	)

	appointmentsCommitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salon_booking",
			Name:      "appointments_committed_total",
			Help:      "Cart items successfully persisted as appointments.",
		},
	)

	sendFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salon_booking",
			Name:      "send_failures_total",
			Help:      "Outbound messages the gateway failed to deliver.",
		},
	)
)

// Register registers all collectors (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			messagesProcessed,
			sessionsStarted,
			sessionsExpired,
			retriesExhausted,
			appointmentsCommitted,
			sendFailures,
		)
	})
}

func IncMessagesProcessed(outcome string) { messagesProcessed.WithLabelValues(outcome).Inc() }
func IncSessionsStarted()                 { sessionsStarted.Inc() }
func IncSessionsExpired()                 { sessionsExpired.Inc() }
func IncRetriesExhausted(state string)    { retriesExhausted.WithLabelValues(state).Inc() }
func IncAppointmentsCommitted()           { appointmentsCommitted.Inc() }
func IncSendFailure()                     { sendFailures.Inc() }
