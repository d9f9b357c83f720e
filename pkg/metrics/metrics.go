// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// WebhookEventsTotal tracks webhook change notifications by outcome.
	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Webhook change notifications processed",
		},
		[]string{"kind", "outcome"},
	)

	// MessagesTotal tracks messages recorded in conversation history.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_total",
			Help: "Messages recorded, by business and direction",
		},
		[]string{"business_id", "direction"},
	)

	// RepliesTotal tracks automated reply generation outcomes.
	RepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_replies_total",
			Help: "Automated reply generation outcomes",
		},
		[]string{"provider", "outcome"},
	)

	// ReplyDuration tracks reply generation latency.
	ReplyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_reply_duration_seconds",
			Help:    "Automated reply generation duration",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider"},
	)

	// ProviderSendsTotal tracks outbound provider sends.
	ProviderSendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_sends_total",
			Help: "Outbound WhatsApp send attempts",
		},
		[]string{"outcome"},
	)

	// BroadcastRecipientsTotal tracks per-recipient broadcast outcomes.
	BroadcastRecipientsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_recipients_total",
			Help: "Broadcast recipient delivery outcomes",
		},
		[]string{"outcome"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordReply records metrics for a reply generation attempt.
func RecordReply(provider, outcome string, duration float64) {
	RepliesTotal.WithLabelValues(provider, outcome).Inc()
	ReplyDuration.WithLabelValues(provider).Observe(duration)
}
