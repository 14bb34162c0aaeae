// Package metrics exposes Prometheus counters for the matching and chat flows.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MatchRequestsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomie_match_requests_sent_total",
		Help: "Match requests created or re-opened.",
	})

	MatchResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomie_match_responses_total",
		Help: "Match request responses by action.",
	}, []string{"action"})

	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomie_messages_sent_total",
		Help: "Chat messages stored.",
	})

	OutboxPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomie_outbox_events_total",
		Help: "Outbox relay results by outcome.",
	}, []string{"outcome"})

	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomie_rate_limited_total",
		Help: "Requests rejected by the rate limiter.",
	}, []string{"route"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roomie_ws_connections",
		Help: "Open WebSocket connections.",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
