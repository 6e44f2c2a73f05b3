package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "messenger_messages_sent_total",
		Help: "Messages appended successfully.",
	})

	// PartialWrites counts sends where the message row committed but the
	// conversation summary update failed. Non-zero means summary drift.
	PartialWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "messenger_partial_writes_total",
		Help: "Appends whose conversation summary update failed.",
	})

	ConversationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "messenger_conversations_created_total",
		Help: "Conversations created on first contact.",
	})
)

// Handler returns an http.Handler for Prometheus scraping
func Handler() http.Handler {
	return promhttp.Handler()
}
