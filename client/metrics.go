package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "userfront_client",
			Name:      "requests_total",
			Help:      "Backend requests issued by the client, by method and status code (\"error\" when no response).",
		},
		[]string{"method", "code"},
	)

	sessionExpirationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "userfront_client",
			Name:      "session_expirations_total",
			Help:      "401 responses that erased the stored token.",
		},
	)
)
