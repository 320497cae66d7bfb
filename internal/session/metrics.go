package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "toolhub",
		Subsystem: "session",
		Name:      "active",
		Help:      "Number of live discovery sessions.",
	})

	expiredSessions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "toolhub",
		Subsystem: "session",
		Name:      "expired_total",
		Help:      "Sessions removed after idling past the TTL.",
	})
)
