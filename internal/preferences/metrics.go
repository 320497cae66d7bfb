package preferences

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "toolhub",
		Subsystem: "preferences",
		Name:      "storage_failures_total",
		Help:      "Preference storage operations that failed and were recovered locally.",
	}, []string{"op"})

	reconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "toolhub",
		Subsystem: "preferences",
		Name:      "reconciliations_total",
		Help:      "Remote profile reconciliation attempts by outcome.",
	}, []string{"result"})
)
