package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	viewDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "toolhub",
		Subsystem: "catalog",
		Name:      "view_duration_seconds",
		Help:      "Time spent filtering, ranking and disclosing a catalog view.",
		Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
	})

	viewItems = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "toolhub",
		Subsystem: "catalog",
		Name:      "view_items",
		Help:      "Number of items returned per catalog view.",
		Buckets:   []float64{0, 1, 3, 9, 27, 81, 243},
	})
)
