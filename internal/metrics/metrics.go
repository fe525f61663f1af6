package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var CompletionLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "bdc",
		Subsystem: "assistant",
		Name:      "completion_latency_seconds",
		Help:      "Latency of chat completions",
		Buckets:   []float64{0.25, 0.5, 1, 2, 3, 5, 8, 10, 15, 20, 30},
	},
	[]string{"model", "status"},
)

var ClassificationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "bdc",
		Subsystem: "assistant",
		Name:      "classifications_total",
		Help:      "Generated replies by sentiment and intent",
	},
	[]string{"sentiment", "intent"},
)

var ScrapesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "bdc",
		Subsystem: "scraper",
		Name:      "scrapes_total",
		Help:      "Scrape attempts by outcome",
	},
	[]string{"outcome"}, // outcome: ok, fetch_error, extraction_error, error
)

var FetchLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "bdc",
		Subsystem: "scraper",
		Name:      "fetch_latency_seconds",
		Help:      "Latency of listing page fetches",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"status"},
)

func init() {
	prometheus.MustRegister(CompletionLatency, ClassificationsTotal, ScrapesTotal, FetchLatency)
}
