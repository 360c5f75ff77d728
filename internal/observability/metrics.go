package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// risk planning service.
type Metrics struct {
	// Best-window search metrics.
	Searches         *prometheus.CounterVec // labels: outcome={found,not_found}
	SearchDuration   prometheus.Histogram
	SearchCandidates prometheus.Histogram
	SearchRunning    prometheus.Gauge

	// Historical data source metrics.
	HistoricalFetches      *prometheus.CounterVec // labels: outcome={success,empty,error}
	HistoricalFetchSeconds prometheus.Histogram
	HistoricalCache        *prometheus.CounterVec // labels: result={hit,miss}

	// Forecast and reporting metrics.
	ForecastFetches  *prometheus.CounterVec // labels: outcome={success,error}
	ReportsGenerated prometheus.Counter
	EventsPublished  prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherwise",
			Name:      "searches_total",
			Help:      "Best-window searches by outcome.",
		}, []string{"outcome"}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weatherwise",
			Name:      "search_duration_seconds",
			Help:      "Duration of a complete best-window search.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		SearchCandidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weatherwise",
			Name:      "search_candidates",
			Help:      "Candidate windows evaluated per search.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50},
		}),
		SearchRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weatherwise",
			Name:      "search_running",
			Help:      "Number of best-window searches currently in flight.",
		}),
		HistoricalFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherwise",
			Name:      "historical_fetches_total",
			Help:      "NASA POWER fetches by outcome.",
		}, []string{"outcome"}),
		HistoricalFetchSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weatherwise",
			Name:      "historical_fetch_duration_seconds",
			Help:      "NASA POWER request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		HistoricalCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherwise",
			Name:      "historical_cache_total",
			Help:      "Historical series cache lookups by result.",
		}, []string{"result"}),
		ForecastFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherwise",
			Name:      "forecast_fetches_total",
			Help:      "Open-Meteo forecast fetches by outcome.",
		}, []string{"outcome"}),
		ReportsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weatherwise",
			Name:      "reports_generated_total",
			Help:      "PDF reports generated.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weatherwise",
			Name:      "events_published_total",
			Help:      "Assessment events published to Kafka.",
		}),
	}

	prometheus.MustRegister(
		m.Searches,
		m.SearchDuration,
		m.SearchCandidates,
		m.SearchRunning,
		m.HistoricalFetches,
		m.HistoricalFetchSeconds,
		m.HistoricalCache,
		m.ForecastFetches,
		m.ReportsGenerated,
		m.EventsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics without touching the default
// registry, avoiding "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Searches:               prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weatherwise", Name: "searches_total"}, []string{"outcome"}),
		SearchDuration:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weatherwise", Name: "search_duration_seconds"}),
		SearchCandidates:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weatherwise", Name: "search_candidates"}),
		SearchRunning:          prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weatherwise", Name: "search_running"}),
		HistoricalFetches:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weatherwise", Name: "historical_fetches_total"}, []string{"outcome"}),
		HistoricalFetchSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weatherwise", Name: "historical_fetch_duration_seconds"}),
		HistoricalCache:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weatherwise", Name: "historical_cache_total"}, []string{"result"}),
		ForecastFetches:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weatherwise", Name: "forecast_fetches_total"}, []string{"outcome"}),
		ReportsGenerated:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weatherwise", Name: "reports_generated_total"}),
		EventsPublished:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weatherwise", Name: "events_published_total"}),
	}
}
