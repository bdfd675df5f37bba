package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchesTotal tracks end-to-end searches by outcome.
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meteoalerte_searches_total",
			Help: "Total number of search/refresh runs",
		},
		[]string{"status"},
	)

	// SearchDuration tracks the duration of the full search pipeline.
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "meteoalerte_search_duration_seconds",
			Help:    "Duration of the search pipeline in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// UpstreamRequestsTotal tracks outbound calls to the weather providers.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meteoalerte_upstream_requests_total",
			Help: "Total number of upstream API requests",
		},
		[]string{"upstream", "status"},
	)

	// AlertsEmittedTotal tracks alert intents produced by the evaluator.
	AlertsEmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meteoalerte_alerts_emitted_total",
			Help: "Total number of alert intents emitted",
		},
		[]string{"kind"},
	)

	// NotificationsTotal tracks dispatch outcomes per channel.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meteoalerte_notifications_total",
			Help: "Total number of notification deliveries",
		},
		[]string{"channel", "status"},
	)

	// FavoritesCount tracks the current size of the favorites store.
	FavoritesCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "meteoalerte_favorites_count",
			Help: "Current number of saved favorite locations",
		},
	)

	// AppStartTime records when the application started.
	AppStartTime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "meteoalerte_app_start_time_seconds",
			Help: "Unix timestamp of when the application started",
		},
	)
)

func init() {
	AppStartTime.SetToCurrentTime()
}

// RecordSearch records a finished search run.
func RecordSearch(start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	SearchesTotal.WithLabelValues(status).Inc()
	SearchDuration.Observe(time.Since(start).Seconds())
}

// RecordUpstream records an outbound API call result.
func RecordUpstream(upstream string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(upstream, status).Inc()
}
