package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "radar_errors_total",
			Help: "Total number of logged errors and of warnings tagged with an error type.",
		},
		[]string{"type", "level"},
	)
	SearchRequestsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "radar_search_requests_total",
			Help: "Total number of unified search requests by outcome.",
		},
		[]string{"outcome"},
	)
	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "radar_search_duration_seconds",
			Help:    "Duration of unified searches that reached the remote collections.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)
	SubSearchFailuresCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "radar_sub_search_failures_total",
			Help: "Total number of collection searches that degraded to an empty result.",
		},
		[]string{"collection"},
	)
	SnapshotRecordDuration = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Name:       "radar_snapshot_record_duration_seconds",
			Help:       "Duration of each snapshot recording run.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
	)
	RecordedSnapshotsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "radar_snapshots_recorded_total",
			Help: "Total number of daily snapshots written to the store.",
		},
	)
)

const (
	OutcomeCacheHit   = "cache_hit"
	OutcomeCacheMiss  = "cache_miss"
	OutcomeTooShort   = "too_short"
	OutcomeCancelled  = "cancelled"
	OutcomeFailed     = "failed"
	CollectionOpps    = "opportunities"
	CollectionKeyword = "keyword_searches"
)

func Register() {
	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(SearchRequestsCounter)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SubSearchFailuresCounter)
	prometheus.MustRegister(SnapshotRecordDuration)
	prometheus.MustRegister(RecordedSnapshotsCounter)
}

func StartMetricsServer(address string) {

	Register()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(address, mux))
	}()
	log.Infof("metrics server listening on %v", address)
}
