package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// EntityOps считает операции над сущностями по исходу
	EntityOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skydesk_entity_operations_total",
		Help: "Entity CRUD operations by kind, operation and outcome.",
	}, []string{"kind", "op", "outcome"})

	// StaleFetchesDropped считает отброшенные устаревшие выборки грида
	StaleFetchesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skydesk_stale_fetches_dropped_total",
		Help: "Grid fetches discarded because the active entity changed mid-flight.",
	})

	// HTTPDuration - длительность HTTP запросов
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skydesk_http_request_duration_seconds",
		Help:    "HTTP request duration.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

// Handler отдает /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
