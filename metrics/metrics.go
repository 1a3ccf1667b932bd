package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"membership-backend/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	storeOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_store_operations_total",
			Help: "Total number of profile store operations by outcome",
		},
		[]string{"operation", "outcome"},
	)
)

func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveStoreOperation counts a store call under the outcome derived from err
func ObserveStoreOperation(operation string, err error) {
	storeOperationsTotal.WithLabelValues(operation, Outcome(err)).Inc()
}

// Outcome classifies a store error into a low-cardinality label
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	case errors.Is(err, repository.ErrStoreUnavailable):
		return "unavailable"
	case errors.Is(err, repository.ErrWriteFailed):
		return "write_failed"
	default:
		return "error"
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
