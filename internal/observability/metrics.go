package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sidecarctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"component", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sidecarctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"component", "method", "path", "status"},
	)
	backendEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sidecarctl",
			Subsystem: "backend",
			Name:      "events_total",
			Help:      "Backend process events relayed by kind.",
		},
		[]string{"kind"},
	)
	backendLaunches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sidecarctl",
			Subsystem: "backend",
			Name:      "launches_total",
			Help:      "Backend launch attempts by outcome.",
		},
		[]string{"outcome"},
	)
	backendTerminations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sidecarctl",
			Subsystem: "backend",
			Name:      "terminations_total",
			Help:      "Backend kill requests that consumed the child handle, by origin.",
		},
		[]string{"origin"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, backendEvents, backendLaunches, backendTerminations)
	})
}

func RecordHTTPRequest(component, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(component, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(component, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordBackendEvent(kind string) {
	RegisterMetrics()
	backendEvents.WithLabelValues(kind).Inc()
}

func RecordBackendLaunch(outcome string) {
	RegisterMetrics()
	backendLaunches.WithLabelValues(outcome).Inc()
}

func RecordBackendTermination(origin string) {
	RegisterMetrics()
	backendTerminations.WithLabelValues(origin).Inc()
}
