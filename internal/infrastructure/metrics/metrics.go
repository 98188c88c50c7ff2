package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/whiteelite/cookadmin/internal/infrastructure/http/request"
	"github.com/whiteelite/cookadmin/internal/infrastructure/messaging/bus"
)

const namespace = "cookadmin"

// Recorder collects client-side request and invalidation metrics.
type Recorder struct {
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	invalidations *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Backend calls by method, path and outcome.",
		}, []string{"method", "path", "outcome"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Backend call latency, including aborted calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		invalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "List invalidations published per topic.",
		}, []string{"topic"}),
	}
}

func (r *Recorder) ObserveRequest(method, path, outcome string, elapsed time.Duration) {
	r.requests.WithLabelValues(method, path, outcome).Inc()
	r.latency.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (r *Recorder) IncInvalidation(topic string) {
	r.invalidations.WithLabelValues(topic).Inc()
}

var (
	_ request.Observer = (*Recorder)(nil)
	_ bus.Counter      = (*Recorder)(nil)
)
