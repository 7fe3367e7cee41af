package tutorsdk

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records pipeline outcomes. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "tutorship", Subsystem: "sdk", Name: "requests_total", Help: "API requests by method and outcome."},
			[]string{"method", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Namespace: "tutorship", Subsystem: "sdk", Name: "request_duration_seconds", Help: "API request latency.", Buckets: prometheus.DefBuckets},
			[]string{"method"},
		),
	}

	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) observe(method string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, outcome(err)).Inc()
	m.duration.WithLabelValues(method).Observe(d.Seconds())
}

func outcome(err error) string {
	var (
		te *TransportError
		re *RequestError
		pe *ParseError
	)

	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &te):
		return "transport_error"
	case errors.As(err, &re):
		return "request_error"
	case errors.As(err, &pe):
		return "parse_error"
	default:
		return "invalid_request"
	}
}
