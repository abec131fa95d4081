package httpjson

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeOK           = "ok"
	OutcomeNetworkError = "network_error"
	OutcomeHTTPError    = "http_error"
	OutcomeOverflow     = "overflow"
)

// Metrics counts and times JSON-RPC exchanges. A nil *Metrics records
// nothing.
type Metrics struct {
	Requests      *prometheus.CounterVec
	Latency       *prometheus.HistogramVec
	ResponseBytes prometheus.Histogram
	InFlight      prometheus.Gauge
}

// NewMetrics registers the transport metrics with registry, or with the
// default registerer when registry is nil.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solana_rpc_requests_total",
				Help: "JSON-RPC exchanges by transport mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		Latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solana_rpc_request_duration_seconds",
				Help:    "Duration of JSON-RPC exchanges",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		ResponseBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "solana_rpc_response_bytes",
			Help:    "Size of JSON-RPC replies",
			Buckets: prometheus.ExponentialBuckets(64, 2, 8),
		}),
		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "solana_rpc_requests_in_flight",
			Help: "JSON-RPC exchanges currently on the wire",
		}),
	}
}

func (m *Metrics) observe(mode, outcome string, seconds float64, respBytes int) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(mode, outcome).Inc()
	m.Latency.WithLabelValues(mode).Observe(seconds)
	if outcome == OutcomeOK {
		m.ResponseBytes.Observe(float64(respBytes))
	}
}

func (m *Metrics) inFlight(delta float64) {
	if m == nil {
		return
	}
	m.InFlight.Add(delta)
}
