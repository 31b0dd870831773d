package ldapauth

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels for the completed-request counter.
const (
	outcomeOK               = "ok"
	outcomeDenied           = "denied"
	outcomeConnectionFailed = "connection_failed"
)

// Metrics exposes the service's operational counters: the in-flight gauge
// mirrors the keep-alive counter, and the completed counter is labeled by
// operation and outcome.
type Metrics struct {
	inFlight  prometheus.Gauge
	completed *prometheus.CounterVec
}

func newMetrics() *Metrics {
	return &Metrics{
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ldapauth",
			Name:      "requests_in_flight",
			Help:      "Accepted requests whose callbacks have not yet returned.",
		}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ldapauth",
			Name:      "requests_completed_total",
			Help:      "Completed requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}
}

func (m *Metrics) observe(r *request) {
	m.inFlight.Dec()

	outcome := outcomeOK
	switch {
	case !r.connected:
		outcome = outcomeConnectionFailed
	case r.op == opAuthenticate && !r.authenticated:
		outcome = outcomeDenied
	}
	m.completed.WithLabelValues(r.op.String(), outcome).Inc()
}

// RegisterMetrics registers the service's collectors with reg.
func (s *Service) RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{s.metrics.inFlight, s.metrics.completed} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
