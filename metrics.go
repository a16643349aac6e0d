package immutability

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors for a Registry. All methods are
// safe on a nil receiver, which records nothing.
type Metrics struct {
	classifications *prometheus.CounterVec
	verifications   *prometheus.CounterVec
	registryWrites  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "immutability",
			Name:      "classifications_total",
			Help:      "Type classifications by resulting level",
		}, []string{"classification"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "immutability",
			Name:      "verifications_total",
			Help:      "Instance verifications by resulting level",
		}, []string{"classification"}),
		registryWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "immutability",
			Name:      "registry_writes_total",
			Help:      "Registry write attempts by operation and outcome",
		}, []string{"operation", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.classifications, m.verifications, m.registryWrites)
	}
	return m
}

func (m *Metrics) observeClassify(c Classification) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(c.String()).Inc()
}

func (m *Metrics) observeVerify(c Classification) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(c.String()).Inc()
}

func (m *Metrics) observeWrite(op string, ok bool) {
	if m == nil {
		return
	}
	outcome := "rejected"
	if ok {
		outcome = "applied"
	}
	m.registryWrites.WithLabelValues(op, outcome).Inc()
}
