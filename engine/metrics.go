package engine

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the pass-level Prometheus collectors.
type Metrics struct {
	Passes        prometheus.Counter
	PassDuration  prometheus.Histogram
	Diagnostics   *prometheus.CounterVec
	LedgerEntries prometheus.Gauge
	ActiveGroups  prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil
// registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Passes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "effectcore_passes_total",
			Help: "Effect passes completed.",
		}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "effectcore_pass_duration_seconds",
			Help:    "Wall time of an effect pass.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		Diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "effectcore_diagnostics_total",
			Help: "Diagnostics raised during passes, by kind.",
		}, []string{"kind"}),
		LedgerEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "effectcore_ledger_entries",
			Help: "Accounting entries recorded by the last pass.",
		}),
		ActiveGroups: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "effectcore_active_groups",
			Help: "Effect groups active in the last pass.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Passes, m.PassDuration, m.Diagnostics, m.LedgerEntries, m.ActiveGroups)
	}
	return m
}

func (m *Metrics) observe(res *PassResult) {
	if m == nil {
		return
	}
	m.Passes.Inc()
	m.PassDuration.Observe(res.Duration.Seconds())
	m.LedgerEntries.Set(float64(res.Entries))
	m.ActiveGroups.Set(float64(res.ActiveGroups))
	for _, d := range res.Diagnostics {
		m.Diagnostics.WithLabelValues(string(d.Kind)).Inc()
	}
}
