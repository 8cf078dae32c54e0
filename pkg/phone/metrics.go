package phone

import "github.com/prometheus/client_golang/prometheus"

// metrics aggregates the controller's prometheus collectors. Export is
// optional; the collectors are cheap enough to always keep.
type metrics struct {
	digitsDecoded prometheus.Counter
	numbersDialed prometheus.Counter
	transitions   *prometheus.CounterVec
	rejected      *prometheus.CounterVec
	state         *prometheus.GaugeVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		digitsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rotary_digits_decoded_total",
			Help: "Digits finalized by the pulse decoder.",
		}),
		numbersDialed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rotary_numbers_dialed_total",
			Help: "Complete numbers flushed by the inter-digit gap.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rotary_transitions_total",
			Help: "Accepted state machine transitions by event.",
		}, []string{"event"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rotary_transitions_rejected_total",
			Help: "Transition attempts rejected as invalid by event.",
		}, []string{"event"}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rotary_call_state",
			Help: "Current call state (1 for the active state).",
		}, []string{"state"}),
	}
	reg.MustRegister(m.digitsDecoded, m.numbersDialed, m.transitions, m.rejected, m.state)
	return m
}

func (m *metrics) setState(current CallState) {
	for _, s := range []CallState{StateIdle, StateDialing, StateAnswering} {
		v := 0.0
		if s == current {
			v = 1.0
		}
		m.state.WithLabelValues(string(s)).Set(v)
	}
}
