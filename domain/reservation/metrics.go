package reservation

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
	outcomeFailed   = "error"
)

type Metrics struct {
	requests *prometheus.CounterVec
	guests   prometheus.Counter
	purged   prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tablebook",
			Name:      "reservation_requests_total",
			Help:      "Reservation requests by outcome.",
		}, []string{"outcome"}),
		guests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tablebook",
			Name:      "reserved_guests_total",
			Help:      "Guests in accepted reservations.",
		}),
		purged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tablebook",
			Name:      "reservations_purged_total",
			Help:      "Stale reservations removed by availability checks.",
		}),
	}

	reg.MustRegister(m.requests, m.guests, m.purged)
	return m
}

func (m *Metrics) observe(outcome string, guests int, purged int64) {
	if m == nil {
		return
	}

	m.requests.WithLabelValues(outcome).Inc()
	if outcome == outcomeAccepted {
		m.guests.Add(float64(guests))
	}
	m.observePurge(purged)
}

func (m *Metrics) observePurge(purged int64) {
	if m == nil || purged <= 0 {
		return
	}
	m.purged.Add(float64(purged))
}
