package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons used as the label on the rejected counter.
const (
	ReasonFull      = "full"
	ReasonDuplicate = "duplicate"
	ReasonInvalid   = "invalid"
)

// Metrics holds all Prometheus metrics for the service. A nil *Metrics is
// valid and records nothing, so unit tests can skip registry wiring.
type Metrics struct {
	RegistrationsAccepted prometheus.Counter
	RegistrationsRejected *prometheus.CounterVec
	RemainingSeats        prometheus.Gauge
	RosterExports         prometheus.Counter
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		RegistrationsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registrar_registrations_accepted_total",
			Help: "Registrations accepted and persisted.",
		}),
		RegistrationsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "registrar_registrations_rejected_total",
			Help: "Registrations rejected before persisting, by reason.",
		}, []string{"reason"}),
		RemainingSeats: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "registrar_remaining_seats",
			Help: "Seats still available under the capacity ceiling.",
		}),
		RosterExports: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registrar_roster_exports_total",
			Help: "Roster spreadsheets built and mailed to the admin.",
		}),
	}
}

func (m *Metrics) IncAccepted() {
	if m == nil {
		return
	}
	m.RegistrationsAccepted.Inc()
}

func (m *Metrics) IncRejected(reason string) {
	if m == nil {
		return
	}
	m.RegistrationsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) SetRemainingSeats(n int) {
	if m == nil {
		return
	}
	m.RemainingSeats.Set(float64(n))
}

func (m *Metrics) IncRosterExports() {
	if m == nil {
		return
	}
	m.RosterExports.Inc()
}
