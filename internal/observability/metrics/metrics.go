package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking and
// notification flows.
type BookingMetrics struct {
	bookingsTotal      *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	assistantTotal     *prometheus.CounterVec
	reminderSweeps     prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careconnect",
			Subsystem: "appointments",
			Name:      "bookings_total",
			Help:      "Total booking attempts by outcome",
		}, []string{"outcome"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careconnect",
			Subsystem: "notify",
			Name:      "emails_total",
			Help:      "Total notification emails by kind and status",
		}, []string{"kind", "status"}),
		assistantTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careconnect",
			Subsystem: "assistant",
			Name:      "requests_total",
			Help:      "Total assistant proxy requests by endpoint and status",
		}, []string{"endpoint", "status"}),
		reminderSweeps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "careconnect",
			Subsystem: "reminders",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of reminder sweep runs",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.notificationsTotal, m.assistantTotal, m.reminderSweeps)
	return m
}

func (m *BookingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveNotification(kind, status string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(kind, status).Inc()
}

func (m *BookingMetrics) ObserveAssistant(endpoint, status string) {
	if m == nil {
		return
	}
	m.assistantTotal.WithLabelValues(endpoint, status).Inc()
}

func (m *BookingMetrics) ObserveSweepDuration(seconds float64) {
	if m == nil {
		return
	}
	m.reminderSweeps.Observe(seconds)
}
