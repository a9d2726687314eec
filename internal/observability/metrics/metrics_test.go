package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)
	m.ObserveBooking("created")
	m.ObserveBooking("created")
	m.ObserveBooking("slot_conflict")
	m.ObserveNotification("confirmation", "sent")
	m.ObserveAssistant("chat", "ok")
	m.ObserveSweepDuration(0.25)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	var created *dto.Metric
	for _, fam := range families {
		if fam.GetName() != "careconnect_appointments_bookings_total" {
			continue
		}
		for _, metric := range fam.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "outcome" && label.GetValue() == "created" {
					created = metric
				}
			}
		}
	}
	if created == nil {
		t.Fatal("created bookings counter not found")
	}
	if got := created.GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected 2 created bookings, got %f", got)
	}
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveBooking("created")
	m.ObserveNotification("reminder", "failed")
	m.ObserveAssistant("nutrition", "error")
	m.ObserveSweepDuration(0.1)
}
