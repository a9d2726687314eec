package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/careconnect/careconnect-api/internal/appointments"
	"github.com/careconnect/careconnect-api/internal/directory"
)

// Mock implementations

type mockEmailSender struct {
	mu      sync.Mutex
	sent    []EmailMessage
	callErr error
}

func (m *mockEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.callErr != nil {
		return m.callErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mockEmailSender) sentMessages() []EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

func sampleAppointment() appointments.Appointment {
	date, _ := appointments.ParseDate("2024-06-01")
	return appointments.Appointment{
		ID:              uuid.New(),
		DoctorID:        uuid.New(),
		PatientName:     "Asha Verma",
		Email:           "asha@example.com",
		Phone:           "+91 98765 43210",
		AppointmentDate: date,
		AppointmentTime: "10:00",
		Reason:          "Routine checkup",
		Status:          appointments.StatusConfirmed,
	}
}

func sampleDoctor() directory.Doctor {
	return directory.Doctor{
		ID:             uuid.New(),
		PublicID:       7,
		Name:           "Dr. Neha Gupta",
		Specialization: "General Physician",
		Location:       "Delhi",
	}
}

func TestSendConfirmation(t *testing.T) {
	email := &mockEmailSender{}
	svc := NewService(email, nil, 0, nil)

	ok := svc.SendConfirmation(context.Background(), sampleAppointment(), sampleDoctor())
	if !ok {
		t.Fatal("expected confirmation to be sent")
	}

	sent := email.sentMessages()
	if len(sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sent))
	}
	msg := sent[0]
	if msg.To != "asha@example.com" {
		t.Errorf("unexpected recipient: %s", msg.To)
	}
	if !strings.Contains(msg.Subject, "Appointment Confirmed") {
		t.Errorf("unexpected subject: %s", msg.Subject)
	}
	for _, want := range []string{"Asha Verma", "Dr. Neha Gupta", "General Physician", "Saturday, June 1, 2024", "10:00", "Delhi"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("body missing %q:\n%s", want, msg.Body)
		}
	}
	if msg.HTML == "" {
		t.Error("expected an HTML body")
	}
}

func TestSendReminder(t *testing.T) {
	email := &mockEmailSender{}
	svc := NewService(email, nil, 0, nil)

	ok := svc.SendReminder(context.Background(), sampleAppointment(), sampleDoctor())
	if !ok {
		t.Fatal("expected reminder to be sent")
	}

	sent := email.sentMessages()
	if len(sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sent))
	}
	if !strings.Contains(sent[0].Subject, "Reminder") {
		t.Errorf("unexpected subject: %s", sent[0].Subject)
	}
	if !strings.Contains(sent[0].Body, "tomorrow") {
		t.Errorf("reminder body should mention tomorrow:\n%s", sent[0].Body)
	}
}

func TestSendReturnsFalseOnFailure(t *testing.T) {
	email := &mockEmailSender{callErr: errors.New("provider down")}
	svc := NewService(email, nil, time.Second, nil)

	if svc.SendConfirmation(context.Background(), sampleAppointment(), sampleDoctor()) {
		t.Error("expected false when the provider errors")
	}
}

func TestSendWithoutSenderIsNoop(t *testing.T) {
	svc := NewService(nil, nil, 0, nil)

	if svc.SendConfirmation(context.Background(), sampleAppointment(), sampleDoctor()) {
		t.Error("expected false when no email sender is configured")
	}
}
