package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/careconnect/careconnect-api/internal/appointments"
	"github.com/careconnect/careconnect-api/internal/directory"
	"github.com/careconnect/careconnect-api/internal/observability/metrics"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

const defaultSendTimeout = 10 * time.Second

// Service renders and sends appointment emails. Every send is best-effort:
// the booking and reminder flows observe the boolean outcome but never an
// error, so a mail provider outage cannot break either of them.
type Service struct {
	email   EmailSender
	metrics *metrics.BookingMetrics
	timeout time.Duration
	logger  *logging.Logger
}

// NewService creates a notification service. metrics may be nil; a nil email
// sender downgrades every send to a logged no-op.
func NewService(email EmailSender, m *metrics.BookingMetrics, timeout time.Duration, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &Service{email: email, metrics: m, timeout: timeout, logger: logger}
}

// SendConfirmation emails the patient that their booking is confirmed.
// Returns whether the email was handed to the provider.
func (s *Service) SendConfirmation(ctx context.Context, appt appointments.Appointment, doctor directory.Doctor) bool {
	msg := EmailMessage{
		To:      appt.Email,
		ToName:  appt.PatientName,
		Subject: fmt.Sprintf("Appointment Confirmed - %s", doctor.Name),
		Body:    confirmationText(appt, doctor),
		HTML:    confirmationHTML(appt, doctor),
	}
	return s.send(ctx, "confirmation", appt, msg)
}

// SendReminder emails the patient the day before their appointment.
// Returns whether the email was handed to the provider.
func (s *Service) SendReminder(ctx context.Context, appt appointments.Appointment, doctor directory.Doctor) bool {
	msg := EmailMessage{
		To:      appt.Email,
		ToName:  appt.PatientName,
		Subject: fmt.Sprintf("Appointment Reminder - %s tomorrow", doctor.Name),
		Body:    reminderText(appt, doctor),
		HTML:    reminderHTML(appt, doctor),
	}
	return s.send(ctx, "reminder", appt, msg)
}

func (s *Service) send(ctx context.Context, kind string, appt appointments.Appointment, msg EmailMessage) bool {
	if s.email == nil {
		s.logger.Debug("notify: email sender not configured, skipping", "kind", kind, "appointment_id", appt.ID)
		s.metrics.ObserveNotification(kind, "skipped")
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("notify: failed to send email",
			"error", err, "kind", kind, "to", msg.To, "appointment_id", appt.ID)
		s.metrics.ObserveNotification(kind, "error")
		return false
	}

	s.logger.Info("notify: email sent", "kind", kind, "to", msg.To, "appointment_id", appt.ID)
	s.metrics.ObserveNotification(kind, "sent")
	return true
}

func humanDate(appt appointments.Appointment) string {
	return appt.AppointmentDate.Format("Monday, January 2, 2006")
}

func confirmationText(appt appointments.Appointment, doctor directory.Doctor) string {
	return fmt.Sprintf(`Hi %s,

Your appointment has been confirmed.

Doctor: %s (%s)
Date: %s
Time: %s
Location: %s

If you need to cancel or reschedule, please contact us as soon as possible.

— CareConnect`,
		appt.PatientName, doctor.Name, doctor.Specialization,
		humanDate(appt), appt.AppointmentTime, doctor.Location)
}

func confirmationHTML(appt appointments.Appointment, doctor directory.Doctor) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2 style="color: #10b981;">Appointment Confirmed</h2>
<p>Hi <strong>%s</strong>, your appointment has been booked.</p>
<table style="border-collapse: collapse; margin: 20px 0;">
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Doctor:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s (%s)</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Date:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Time:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Location:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
</table>
<p style="color: #6b7280; font-size: 12px; margin-top: 20px;">— CareConnect</p>
</div>`,
		appt.PatientName, doctor.Name, doctor.Specialization,
		humanDate(appt), appt.AppointmentTime, doctor.Location)
}

func reminderText(appt appointments.Appointment, doctor directory.Doctor) string {
	return fmt.Sprintf(`Hi %s,

This is a reminder for your appointment tomorrow.

Doctor: %s (%s)
Date: %s
Time: %s
Location: %s

See you there!

— CareConnect`,
		appt.PatientName, doctor.Name, doctor.Specialization,
		humanDate(appt), appt.AppointmentTime, doctor.Location)
}

func reminderHTML(appt appointments.Appointment, doctor directory.Doctor) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2 style="color: #3b82f6;">Appointment Reminder</h2>
<p>Hi <strong>%s</strong>, your appointment is tomorrow.</p>
<table style="border-collapse: collapse; margin: 20px 0;">
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Doctor:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s (%s)</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Date:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Time:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Location:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
</table>
<p style="color: #6b7280; font-size: 12px; margin-top: 20px;">— CareConnect</p>
</div>`,
		appt.PatientName, doctor.Name, doctor.Specialization,
		humanDate(appt), appt.AppointmentTime, doctor.Location)
}
