package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careconnect/careconnect-api/internal/appointments"
	"github.com/careconnect/careconnect-api/internal/directory"
	"github.com/careconnect/careconnect-api/internal/observability/metrics"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

// AppointmentSource lists the confirmed appointments a sweep considers.
type AppointmentSource interface {
	ListConfirmedInWindow(ctx context.Context, from, to time.Time) ([]appointments.Appointment, error)
}

// DoctorResolver resolves the doctor a reminder is about.
type DoctorResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (*directory.Doctor, error)
}

// ReminderSender delivers a single reminder. Returns whether it went out.
type ReminderSender interface {
	SendReminder(ctx context.Context, appt appointments.Appointment, doctor directory.Doctor) bool
}

// Summary reports the outcome of one sweep.
type Summary struct {
	WindowFrom time.Time
	WindowTo   time.Time
	Considered int
	Sent       int
	Failed     int
	Skipped    bool
}

// Sweeper sends reminder emails for tomorrow's confirmed appointments.
// Designed to run on a daily schedule; overlapping runs are serialized by
// the run lock so patients do not get duplicate reminders.
type Sweeper struct {
	source   AppointmentSource
	doctors  DoctorResolver
	sender   ReminderSender
	lock     RunLock
	metrics  *metrics.BookingMetrics
	location *time.Location
	logger   *logging.Logger
}

// NewSweeper creates a reminder sweeper. lock may be nil (no locking),
// metrics may be nil, loc defaults to time.Local.
func NewSweeper(source AppointmentSource, doctors DoctorResolver, sender ReminderSender, lock RunLock, m *metrics.BookingMetrics, loc *time.Location, logger *logging.Logger) *Sweeper {
	if source == nil {
		panic("reminders: appointment source required")
	}
	if doctors == nil {
		panic("reminders: doctor resolver required")
	}
	if sender == nil {
		panic("reminders: sender required")
	}
	if lock == nil {
		lock = NoopLock{}
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Sweeper{
		source:   source,
		doctors:  doctors,
		sender:   sender,
		lock:     lock,
		metrics:  m,
		location: loc,
		logger:   logger,
	}
}

// Window returns [tomorrow 00:00, day after 00:00) relative to now in the
// sweeper's location.
func (s *Sweeper) Window(now time.Time) (time.Time, time.Time) {
	local := now.In(s.location)
	tomorrow := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location).AddDate(0, 0, 1)
	return tomorrow, tomorrow.AddDate(0, 0, 1)
}

// Run performs one sweep: every confirmed appointment scheduled for
// tomorrow gets one reminder email. Sends are sequential and best-effort; a
// failed send is logged and counted but never aborts the sweep.
func (s *Sweeper) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	from, to := s.Window(start)
	summary := &Summary{WindowFrom: from, WindowTo: to}

	held, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if !held {
		summary.Skipped = true
		return summary, nil
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Error("failed to release sweep lock", "error", err)
		}
	}()

	appts, err := s.source.ListConfirmedInWindow(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("reminders: list appointments: %w", err)
	}
	summary.Considered = len(appts)

	s.logger.Info("reminder sweep started",
		"window_from", from.Format(time.DateOnly),
		"window_to", to.Format(time.DateOnly),
		"appointments", len(appts),
	)

	for _, appt := range appts {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		doctor, err := s.doctors.FindByID(ctx, appt.DoctorID)
		if err != nil {
			summary.Failed++
			s.logger.Error("reminder skipped: doctor lookup failed",
				"error", err, "appointment_id", appt.ID, "doctor_id", appt.DoctorID)
			continue
		}

		if s.sender.SendReminder(ctx, appt, *doctor) {
			summary.Sent++
			s.logger.Info("reminder sent",
				"appointment_id", appt.ID,
				"patient", appt.PatientName,
				"doctor", doctor.Name,
				"time", appt.AppointmentTime,
			)
		} else {
			summary.Failed++
			s.logger.Error("reminder send failed",
				"appointment_id", appt.ID, "patient", appt.PatientName)
		}
	}

	elapsed := time.Since(start)
	s.metrics.ObserveSweepDuration(elapsed.Seconds())
	s.logger.Info("reminder sweep finished",
		"sent", summary.Sent, "failed", summary.Failed, "elapsed", elapsed)
	return summary, nil
}
