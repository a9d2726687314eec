package appointments

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/careconnect/careconnect-api/internal/directory"
	"github.com/careconnect/careconnect-api/pkg/logging"
	"github.com/google/uuid"
)

var bookingTracer = otel.Tracer("careconnect.internal.appointments")

// DoctorDirectory resolves doctors for the booking workflow.
type DoctorDirectory interface {
	FindByHumanID(ctx context.Context, publicID int) (*directory.Doctor, error)
	FindByID(ctx context.Context, id uuid.UUID) (*directory.Doctor, error)
}

// ConfirmationPublisher dispatches a confirmation notification after a
// booking commits. Implementations must be fire-and-forget: a publish
// failure never affects the booking result.
type ConfirmationPublisher interface {
	PublishConfirmation(ctx context.Context, appt Appointment, doctor directory.Doctor) error
}

// Service implements the appointment booking workflow.
type Service struct {
	repo      Repository
	directory DoctorDirectory
	publisher ConfirmationPublisher
	logger    *logging.Logger
}

// NewService constructs an appointments service. publisher may be nil when
// notifications are disabled.
func NewService(repo Repository, dir DoctorDirectory, publisher ConfirmationPublisher, logger *logging.Logger) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if dir == nil {
		panic("appointments: doctor directory required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, directory: dir, publisher: publisher, logger: logger}
}

// Create books a slot with status=confirmed and enqueues a confirmation
// notification. The notification is decoupled from the booking: its failure
// is logged and swallowed.
func (s *Service) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.create")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, ErrMissingFields
	}

	doctor, err := s.directory.FindByHumanID(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("careconnect.doctor_public_id", doctor.PublicID),
		attribute.String("careconnect.slot_date", date.Format(time.DateOnly)),
	)

	appt := &Appointment{
		DoctorID:        doctor.ID,
		PatientName:     strings.TrimSpace(req.Name),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:           strings.TrimSpace(req.Phone),
		AppointmentDate: date,
		AppointmentTime: strings.TrimSpace(req.Time),
		Reason:          strings.TrimSpace(req.Reason),
		Status:          StatusConfirmed,
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.logger.Info("appointment booked",
		"appointment_id", appt.ID,
		"doctor_id", doctor.PublicID,
		"date", appt.AppointmentDate.Format(time.DateOnly),
		"time", appt.AppointmentTime,
	)

	if s.publisher != nil {
		if err := s.publisher.PublishConfirmation(ctx, *appt, *doctor); err != nil {
			s.logger.Error("failed to enqueue confirmation notification",
				"error", err, "appointment_id", appt.ID)
		}
	}

	return appt, nil
}

// ListByDoctor returns all appointments for the doctor with the given
// human-facing id, ordered by (date, time).
func (s *Service) ListByDoctor(ctx context.Context, doctorPublicID int) ([]Appointment, error) {
	doctor, err := s.directory.FindByHumanID(ctx, doctorPublicID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByDoctor(ctx, doctor.ID)
}

// ListByPatient returns the patient's appointments joined with the doctor's
// name and specialization, ordered by (date, time).
func (s *Service) ListByPatient(ctx context.Context, email string) ([]Appointment, error) {
	appts, err := s.repo.ListByPatient(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	for i := range appts {
		doctor, err := s.directory.FindByID(ctx, appts[i].DoctorID)
		if err != nil {
			continue
		}
		appts[i].Doctor = &DoctorSummary{
			Name:           doctor.Name,
			Specialization: doctor.Specialization,
		}
	}
	return appts, nil
}

// UpdateStatus moves an appointment through its lifecycle. Unknown statuses
// fail ErrInvalidStatus before the appointment is looked up; transitions out
// of cancelled (or any other lifecycle violation) fail ErrInvalidTransition.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}
	if current.Status == status {
		return current, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info("appointment status updated",
		"appointment_id", id, "from", current.Status, "to", status)
	return updated, nil
}
