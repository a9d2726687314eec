package notify

import (
	"context"
	"fmt"

	"github.com/careconnect/careconnect-api/internal/appointments"
	"github.com/careconnect/careconnect-api/internal/directory"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

// Publisher enqueues notification jobs for asynchronous delivery.
type Publisher struct {
	queue  queueClient
	logger *logging.Logger
}

// NewPublisher creates a queue-backed publisher.
func NewPublisher(queue queueClient, logger *logging.Logger) *Publisher {
	if queue == nil {
		panic("notify: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{
		queue:  queue,
		logger: logger,
	}
}

// PublishConfirmation enqueues a booking confirmation email job.
func (p *Publisher) PublishConfirmation(ctx context.Context, appt appointments.Appointment, doctor directory.Doctor) error {
	return p.enqueue(ctx, kindConfirmation, appt, doctor)
}

// PublishReminder enqueues an appointment reminder email job.
func (p *Publisher) PublishReminder(ctx context.Context, appt appointments.Appointment, doctor directory.Doctor) error {
	return p.enqueue(ctx, kindReminder, appt, doctor)
}

func (p *Publisher) enqueue(ctx context.Context, kind notificationKind, appt appointments.Appointment, doctor directory.Doctor) error {
	if ctx == nil {
		ctx = context.Background()
	}

	payload, body, err := encodePayload(kind, appt, doctor)
	if err != nil {
		return err
	}

	if err := p.queue.Send(ctx, body); err != nil {
		return fmt.Errorf("notify: failed to enqueue job: %w", err)
	}

	p.logger.Debug("notification job enqueued", "job_id", payload.ID, "kind", kind, "appointment_id", appt.ID)
	return nil
}

var _ appointments.ConfirmationPublisher = (*Publisher)(nil)
