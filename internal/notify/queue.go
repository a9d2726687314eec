package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/careconnect/careconnect-api/internal/appointments"
	"github.com/careconnect/careconnect-api/internal/directory"
)

type queueClient interface {
	Send(ctx context.Context, body string) error
	Receive(ctx context.Context, maxMessages int, waitSeconds int) ([]queueMessage, error)
	Delete(ctx context.Context, receiptHandle string) error
}

type queueMessage struct {
	ID            string
	Body          string
	ReceiptHandle string
}

type notificationKind string

const (
	kindConfirmation notificationKind = "confirmation"
	kindReminder     notificationKind = "reminder"
)

type queuePayload struct {
	ID          string                   `json:"id"`
	Kind        notificationKind         `json:"kind"`
	Appointment appointments.Appointment `json:"appointment"`
	Doctor      directory.Doctor         `json:"doctor"`
}

func encodePayload(kind notificationKind, appt appointments.Appointment, doctor directory.Doctor) (queuePayload, string, error) {
	payload := queuePayload{
		ID:          uuid.NewString(),
		Kind:        kind,
		Appointment: appt,
		Doctor:      doctor,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return queuePayload{}, "", fmt.Errorf("notify: failed to encode payload: %w", err)
	}

	return payload, string(body), nil
}
