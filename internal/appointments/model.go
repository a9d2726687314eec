package appointments

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the appointment lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Cancelled is terminal; a same-status update is always allowed as a no-op.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	}
	return false
}

// Date is a calendar date serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate builds a Date truncated to midnight UTC.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// MarshalJSON renders the date as "2006-01-02".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

// UnmarshalJSON accepts "2006-01-02".
func (d *Date) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DoctorSummary is the doctor detail joined onto patient-facing listings.
type DoctorSummary struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

// Appointment is a booked slot with a doctor.
type Appointment struct {
	ID              uuid.UUID      `json:"id"`
	DoctorID        uuid.UUID      `json:"doctorId"`
	PatientName     string         `json:"patientName"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone"`
	AppointmentDate Date           `json:"appointmentDate"`
	AppointmentTime string         `json:"appointmentTime"`
	Reason          string         `json:"reason"`
	Status          Status         `json:"status"`
	Doctor          *DoctorSummary `json:"doctor,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// Slot identifies the tuple the booking conflict check guards.
func (a *Appointment) Slot() string {
	return fmt.Sprintf("%s/%s/%s", a.DoctorID, a.AppointmentDate.Format(time.DateOnly), a.AppointmentTime)
}

// CreateAppointmentRequest is the booking request body.
type CreateAppointmentRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Reason   string `json:"reason"`
	DoctorID int    `json:"doctorId"`
}

// Validate checks that every required field is present.
func (r *CreateAppointmentRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" ||
		strings.TrimSpace(r.Email) == "" ||
		strings.TrimSpace(r.Phone) == "" ||
		strings.TrimSpace(r.Date) == "" ||
		strings.TrimSpace(r.Time) == "" ||
		strings.TrimSpace(r.Reason) == "" ||
		r.DoctorID == 0 {
		return ErrMissingFields
	}
	return nil
}
