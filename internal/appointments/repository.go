package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for appointment storage
type Repository interface {
	// Create persists a new appointment. The slot-conflict invariant (at
	// most one non-cancelled appointment per doctor/date/time) is enforced
	// atomically by the implementation; a conflict returns ErrSlotTaken.
	Create(ctx context.Context, appt *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error)
	ListByPatient(ctx context.Context, email string) ([]Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error)
	// ListConfirmedInWindow returns confirmed appointments whose date falls
	// in [from, to), ordered by (date, time).
	ListConfirmedInWindow(ctx context.Context, from, to time.Time) ([]Appointment, error)
}

// InMemoryRepository is a Repository backed by a mutex-guarded map. The
// conflict check and insert run under one lock, so the slot invariant holds
// under concurrent bookings the same way the database constraint does.
type InMemoryRepository struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*Appointment
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{appointments: make(map[uuid.UUID]*Appointment)}
}

// Create inserts the appointment unless a non-cancelled one holds the slot.
func (r *InMemoryRepository) Create(ctx context.Context, appt *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.appointments {
		if existing.Status != StatusCancelled && existing.Slot() == appt.Slot() {
			return ErrSlotTaken
		}
	}

	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	now := time.Now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now

	stored := *appt
	r.appointments[appt.ID] = &stored
	return nil
}

// GetByID retrieves an appointment by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	copied := *appt
	return &copied, nil
}

// ListByDoctor returns the doctor's appointments ordered by (date, time).
func (r *InMemoryRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Appointment
	for _, appt := range r.appointments {
		if appt.DoctorID == doctorID {
			out = append(out, *appt)
		}
	}
	sortBySchedule(out)
	return out, nil
}

// ListByPatient returns appointments matching the case-folded email,
// ordered by (date, time).
func (r *InMemoryRepository) ListByPatient(ctx context.Context, email string) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Appointment
	for _, appt := range r.appointments {
		if appt.Email == email {
			out = append(out, *appt)
		}
	}
	sortBySchedule(out)
	return out, nil
}

// UpdateStatus overwrites the status and returns the updated record.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	appt.Status = status
	appt.UpdatedAt = time.Now().UTC()
	copied := *appt
	return &copied, nil
}

// ListConfirmedInWindow returns confirmed appointments whose calendar date
// falls in [from, to). Dates are compared by day, not instant, so the
// caller's timezone never shifts an appointment out of its day.
func (r *InMemoryRepository) ListConfirmedInWindow(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fromDay := from.Format(time.DateOnly)
	toDay := to.Format(time.DateOnly)

	var out []Appointment
	for _, appt := range r.appointments {
		day := appt.AppointmentDate.Format(time.DateOnly)
		if appt.Status == StatusConfirmed && day >= fromDay && day < toDay {
			out = append(out, *appt)
		}
	}
	sortBySchedule(out)
	return out, nil
}

func sortBySchedule(appts []Appointment) {
	sort.SliceStable(appts, func(i, j int) bool {
		if !appts[i].AppointmentDate.Equal(appts[j].AppointmentDate.Time) {
			return appts[i].AppointmentDate.Before(appts[j].AppointmentDate.Time)
		}
		return appts[i].AppointmentTime < appts[j].AppointmentTime
	})
}
