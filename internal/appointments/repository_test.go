package appointments

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppointment(doctorID uuid.UUID, date, slot string) *Appointment {
	d, _ := ParseDate(date)
	return &Appointment{
		DoctorID:        doctorID,
		PatientName:     "Asha Verma",
		Email:           "asha@example.com",
		Phone:           "+91 98765 43210",
		AppointmentDate: d,
		AppointmentTime: slot,
		Reason:          "Routine checkup",
		Status:          StatusConfirmed,
	}
}

func TestInMemoryCreateAndGet(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	doctorID := uuid.New()

	appt := newTestAppointment(doctorID, "2024-06-01", "10:00")
	require.NoError(t, repo.Create(ctx, appt))
	require.NotEqual(t, uuid.Nil, appt.ID)
	assert.False(t, appt.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, got.ID)
	assert.Equal(t, StatusConfirmed, got.Status)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestInMemorySlotConflict(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	doctorID := uuid.New()

	first := newTestAppointment(doctorID, "2024-06-01", "10:00")
	require.NoError(t, repo.Create(ctx, first))

	dup := newTestAppointment(doctorID, "2024-06-01", "10:00")
	dup.Email = "someone.else@example.com"
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrSlotTaken)

	// Same slot with a different doctor is fine.
	other := newTestAppointment(uuid.New(), "2024-06-01", "10:00")
	assert.NoError(t, repo.Create(ctx, other))

	// Same doctor, different time is fine.
	later := newTestAppointment(doctorID, "2024-06-01", "11:00")
	assert.NoError(t, repo.Create(ctx, later))
}

func TestInMemoryCancelledSlotCanBeRebooked(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	doctorID := uuid.New()

	first := newTestAppointment(doctorID, "2024-06-01", "10:00")
	require.NoError(t, repo.Create(ctx, first))

	_, err := repo.UpdateStatus(ctx, first.ID, StatusCancelled)
	require.NoError(t, err)

	rebooked := newTestAppointment(doctorID, "2024-06-01", "10:00")
	assert.NoError(t, repo.Create(ctx, rebooked))
}

func TestInMemoryConcurrentBookingSameSlot(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	doctorID := uuid.New()

	const racers = 8
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, newTestAppointment(doctorID, "2024-06-01", "10:00"))
		}(i)
	}
	wg.Wait()

	var created, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case assert.ErrorIs(t, err, ErrSlotTaken):
			conflicted++
		}
	}
	assert.Equal(t, 1, created, "exactly one booking should win the slot")
	assert.Equal(t, racers-1, conflicted)
}

func TestInMemoryListByDoctorOrdering(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	doctorID := uuid.New()

	for _, slot := range []struct{ date, time string }{
		{"2024-06-02", "09:00"},
		{"2024-06-01", "14:00"},
		{"2024-06-01", "10:00"},
	} {
		require.NoError(t, repo.Create(ctx, newTestAppointment(doctorID, slot.date, slot.time)))
	}
	require.NoError(t, repo.Create(ctx, newTestAppointment(uuid.New(), "2024-06-01", "08:00")))

	got, err := repo.ListByDoctor(ctx, doctorID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "10:00", got[0].AppointmentTime)
	assert.Equal(t, "14:00", got[1].AppointmentTime)
	assert.Equal(t, "09:00", got[2].AppointmentTime)
}

func TestInMemoryListByPatient(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	mine := newTestAppointment(uuid.New(), "2024-06-01", "10:00")
	require.NoError(t, repo.Create(ctx, mine))

	other := newTestAppointment(uuid.New(), "2024-06-01", "11:00")
	other.Email = "someone.else@example.com"
	require.NoError(t, repo.Create(ctx, other))

	got, err := repo.ListByPatient(ctx, "asha@example.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)
}

func TestInMemoryListConfirmedInWindow(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	doctorID := uuid.New()

	inWindow := newTestAppointment(doctorID, "2024-06-02", "10:00")
	require.NoError(t, repo.Create(ctx, inWindow))

	tooLate := newTestAppointment(doctorID, "2024-06-03", "10:00")
	require.NoError(t, repo.Create(ctx, tooLate))

	cancelled := newTestAppointment(doctorID, "2024-06-02", "11:00")
	require.NoError(t, repo.Create(ctx, cancelled))
	_, err := repo.UpdateStatus(ctx, cancelled.ID, StatusCancelled)
	require.NoError(t, err)

	from := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	got, err := repo.ListConfirmedInWindow(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inWindow.ID, got[0].ID)
}

func TestInMemoryWindowComparesCalendarDates(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	doctorID := uuid.New()

	appt := newTestAppointment(doctorID, "2024-06-02", "10:00")
	require.NoError(t, repo.Create(ctx, appt))

	// Bounds built from midnights west of UTC sit after the stored UTC
	// midnight as instants; matching must go by day, not instant.
	zone := time.FixedZone("UTC-8", -8*60*60)
	from := time.Date(2024, 6, 2, 0, 0, 0, 0, zone)
	to := time.Date(2024, 6, 3, 0, 0, 0, 0, zone)

	got, err := repo.ListConfirmedInWindow(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, appt.ID, got[0].ID)
}

func TestInMemoryUpdateStatusNotFound(t *testing.T) {
	repo := NewInMemoryRepository()
	_, err := repo.UpdateStatus(context.Background(), uuid.New(), StatusCancelled)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
