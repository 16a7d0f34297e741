package reminders

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishudhGupta/salon-management-api/internal/gateway"
	"github.com/vishudhGupta/salon-management-api/internal/models"
	"github.com/vishudhGupta/salon-management-api/internal/repository"
)

type fakeAppointments struct {
	appointments []models.Appointment
}

// ListUpcoming applies the same half-open [from, to) date filter as the
// Mongo repository so the sweep's query window is exercised too.
func (f *fakeAppointments) ListUpcoming(_ context.Context, from, to string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appointments {
		if a.Date >= from && a.Date < to {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeUsers struct {
	users map[string]*models.User
}

func (f *fakeUsers) GetByID(_ context.Context, userID string) (*models.User, error) {
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func newSweeper(appts []models.Appointment, now time.Time) (*Sweeper, *gateway.Recorder) {
	rec := &gateway.Recorder{}
	logger := zerolog.New(io.Discard)
	users := &fakeUsers{users: map[string]*models.User{
		"AM-JOH-1111": {UserID: "AM-JOH-1111", PhoneNumber: "+15551230001"},
	}}
	s := New(&fakeAppointments{appointments: appts}, users, rec, Config{Interval: 15 * time.Minute}, &logger)
	s.now = func() time.Time { return now }
	return s, rec
}

// appointmentAt builds a confirmed appointment starting at the given time.
func appointmentAt(id string, start time.Time) models.Appointment {
	bucket, _ := models.BucketFromHour(start.Hour())
	return models.Appointment{
		AppointmentID: id,
		UserID:        "AM-JOH-1111",
		Date:          start.Format("2006-01-02"),
		TimeBucket:    bucket,
		Status:        models.StatusConfirmed,
	}
}

func TestSweep(t *testing.T) {
	ctx := context.Background()

	t.Run("DayHorizonFiresOnce", func(t *testing.T) {
		start := time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)
		now := start.Add(-24 * time.Hour).Add(5 * time.Minute)
		s, rec := newSweeper([]models.Appointment{appointmentAt("AP-A", start)}, now)

		s.Sweep(ctx)
		s.Sweep(ctx)

		msgs := rec.SentTo("+15551230001")
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0], "tomorrow")
	})

	t.Run("DayHorizonEarlyMorningAppointment", func(t *testing.T) {
		// Worst case for the query window: a 09:00 booking a day out sits
		// on a date the 25h horizon barely reaches.
		start := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
		now := start.Add(-24 * time.Hour).Add(5 * time.Minute)
		s, rec := newSweeper([]models.Appointment{appointmentAt("AP-F", start)}, now)

		s.Sweep(ctx)

		msgs := rec.SentTo("+15551230001")
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0], "tomorrow")
	})

	t.Run("HourHorizon", func(t *testing.T) {
		start := time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)
		now := start.Add(-50 * time.Minute)
		s, rec := newSweeper([]models.Appointment{appointmentAt("AP-B", start)}, now)

		s.Sweep(ctx)

		msgs := rec.SentTo("+15551230001")
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0], "in about an hour")
	})

	t.Run("OutsideWindowsSendsNothing", func(t *testing.T) {
		start := time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)
		now := start.Add(-5 * time.Hour)
		s, rec := newSweeper([]models.Appointment{appointmentAt("AP-C", start)}, now)

		s.Sweep(ctx)
		assert.Empty(t, rec.Sends())
	})

	t.Run("CancelledAppointmentSkipped", func(t *testing.T) {
		start := time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)
		appt := appointmentAt("AP-D", start)
		appt.Status = models.StatusCancelled
		s, rec := newSweeper([]models.Appointment{appt}, start.Add(-50*time.Minute))

		s.Sweep(ctx)
		assert.Empty(t, rec.Sends())
	})

	t.Run("FailedDeliveryRetriesNextSweep", func(t *testing.T) {
		start := time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)
		s, rec := newSweeper([]models.Appointment{appointmentAt("AP-E", start)}, start.Add(-50*time.Minute))

		rec.Fail = true
		s.Sweep(ctx)
		rec.Fail = false
		s.Sweep(ctx)

		// Two attempts recorded, second one counted as delivered.
		assert.Len(t, rec.SentTo("+15551230001"), 2)
	})
}
