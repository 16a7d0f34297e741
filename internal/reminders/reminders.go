// Package reminders sends upcoming-appointment reminders over the
// messaging gateway.
package reminders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vishudhGupta/salon-management-api/internal/models"
)

// Horizons at which one reminder per appointment is sent.
const (
	HorizonDay  = "24h"
	HorizonHour = "1h"
)

type appointmentLister interface {
	ListUpcoming(ctx context.Context, from, to string) ([]models.Appointment, error)
}

type userLookup interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

type sender interface {
	Send(ctx context.Context, recipient, text string) bool
}

// Config tunes the sweep loop.
type Config struct {
	// Interval between sweeps.
	Interval time.Duration
	// DayWindow is the slack around the 24h horizon.
	DayWindow time.Duration
	// HourWindow is the slack around the 1h horizon.
	HourWindow time.Duration
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = 15 * time.Minute
	}
	if c.DayWindow <= 0 {
		c.DayWindow = c.Interval
	}
	if c.HourWindow <= 0 {
		c.HourWindow = c.Interval
	}
	return c
}

// Sweeper periodically scans upcoming appointments and reminds each
// recipient once per horizon. Sent-state is in memory only; a restart may
// repeat a reminder, never skip one.
type Sweeper struct {
	appointments appointmentLister
	users        userLookup
	sender       sender
	logger       *zerolog.Logger
	cfg          Config

	mu   sync.Mutex
	sent map[string]struct{} // "<appointment_id>:<horizon>"

	now func() time.Time
}

func New(appointments appointmentLister, users userLookup, sender sender, cfg Config, logger *zerolog.Logger) *Sweeper {
	return &Sweeper{
		appointments: appointments,
		users:        users,
		sender:       sender,
		logger:       logger,
		cfg:          cfg.withDefaults(),
		sent:         make(map[string]struct{}),
		now:          time.Now,
	}
}

// Run sweeps until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs one pass. Exposed for tests and manual triggering.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := s.now()
	from := now.Format("2006-01-02")
	// The repository window is half-open on date strings, so pad a day
	// past the 25h horizon or appointments falling on the far date would
	// be excluded and the 24h reminder would never fire.
	to := now.Add(25 * time.Hour).AddDate(0, 0, 1).Format("2006-01-02")

	appointments, err := s.appointments.ListUpcoming(ctx, from, to)
	if err != nil {
		s.logger.Error().Err(err).Msg("reminder sweep query failed")
		return
	}

	for _, appt := range appointments {
		if appt.Status != models.StatusPending && appt.Status != models.StatusConfirmed {
			continue
		}
		start, err := appt.StartTime()
		if err != nil {
			s.logger.Warn().Err(err).Str("appointment", appt.AppointmentID).Msg("unparseable appointment date")
			continue
		}
		until := start.Sub(now)

		if s.within(until, 24*time.Hour, s.cfg.DayWindow) {
			s.remind(ctx, appt, HorizonDay, start)
		}
		if s.within(until, time.Hour, s.cfg.HourWindow) {
			s.remind(ctx, appt, HorizonHour, start)
		}
	}
}

func (s *Sweeper) within(until, horizon, window time.Duration) bool {
	return until > horizon-window && until <= horizon
}

func (s *Sweeper) remind(ctx context.Context, appt models.Appointment, horizon string, start time.Time) {
	key := appt.AppointmentID + ":" + horizon

	s.mu.Lock()
	if _, done := s.sent[key]; done {
		s.mu.Unlock()
		return
	}
	s.sent[key] = struct{}{}
	s.mu.Unlock()

	user, err := s.users.GetByID(ctx, appt.UserID)
	if err != nil {
		s.logger.Warn().Err(err).Str("appointment", appt.AppointmentID).Msg("reminder user lookup failed")
		return
	}

	text := reminderText(horizon, start)
	if !s.sender.Send(ctx, user.PhoneNumber, text) {
		// Delivery failed; allow the next sweep to retry.
		s.mu.Lock()
		delete(s.sent, key)
		s.mu.Unlock()
		return
	}
	s.logger.Info().
		Str("appointment", appt.AppointmentID).
		Str("horizon", horizon).
		Msg("reminder sent")
}

func reminderText(horizon string, start time.Time) string {
	when := start.Format("2006-01-02 at 15:04")
	if horizon == HorizonHour {
		return fmt.Sprintf("Reminder: your salon appointment starts in about an hour (%s). See you soon!", when)
	}
	return fmt.Sprintf("Reminder: you have a salon appointment tomorrow, %s. Reply 'cancel' to the booking line if you can't make it.", when)
}
