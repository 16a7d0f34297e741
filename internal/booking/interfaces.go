package booking

import (
	"context"

	"github.com/vishudhGupta/salon-management-api/internal/models"
)

// Directory is the engine's view of domain persistence. "Not found" is
// reported through repository.ErrNotFound; the engine treats lookup errors
// and not-found identically except where an empty list routes the
// conversation backward.
type Directory interface {
	FindUserByRecipient(ctx context.Context, phone string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	ListSalons(ctx context.Context) ([]models.Salon, error)
	ListServicesForSalon(ctx context.Context, salonID string) ([]models.Service, error)
	ListExpertsForSalon(ctx context.Context, salonID string) ([]models.Expert, error)
	GetExpertAvailability(ctx context.Context, salonID, expertID string) (map[int][]int, error)
	FindConflictingAppointment(ctx context.Context, expertID, date string, bucket int) (*models.Appointment, error)
	CreateAppointment(ctx context.Context, appointment *models.Appointment) error
	GetAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error)
	CreateRating(ctx context.Context, rating *models.Rating) error
}

// Sender delivers one outbound message, best-effort.
type Sender interface {
	Send(ctx context.Context, recipient, text string) bool
}
