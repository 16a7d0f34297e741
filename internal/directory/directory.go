// Package directory is the booking engine's read/write facade over the
// repositories, with optional Redis caching for the hot listing queries.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vishudhGupta/salon-management-api/internal/models"
)

// The consumer-side slices of the repository API this package needs.
type userStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
}

type salonStore interface {
	List(ctx context.Context) ([]models.Salon, error)
}

type serviceStore interface {
	ListBySalon(ctx context.Context, salonID string) ([]models.Service, error)
}

type expertStore interface {
	ListBySalon(ctx context.Context, salonID string) ([]models.Expert, error)
	GetByID(ctx context.Context, expertID string) (*models.Expert, error)
}

type appointmentStore interface {
	Create(ctx context.Context, a *models.Appointment) error
	GetByID(ctx context.Context, appointmentID string) (*models.Appointment, error)
	FindConflict(ctx context.Context, expertID, date string, bucket int) (*models.Appointment, error)
}

type ratingStore interface {
	Create(ctx context.Context, rating *models.Rating) error
}

// Directory serves the engine's lookups. Listing queries are cached when
// UseRedisCache has been called; everything else goes straight through.
type Directory struct {
	users        userStore
	salons       salonStore
	services     serviceStore
	experts      expertStore
	appointments appointmentStore
	ratings      ratingStore

	redis    *redis.Client
	cacheTTL time.Duration
}

// New wires the directory over the repository stores.
func New(users userStore, salons salonStore, services serviceStore, experts expertStore, appointments appointmentStore, ratings ratingStore) *Directory {
	return &Directory{
		users:        users,
		salons:       salons,
		services:     services,
		experts:      experts,
		appointments: appointments,
		ratings:      ratings,
	}
}

// UseRedisCache configures optional Redis caching for listing queries.
func (d *Directory) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	d.redis = redisClient
	d.cacheTTL = ttl
}

func (d *Directory) FindUserByRecipient(ctx context.Context, phone string) (*models.User, error) {
	return d.users.GetByPhone(ctx, phone)
}

func (d *Directory) CreateUser(ctx context.Context, user *models.User) error {
	return d.users.Create(ctx, user)
}

func (d *Directory) ListSalons(ctx context.Context) ([]models.Salon, error) {
	cacheKey := "salons"
	var salons []models.Salon
	if d.readCache(ctx, cacheKey, &salons) {
		return salons, nil
	}

	salons, err := d.salons.List(ctx)
	if err != nil {
		return nil, err
	}
	d.writeCache(ctx, cacheKey, salons)
	return salons, nil
}

func (d *Directory) ListServicesForSalon(ctx context.Context, salonID string) ([]models.Service, error) {
	cacheKey := fmt.Sprintf("services:%s", salonID)
	var services []models.Service
	if d.readCache(ctx, cacheKey, &services) {
		return services, nil
	}

	services, err := d.services.ListBySalon(ctx, salonID)
	if err != nil {
		return nil, err
	}
	d.writeCache(ctx, cacheKey, services)
	return services, nil
}

func (d *Directory) ListExpertsForSalon(ctx context.Context, salonID string) ([]models.Expert, error) {
	cacheKey := fmt.Sprintf("experts:%s", salonID)
	var experts []models.Expert
	if d.readCache(ctx, cacheKey, &experts) {
		return experts, nil
	}

	experts, err := d.experts.ListBySalon(ctx, salonID)
	if err != nil {
		return nil, err
	}
	d.writeCache(ctx, cacheKey, experts)
	return experts, nil
}

func (d *Directory) GetExpertAvailability(ctx context.Context, salonID, expertID string) (map[int][]int, error) {
	expert, err := d.experts.GetByID(ctx, expertID)
	if err != nil {
		return nil, err
	}
	if expert.SalonID != salonID {
		return nil, fmt.Errorf("expert %s does not belong to salon %s", expertID, salonID)
	}
	return expert.Availability, nil
}

// FindConflictingAppointment is never cached: a stale hit here would let
// two recipients book the same slot.
func (d *Directory) FindConflictingAppointment(ctx context.Context, expertID, date string, bucket int) (*models.Appointment, error) {
	return d.appointments.FindConflict(ctx, expertID, date, bucket)
}

func (d *Directory) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	return d.appointments.Create(ctx, appointment)
}

func (d *Directory) GetAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	return d.appointments.GetByID(ctx, appointmentID)
}

func (d *Directory) CreateRating(ctx context.Context, rating *models.Rating) error {
	if err := d.ratings.Create(ctx, rating); err != nil {
		return err
	}
	// Ratings feed the salon listing; drop the cached copy.
	d.invalidate(ctx, "salons")
	return nil
}

func (d *Directory) readCache(ctx context.Context, key string, out any) bool {
	if d.redis == nil || d.cacheTTL <= 0 {
		return false
	}
	val, err := d.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (d *Directory) writeCache(ctx context.Context, key string, val any) {
	if d.redis == nil || d.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = d.redis.Set(ctx, key, data, d.cacheTTL).Err()
}

func (d *Directory) invalidate(ctx context.Context, keys ...string) {
	if d.redis == nil {
		return
	}
	_ = d.redis.Del(ctx, keys...).Err()
}
