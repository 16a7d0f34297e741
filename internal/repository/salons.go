package repository

import (
	"context"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vishudhGupta/salon-management-api/internal/models"
)

// SalonRepo persists salon documents.
type SalonRepo struct {
	coll *mongo.Collection
}

// Create inserts a new salon, generating its ID from the owner when unset.
func (r *SalonRepo) Create(ctx context.Context, salon *models.Salon) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	if salon.SalonID == "" {
		salon.SalonID = models.NewSalonID(salon.ShopOwnerID)
	}
	if salon.Services == nil {
		salon.Services = []string{}
	}
	if salon.Experts == nil {
		salon.Experts = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, salon); err != nil {
		return fmt.Errorf("create salon: %w", err)
	}
	return nil
}

// GetByID fetches a salon by ID.
func (r *SalonRepo) GetByID(ctx context.Context, salonID string) (*models.Salon, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var salon models.Salon
	if err := r.coll.FindOne(ctx, bson.M{"salon_id": salonID}).Decode(&salon); err != nil {
		return nil, mapErr(err)
	}
	return &salon, nil
}

// List returns all salons.
func (r *SalonRepo) List(ctx context.Context) ([]models.Salon, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list salons: %w", err)
	}
	var salons []models.Salon
	if err := cur.All(ctx, &salons); err != nil {
		return nil, err
	}
	return salons, nil
}

// addRef pushes an ID onto one of the salon's reference arrays.
func (r *SalonRepo) addRef(ctx context.Context, salonID, field, id string) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"salon_id": salonID},
		bson.M{"$addToSet": bson.M{field: id}})
	if err != nil {
		return fmt.Errorf("update salon %s: %w", salonID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddService registers a service ID on the salon.
func (r *SalonRepo) AddService(ctx context.Context, salonID, serviceID string) error {
	return r.addRef(ctx, salonID, "services", serviceID)
}

// AddExpert registers an expert ID on the salon.
func (r *SalonRepo) AddExpert(ctx context.Context, salonID, expertID string) error {
	return r.addRef(ctx, salonID, "experts", expertID)
}

// SetRating stores the recomputed average rating.
func (r *SalonRepo) SetRating(ctx context.Context, salonID string, average float64, total int) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	average = math.Round(average*10) / 10
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"salon_id": salonID},
		bson.M{"$set": bson.M{"average_rating": average, "total_ratings": total}})
	if err != nil {
		return fmt.Errorf("set rating on salon %s: %w", salonID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
