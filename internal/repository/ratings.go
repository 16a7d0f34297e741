package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vishudhGupta/salon-management-api/internal/models"
)

// RatingRepo persists ratings and keeps salon averages current.
type RatingRepo struct {
	coll   *mongo.Collection
	salons *SalonRepo
}

// Create stores a rating and recomputes the salon's average.
func (r *RatingRepo) Create(ctx context.Context, rating *models.Rating) error {
	cctx, cancel := newContext(ctx)
	defer cancel()

	rating.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(cctx, rating); err != nil {
		return fmt.Errorf("create rating: %w", err)
	}
	return r.Recompute(ctx, rating.SalonID)
}

// ListBySalon returns all ratings left for a salon.
func (r *RatingRepo) ListBySalon(ctx context.Context, salonID string) ([]models.Rating, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"salon_id": salonID})
	if err != nil {
		return nil, fmt.Errorf("list ratings for salon %s: %w", salonID, err)
	}
	var ratings []models.Rating
	if err := cur.All(ctx, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

// Recompute refreshes the salon's average rating from stored ratings.
func (r *RatingRepo) Recompute(ctx context.Context, salonID string) error {
	ratings, err := r.ListBySalon(ctx, salonID)
	if err != nil {
		return err
	}
	if len(ratings) == 0 {
		return nil
	}
	total := 0
	for _, rt := range ratings {
		total += rt.Rating
	}
	average := float64(total) / float64(len(ratings))
	return r.salons.SetRating(ctx, salonID, average, len(ratings))
}
