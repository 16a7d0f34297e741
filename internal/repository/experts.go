package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vishudhGupta/salon-management-api/internal/models"
)

// ExpertRepo persists expert documents.
type ExpertRepo struct {
	coll   *mongo.Collection
	salons *SalonRepo
}

// Create inserts an expert and registers them on their salon.
func (r *ExpertRepo) Create(ctx context.Context, expert *models.Expert) error {
	cctx, cancel := newContext(ctx)
	defer cancel()

	if expert.ExpertID == "" {
		expert.ExpertID = models.NewExpertID(expert.Name)
	}
	if _, err := r.coll.InsertOne(cctx, expert); err != nil {
		return fmt.Errorf("create expert: %w", err)
	}
	return r.salons.AddExpert(ctx, expert.SalonID, expert.ExpertID)
}

// GetByID fetches an expert by ID.
func (r *ExpertRepo) GetByID(ctx context.Context, expertID string) (*models.Expert, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var expert models.Expert
	if err := r.coll.FindOne(ctx, bson.M{"expert_id": expertID}).Decode(&expert); err != nil {
		return nil, mapErr(err)
	}
	return &expert, nil
}

// ListBySalon returns the experts working at one salon.
func (r *ExpertRepo) ListBySalon(ctx context.Context, salonID string) ([]models.Expert, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"salon_id": salonID})
	if err != nil {
		return nil, fmt.Errorf("list experts for salon %s: %w", salonID, err)
	}
	var experts []models.Expert
	if err := cur.All(ctx, &experts); err != nil {
		return nil, err
	}
	return experts, nil
}

// SetAvailability replaces the expert's weekly availability template.
func (r *ExpertRepo) SetAvailability(ctx context.Context, expertID string, availability map[int][]int) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"expert_id": expertID},
		bson.M{"$set": bson.M{"availability": availability}})
	if err != nil {
		return fmt.Errorf("set availability for expert %s: %w", expertID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
