package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vishudhGupta/salon-management-api/internal/models"
)

// AppointmentRepo persists appointment documents.
type AppointmentRepo struct {
	coll  *mongo.Collection
	users *mongo.Collection
}

// Create inserts a pending appointment and records it on the user document.
func (r *AppointmentRepo) Create(ctx context.Context, a *models.Appointment) error {
	cctx, cancel := newContext(ctx)
	defer cancel()

	if a.AppointmentID == "" {
		a.AppointmentID = models.NewAppointmentID(a.SalonID, a.UserID)
	}
	if a.Status == "" {
		a.Status = models.StatusPending
	}
	a.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(cctx, a); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}

	_, err := r.users.UpdateOne(cctx,
		bson.M{"user_id": a.UserID},
		bson.M{"$addToSet": bson.M{"appointments": a.AppointmentID}})
	if err != nil {
		return fmt.Errorf("link appointment %s to user: %w", a.AppointmentID, err)
	}
	return nil
}

// GetByID fetches an appointment.
func (r *AppointmentRepo) GetByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var a models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"appointment_id": appointmentID}).Decode(&a); err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

// FindConflict returns the pending or confirmed appointment occupying the
// given expert/date/bucket, or ErrNotFound when the slot is free.
func (r *AppointmentRepo) FindConflict(ctx context.Context, expertID, date string, bucket int) (*models.Appointment, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	filter := bson.M{
		"expert_id":   expertID,
		"date":        date,
		"time_bucket": bucket,
		"status":      bson.M{"$in": []string{models.StatusPending, models.StatusConfirmed}},
	}
	var a models.Appointment
	if err := r.coll.FindOne(ctx, filter).Decode(&a); err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

// ListByUser returns a user's appointments, newest first.
func (r *AppointmentRepo) ListByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

// ListBySalon returns a salon's appointments.
func (r *AppointmentRepo) ListBySalon(ctx context.Context, salonID string) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{"salon_id": salonID})
}

// ListUpcoming returns pending/confirmed appointments dated within the
// half-open window [from, to) (dates compared as YYYY-MM-DD strings).
func (r *AppointmentRepo) ListUpcoming(ctx context.Context, from, to string) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{
		"date":   bson.M{"$gte": from, "$lt": to},
		"status": bson.M{"$in": []string{models.StatusPending, models.StatusConfirmed}},
	})
}

func (r *AppointmentRepo) list(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	var out []models.Appointment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves an appointment to a new status.
func (r *AppointmentRepo) UpdateStatus(ctx context.Context, appointmentID, status string) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"appointment_id": appointmentID},
		bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("update appointment %s: %w", appointmentID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
