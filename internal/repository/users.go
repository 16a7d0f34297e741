package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/vishudhGupta/salon-management-api/internal/models"
)

// UserRepo persists user documents.
type UserRepo struct {
	coll *mongo.Collection
}

// Create inserts a new user. The plaintext password in user.PasswordHash is
// replaced with its bcrypt hash before the insert; a generated ID is
// assigned when none is set.
func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	if user.UserID == "" {
		user.UserID = models.NewUserID(user.Name)
	}
	if user.Type == "" {
		user.Type = "user"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID fetches a user by its generated ID.
func (r *UserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user); err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

// GetByPhone fetches a user by phone number.
func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"phone_number": phone}).Decode(&user); err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

// List returns all users.
func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AppendAppointment records an appointment ID on the user document.
func (r *UserRepo) AppendAppointment(ctx context.Context, userID, appointmentID string) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$addToSet": bson.M{"appointments": appointmentID},
			"$set":      bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		return fmt.Errorf("append appointment to user %s: %w", userID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user by ID.
func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("delete user %s: %w", userID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
