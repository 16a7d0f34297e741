// Package repository provides MongoDB-backed persistence for domain records.
package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("record not found")

const callTimeout = 5 * time.Second

// Connect opens a MongoDB client and verifies the connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

// Store bundles the per-collection repositories over one database.
type Store struct {
	Users        *UserRepo
	Salons       *SalonRepo
	Services     *ServiceRepo
	Experts      *ExpertRepo
	Appointments *AppointmentRepo
	Ratings      *RatingRepo
}

// NewStore wires all repositories against the named database.
func NewStore(client *mongo.Client, dbName string) *Store {
	db := client.Database(dbName)
	salons := &SalonRepo{coll: db.Collection("salons")}
	return &Store{
		Users:        &UserRepo{coll: db.Collection("users")},
		Salons:       salons,
		Services:     &ServiceRepo{coll: db.Collection("services"), salons: salons},
		Experts:      &ExpertRepo{coll: db.Collection("experts"), salons: salons},
		Appointments: &AppointmentRepo{coll: db.Collection("appointments"), users: db.Collection("users")},
		Ratings:      &RatingRepo{coll: db.Collection("ratings"), salons: salons},
	}
}

func newContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, callTimeout)
}

func mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
