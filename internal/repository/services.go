package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vishudhGupta/salon-management-api/internal/models"
)

// ServiceRepo persists service documents.
type ServiceRepo struct {
	coll   *mongo.Collection
	salons *SalonRepo
}

// Create inserts a service and registers it on its salon.
func (r *ServiceRepo) Create(ctx context.Context, service *models.Service) error {
	cctx, cancel := newContext(ctx)
	defer cancel()

	if service.ServiceID == "" {
		service.ServiceID = models.NewServiceID(service.Name)
	}
	if _, err := r.coll.InsertOne(cctx, service); err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	return r.salons.AddService(ctx, service.SalonID, service.ServiceID)
}

// GetByID fetches a service by ID.
func (r *ServiceRepo) GetByID(ctx context.Context, serviceID string) (*models.Service, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var service models.Service
	if err := r.coll.FindOne(ctx, bson.M{"service_id": serviceID}).Decode(&service); err != nil {
		return nil, mapErr(err)
	}
	return &service, nil
}

// ListBySalon returns services offered by one salon.
func (r *ServiceRepo) ListBySalon(ctx context.Context, salonID string) ([]models.Service, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"salon_id": salonID})
	if err != nil {
		return nil, fmt.Errorf("list services for salon %s: %w", salonID, err)
	}
	var services []models.Service
	if err := cur.All(ctx, &services); err != nil {
		return nil, err
	}
	return services, nil
}
