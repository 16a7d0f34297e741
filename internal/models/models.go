// Package models defines the document shapes stored in MongoDB.
package models

import (
	"fmt"
	"time"
)

// Appointment status values.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// User is a registered customer (or shop owner).
type User struct {
	UserID       string    `bson:"user_id" json:"user_id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PhoneNumber  string    `bson:"phone_number" json:"phone_number"`
	Address      string    `bson:"address" json:"address"`
	PasswordHash string    `bson:"password" json:"-"`
	Type         string    `bson:"type" json:"type"` // "user" or "shop_owner"
	SalonIDs     []string  `bson:"salon_ids" json:"salon_ids"`
	Appointments []string  `bson:"appointments" json:"appointments"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// Salon is a bookable location owned by a shop owner.
type Salon struct {
	SalonID       string   `bson:"salon_id" json:"salon_id"`
	ShopOwnerID   string   `bson:"shop_owner_id" json:"shop_owner_id"`
	Name          string   `bson:"name" json:"name"`
	Address       string   `bson:"address" json:"address"`
	PhoneNumber   string   `bson:"phone_number" json:"phone_number"`
	Services      []string `bson:"services" json:"services"` // service IDs
	Experts       []string `bson:"experts" json:"experts"`   // expert IDs
	AverageRating float64  `bson:"average_rating" json:"average_rating"`
	TotalRatings  int      `bson:"total_ratings" json:"total_ratings"`
}

// Service is a single offering of a salon.
type Service struct {
	ServiceID   string  `bson:"service_id" json:"service_id"`
	SalonID     string  `bson:"salon_id" json:"salon_id"`
	Name        string  `bson:"name" json:"name"`
	Description string  `bson:"description" json:"description"`
	Cost        float64 `bson:"cost" json:"cost"`
	Duration    int     `bson:"duration" json:"duration"` // minutes
}

// Expert performs services at a salon. Availability is a static weekly
// template: weekday -> open hour buckets (see Bucket* constants).
type Expert struct {
	ExpertID       string        `bson:"expert_id" json:"expert_id"`
	SalonID        string        `bson:"salon_id" json:"salon_id"`
	Name           string        `bson:"name" json:"name"`
	Phone          string        `bson:"phone" json:"phone"`
	Address        string        `bson:"address" json:"address"`
	Specialization string        `bson:"specialization" json:"specialization"`
	Availability   map[int][]int `bson:"availability" json:"availability"` // weekday (0=Sunday) -> buckets
}

// Appointment is one committed booking.
type Appointment struct {
	AppointmentID string    `bson:"appointment_id" json:"appointment_id"`
	UserID        string    `bson:"user_id" json:"user_id"`
	SalonID       string    `bson:"salon_id" json:"salon_id"`
	ServiceID     string    `bson:"service_id" json:"service_id"`
	ExpertID      string    `bson:"expert_id" json:"expert_id"`
	Date          string    `bson:"date" json:"date"`               // YYYY-MM-DD
	TimeBucket    int       `bson:"time_bucket" json:"time_bucket"` // 0..12, see BucketStartHour
	Status        string    `bson:"status" json:"status"`
	Notes         string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// Rating is customer feedback for a completed appointment.
type Rating struct {
	AppointmentID string    `bson:"appointment_id" json:"appointment_id"`
	UserID        string    `bson:"user_id" json:"user_id"`
	SalonID       string    `bson:"salon_id" json:"salon_id"`
	Rating        int       `bson:"rating" json:"rating"` // 1..5
	Comment       string    `bson:"comment" json:"comment"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// Bookable hour buckets: 13 one-hour intervals between 09:00 and 21:00.
const (
	BucketStartHour = 9
	BucketEndHour   = 21
	BucketCount     = BucketEndHour - BucketStartHour + 1
)

// BucketLabel renders a bucket index as "HH:00".
func BucketLabel(bucket int) string {
	return fmt.Sprintf("%02d:00", BucketStartHour+bucket)
}

// BucketFromHour converts an hour of day to a bucket index, false if the
// hour falls outside the bookable window.
func BucketFromHour(hour int) (int, bool) {
	if hour < BucketStartHour || hour > BucketEndHour {
		return 0, false
	}
	return hour - BucketStartHour, true
}

// StartTime returns the wall-clock start of the appointment.
func (a Appointment) StartTime() (time.Time, error) {
	day, err := time.Parse("2006-01-02", a.Date)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(BucketStartHour+a.TimeBucket) * time.Hour), nil
}
