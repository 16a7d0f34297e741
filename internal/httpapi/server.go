// Package httpapi exposes the webhook and admin HTTP surface.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/vishudhGupta/salon-management-api/internal/booking"
	"github.com/vishudhGupta/salon-management-api/internal/models"
)

// Consumer-side slices of the repository API.
type userAPI interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, userID string) error
}

type salonAPI interface {
	Create(ctx context.Context, salon *models.Salon) error
	GetByID(ctx context.Context, salonID string) (*models.Salon, error)
	List(ctx context.Context) ([]models.Salon, error)
}

type serviceAPI interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, serviceID string) (*models.Service, error)
	ListBySalon(ctx context.Context, salonID string) ([]models.Service, error)
}

type expertAPI interface {
	Create(ctx context.Context, expert *models.Expert) error
	GetByID(ctx context.Context, expertID string) (*models.Expert, error)
	ListBySalon(ctx context.Context, salonID string) ([]models.Expert, error)
	SetAvailability(ctx context.Context, expertID string, availability map[int][]int) error
}

type appointmentAPI interface {
	GetByID(ctx context.Context, appointmentID string) (*models.Appointment, error)
	ListByUser(ctx context.Context, userID string) ([]models.Appointment, error)
	ListBySalon(ctx context.Context, salonID string) ([]models.Appointment, error)
	ListUpcoming(ctx context.Context, from, to string) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, appointmentID, status string) error
}

type ratingAPI interface {
	ListBySalon(ctx context.Context, salonID string) ([]models.Rating, error)
}

// messageEngine is the slice of the booking engine the webhook needs.
type messageEngine interface {
	HandleMessage(ctx context.Context, recipientID, body string) booking.Outcome
	RequestFeedback(ctx context.Context, recipientID, appointmentID string) error
}

// Deps carries everything the server serves from.
type Deps struct {
	Users        userAPI
	Salons       salonAPI
	Services     serviceAPI
	Experts      expertAPI
	Appointments appointmentAPI
	Ratings      ratingAPI
	Engine       messageEngine
	Logger       *zerolog.Logger

	// ReadyChecks gate /readyz; each should ping one backing service.
	ReadyChecks []func(ctx context.Context) error
}

type Server struct {
	deps Deps
}

func New(deps Deps) *Server {
	return &Server{deps: deps}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/webhook/whatsapp", s.handleWhatsAppWebhook)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", s.handleCreateUser)
		r.Get("/users", s.handleListUsers)
		r.Get("/users/{id}", s.handleGetUser)
		r.Delete("/users/{id}", s.handleDeleteUser)
		r.Get("/users/{id}/appointments", s.handleListUserAppointments)

		r.Post("/salons", s.handleCreateSalon)
		r.Get("/salons", s.handleListSalons)
		r.Get("/salons/{id}", s.handleGetSalon)
		r.Get("/salons/{id}/dashboard", s.handleSalonDashboard)

		r.Post("/services", s.handleCreateService)
		r.Get("/services/{id}", s.handleGetService)

		r.Post("/experts", s.handleCreateExpert)
		r.Get("/experts/{id}", s.handleGetExpert)
		r.Put("/experts/{id}/availability", s.handleSetExpertAvailability)

		r.Get("/appointments/{id}", s.handleGetAppointment)
		r.Put("/appointments/{id}/status", s.handleUpdateAppointmentStatus)

		r.Get("/admin/appointments/export", s.handleExportAppointments)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	for _, check := range s.deps.ReadyChecks {
		if err := check(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
