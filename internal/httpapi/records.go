package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vishudhGupta/salon-management-api/internal/models"
	"github.com/vishudhGupta/salon-management-api/internal/report"
	"github.com/vishudhGupta/salon-management-api/internal/repository"
)

func (s *Server) respondLookup(w http.ResponseWriter, v any, err error) {
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, v)
	case isNotFound(err):
		respondError(w, http.StatusNotFound, "not_found", "record not found")
	default:
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// --- users ---

type createUserRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	Password    string `json:"password"`
	Type        string `json:"type"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.PhoneNumber) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "name and phone_number are required")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "invalid_request", "password must be at least 8 characters")
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		PasswordHash: req.Password,
		Type:         req.Type,
	}
	if err := s.deps.Users.Create(r.Context(), user); err != nil {
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.deps.Users.List(r.Context())
	s.respondLookup(w, users, err)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.deps.Users.GetByID(r.Context(), chi.URLParam(r, "id"))
	s.respondLookup(w, user, err)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	err := s.deps.Users.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondLookup(w, nil, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListUserAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := s.deps.Appointments.ListByUser(r.Context(), chi.URLParam(r, "id"))
	s.respondLookup(w, appointments, err)
}

// --- salons ---

func (s *Server) handleCreateSalon(w http.ResponseWriter, r *http.Request) {
	var salon models.Salon
	if err := decodeJSON(r, &salon); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(salon.Name) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}
	if err := s.deps.Salons.Create(r.Context(), &salon); err != nil {
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, salon)
}

func (s *Server) handleListSalons(w http.ResponseWriter, r *http.Request) {
	salons, err := s.deps.Salons.List(r.Context())
	s.respondLookup(w, salons, err)
}

func (s *Server) handleGetSalon(w http.ResponseWriter, r *http.Request) {
	salon, err := s.deps.Salons.GetByID(r.Context(), chi.URLParam(r, "id"))
	s.respondLookup(w, salon, err)
}

// handleSalonDashboard aggregates everything an owner sees on one screen.
func (s *Server) handleSalonDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	salonID := chi.URLParam(r, "id")

	salon, err := s.deps.Salons.GetByID(ctx, salonID)
	if err != nil {
		s.respondLookup(w, nil, err)
		return
	}
	services, err := s.deps.Services.ListBySalon(ctx, salonID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	experts, err := s.deps.Experts.ListBySalon(ctx, salonID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	appointments, err := s.deps.Appointments.ListBySalon(ctx, salonID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	ratings, err := s.deps.Ratings.ListBySalon(ctx, salonID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"salon":        salon,
		"services":     services,
		"experts":      experts,
		"appointments": appointments,
		"ratings":      ratings,
	})
}

// --- services ---

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var service models.Service
	if err := decodeJSON(r, &service); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if service.SalonID == "" || strings.TrimSpace(service.Name) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "salon_id and name are required")
		return
	}
	if err := s.deps.Services.Create(r.Context(), &service); err != nil {
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, service)
}

func (s *Server) handleGetService(w http.ResponseWriter, r *http.Request) {
	service, err := s.deps.Services.GetByID(r.Context(), chi.URLParam(r, "id"))
	s.respondLookup(w, service, err)
}

// --- experts ---

func (s *Server) handleCreateExpert(w http.ResponseWriter, r *http.Request) {
	var expert models.Expert
	if err := decodeJSON(r, &expert); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if expert.SalonID == "" || strings.TrimSpace(expert.Name) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "salon_id and name are required")
		return
	}
	if err := s.deps.Experts.Create(r.Context(), &expert); err != nil {
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, expert)
}

func (s *Server) handleGetExpert(w http.ResponseWriter, r *http.Request) {
	expert, err := s.deps.Experts.GetByID(r.Context(), chi.URLParam(r, "id"))
	s.respondLookup(w, expert, err)
}

func (s *Server) handleSetExpertAvailability(w http.ResponseWriter, r *http.Request) {
	var availability map[int][]int
	if err := decodeJSON(r, &availability); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	for weekday, buckets := range availability {
		if weekday < 0 || weekday > 6 {
			respondError(w, http.StatusBadRequest, "invalid_request", "weekday must be 0..6")
			return
		}
		for _, b := range buckets {
			if b < 0 || b >= models.BucketCount {
				respondError(w, http.StatusBadRequest, "invalid_request", "bucket out of range")
				return
			}
		}
	}
	if err := s.deps.Experts.SetAvailability(r.Context(), chi.URLParam(r, "id"), availability); err != nil {
		s.respondLookup(w, nil, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- appointments ---

func (s *Server) handleGetAppointment(w http.ResponseWriter, r *http.Request) {
	appt, err := s.deps.Appointments.GetByID(r.Context(), chi.URLParam(r, "id"))
	s.respondLookup(w, appt, err)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

var validStatuses = map[string]bool{
	models.StatusPending:   true,
	models.StatusConfirmed: true,
	models.StatusCompleted: true,
	models.StatusCancelled: true,
}

func (s *Server) handleUpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if !validStatuses[req.Status] {
		respondError(w, http.StatusBadRequest, "invalid_request", "unknown status")
		return
	}

	appointmentID := chi.URLParam(r, "id")
	if err := s.deps.Appointments.UpdateStatus(r.Context(), appointmentID, req.Status); err != nil {
		s.respondLookup(w, nil, err)
		return
	}

	// Completion opens the feedback conversation.
	if req.Status == models.StatusCompleted {
		if appt, err := s.deps.Appointments.GetByID(r.Context(), appointmentID); err == nil {
			if user, uerr := s.deps.Users.GetByID(r.Context(), appt.UserID); uerr == nil {
				if ferr := s.deps.Engine.RequestFeedback(r.Context(), user.PhoneNumber, appointmentID); ferr != nil {
					s.deps.Logger.Warn().Err(ferr).
						Str("appointment", appointmentID).
						Msg("feedback request not sent")
				}
			}
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- export ---

func (s *Server) handleExportAppointments(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" {
		from = time.Now().AddDate(0, -1, 0).Format("2006-01-02")
	}
	if to == "" {
		to = time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	}

	appointments, err := s.deps.Appointments.ListUpcoming(r.Context(), from, to)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="appointments.xlsx"`)
	if err := report.WriteAppointments(w, appointments); err != nil {
		s.deps.Logger.Error().Err(err).Msg("appointments export failed")
	}
}
