package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishudhGupta/salon-management-api/internal/booking"
	"github.com/vishudhGupta/salon-management-api/internal/models"
	"github.com/vishudhGupta/salon-management-api/internal/repository"
)

type fakeEngine struct {
	messages  []string
	feedbacks []string
	outcome   booking.Outcome
}

func (f *fakeEngine) HandleMessage(_ context.Context, recipientID, body string) booking.Outcome {
	f.messages = append(f.messages, recipientID+"|"+body)
	return f.outcome
}

func (f *fakeEngine) RequestFeedback(_ context.Context, recipientID, appointmentID string) error {
	f.feedbacks = append(f.feedbacks, recipientID+"|"+appointmentID)
	return nil
}

type fakeUsers struct {
	byID    map[string]*models.User
	created []*models.User
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	user.UserID = "AM-TST-0001"
	f.created = append(f.created, user)
	return nil
}
func (f *fakeUsers) GetByID(_ context.Context, userID string) (*models.User, error) {
	if u, ok := f.byID[userID]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}
func (f *fakeUsers) List(_ context.Context) ([]models.User, error) { return nil, nil }
func (f *fakeUsers) Delete(_ context.Context, userID string) error {
	if _, ok := f.byID[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, userID)
	return nil
}

type fakeSalons struct {
	byID map[string]*models.Salon
}

func (f *fakeSalons) Create(_ context.Context, salon *models.Salon) error {
	salon.SalonID = "SL-TST-0001"
	return nil
}
func (f *fakeSalons) GetByID(_ context.Context, salonID string) (*models.Salon, error) {
	if s, ok := f.byID[salonID]; ok {
		return s, nil
	}
	return nil, repository.ErrNotFound
}
func (f *fakeSalons) List(_ context.Context) ([]models.Salon, error) {
	var out []models.Salon
	for _, s := range f.byID {
		out = append(out, *s)
	}
	return out, nil
}

type fakeServices struct{}

func (fakeServices) Create(_ context.Context, service *models.Service) error {
	service.ServiceID = "SV-TST-0001"
	return nil
}
func (fakeServices) GetByID(_ context.Context, _ string) (*models.Service, error) {
	return nil, repository.ErrNotFound
}
func (fakeServices) ListBySalon(_ context.Context, _ string) ([]models.Service, error) {
	return []models.Service{{ServiceID: "SV-TST-0001", Name: "Haircut"}}, nil
}

type fakeExperts struct {
	availability map[string]map[int][]int
}

func (f *fakeExperts) Create(_ context.Context, expert *models.Expert) error {
	expert.ExpertID = "EX-TST-0001"
	return nil
}
func (f *fakeExperts) GetByID(_ context.Context, _ string) (*models.Expert, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeExperts) ListBySalon(_ context.Context, _ string) ([]models.Expert, error) {
	return nil, nil
}
func (f *fakeExperts) SetAvailability(_ context.Context, expertID string, availability map[int][]int) error {
	if f.availability == nil {
		f.availability = map[string]map[int][]int{}
	}
	f.availability[expertID] = availability
	return nil
}

type fakeAppointments struct {
	byID    map[string]*models.Appointment
	updated map[string]string
}

func (f *fakeAppointments) GetByID(_ context.Context, appointmentID string) (*models.Appointment, error) {
	if a, ok := f.byID[appointmentID]; ok {
		return a, nil
	}
	return nil, repository.ErrNotFound
}
func (f *fakeAppointments) ListByUser(_ context.Context, _ string) ([]models.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointments) ListBySalon(_ context.Context, _ string) ([]models.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointments) ListUpcoming(_ context.Context, _, _ string) ([]models.Appointment, error) {
	return []models.Appointment{{AppointmentID: "AP-TST-0001", Date: "2026-03-03"}}, nil
}
func (f *fakeAppointments) UpdateStatus(_ context.Context, appointmentID, status string) error {
	if _, ok := f.byID[appointmentID]; !ok {
		return repository.ErrNotFound
	}
	if f.updated == nil {
		f.updated = map[string]string{}
	}
	f.updated[appointmentID] = status
	f.byID[appointmentID].Status = status
	return nil
}

type fakeRatings struct{}

func (fakeRatings) ListBySalon(_ context.Context, _ string) ([]models.Rating, error) {
	return []models.Rating{{Rating: 5}}, nil
}

func newTestServer() (*Server, *fakeEngine, *fakeAppointments, *fakeUsers) {
	engine := &fakeEngine{outcome: booking.OutcomeAdvanced}
	logger := zerolog.New(io.Discard)
	appointments := &fakeAppointments{byID: map[string]*models.Appointment{
		"AP-TST-0001": {
			AppointmentID: "AP-TST-0001",
			UserID:        "AM-TST-0001",
			SalonID:       "SL-TST-0001",
			Status:        models.StatusConfirmed,
		},
	}}
	users := &fakeUsers{byID: map[string]*models.User{
		"AM-TST-0001": {UserID: "AM-TST-0001", Name: "John", PhoneNumber: "+15551230001"},
	}}
	srv := New(Deps{
		Users:  users,
		Salons: &fakeSalons{byID: map[string]*models.Salon{
			"SL-TST-0001": {SalonID: "SL-TST-0001", Name: "Rosewood"},
		}},
		Services:     fakeServices{},
		Experts:      &fakeExperts{},
		Appointments: appointments,
		Ratings:      fakeRatings{},
		Engine:       engine,
		Logger:       &logger,
	})
	return srv, engine, appointments, users
}

func TestWhatsAppWebhook(t *testing.T) {
	srv, engine, _, _ := newTestServer()
	router := srv.Router()

	t.Run("DeliversToEngine", func(t *testing.T) {
		form := url.Values{}
		form.Set("From", "whatsapp:+15551230001")
		form.Set("Body", "hi")

		req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "<Response></Response>")
		require.Len(t, engine.messages, 1)
		assert.Equal(t, "whatsapp:+15551230001|hi", engine.messages[0])
	})

	t.Run("MissingFrom", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader("Body=hi"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestRecordEndpoints(t *testing.T) {
	srv, engine, appointments, users := newTestServer()
	router := srv.Router()

	t.Run("CreateUserValidates", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"name": "Jane", "phone_number": "+15550002222", "password": "short"})
		req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		body, _ = json.Marshal(map[string]string{"name": "Jane", "phone_number": "+15550002222", "password": "longenough1"})
		req = httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(body))
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Code)
		require.Len(t, users.created, 1)
		assert.Equal(t, "AM-TST-0001", users.created[0].UserID)
	})

	t.Run("GetUserNotFound", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/AM-NON-0000", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("SalonDashboard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/salons/SL-TST-0001/dashboard", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		for _, key := range []string{"salon", "services", "experts", "appointments", "ratings"} {
			assert.Contains(t, body, key)
		}
	})

	t.Run("SetAvailabilityRejectsBadBucket", func(t *testing.T) {
		body, _ := json.Marshal(map[int][]int{1: {99}})
		req := httptest.NewRequest(http.MethodPut, "/api/experts/EX-TST-0001/availability", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("CompletionTriggersFeedback", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"status": models.StatusCompleted})
		req := httptest.NewRequest(http.MethodPut, "/api/appointments/AP-TST-0001/status", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, models.StatusCompleted, appointments.updated["AP-TST-0001"])
		require.Len(t, engine.feedbacks, 1)
		assert.Equal(t, "+15551230001|AP-TST-0001", engine.feedbacks[0])
	})

	t.Run("UnknownStatusRejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"status": "done"})
		req := httptest.NewRequest(http.MethodPut, "/api/appointments/AP-TST-0001/status", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("ExportReturnsWorkbook", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/appointments/export", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "spreadsheetml")
		assert.NotZero(t, rr.Body.Len())
	})

	t.Run("Health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
