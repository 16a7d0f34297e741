package directory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishudhGupta/salon-management-api/internal/models"
	"github.com/vishudhGupta/salon-management-api/internal/repository"
)

type fakeUsers struct {
	byPhone map[string]*models.User
	created []*models.User
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.created = append(f.created, user)
	return nil
}

func (f *fakeUsers) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	u, ok := f.byPhone[phone]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

type fakeSalons struct {
	salons []models.Salon
	calls  int
}

func (f *fakeSalons) List(_ context.Context) ([]models.Salon, error) {
	f.calls++
	return f.salons, nil
}

type fakeServices struct {
	services []models.Service
	calls    int
}

func (f *fakeServices) ListBySalon(_ context.Context, _ string) ([]models.Service, error) {
	f.calls++
	return f.services, nil
}

type fakeExperts struct {
	experts []models.Expert
}

func (f *fakeExperts) ListBySalon(_ context.Context, _ string) ([]models.Expert, error) {
	return f.experts, nil
}

func (f *fakeExperts) GetByID(_ context.Context, expertID string) (*models.Expert, error) {
	for i := range f.experts {
		if f.experts[i].ExpertID == expertID {
			return &f.experts[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeAppointments struct{}

func (fakeAppointments) Create(_ context.Context, _ *models.Appointment) error { return nil }
func (fakeAppointments) GetByID(_ context.Context, _ string) (*models.Appointment, error) {
	return nil, repository.ErrNotFound
}
func (fakeAppointments) FindConflict(_ context.Context, _, _ string, _ int) (*models.Appointment, error) {
	return nil, repository.ErrNotFound
}

type fakeRatings struct {
	created []*models.Rating
}

func (f *fakeRatings) Create(_ context.Context, rating *models.Rating) error {
	f.created = append(f.created, rating)
	return nil
}

func newTestDirectory(t *testing.T, withCache bool) (*Directory, *fakeSalons, *fakeServices) {
	t.Helper()
	salons := &fakeSalons{salons: []models.Salon{{SalonID: "SL-ROS-AB12", Name: "Rosewood"}}}
	services := &fakeServices{services: []models.Service{{ServiceID: "SV-CUT-CD34", Name: "Haircut"}}}
	experts := &fakeExperts{experts: []models.Expert{{
		ExpertID:     "EX-MAY-EF56",
		SalonID:      "SL-ROS-AB12",
		Availability: map[int][]int{1: {0, 1}},
	}}}
	d := New(&fakeUsers{byPhone: map[string]*models.User{}}, salons, services, experts, fakeAppointments{}, &fakeRatings{})

	if withCache {
		mr := miniredis.RunT(t)
		d.UseRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	}
	return d, salons, services
}

func TestDirectoryCaching(t *testing.T) {
	ctx := context.Background()

	t.Run("ListSalonsSecondCallServedFromCache", func(t *testing.T) {
		d, salons, _ := newTestDirectory(t, true)

		first, err := d.ListSalons(ctx)
		require.NoError(t, err)
		second, err := d.ListSalons(ctx)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, salons.calls)
	})

	t.Run("ListServicesCachedPerSalon", func(t *testing.T) {
		d, _, services := newTestDirectory(t, true)

		_, err := d.ListServicesForSalon(ctx, "SL-ROS-AB12")
		require.NoError(t, err)
		_, err = d.ListServicesForSalon(ctx, "SL-ROS-AB12")
		require.NoError(t, err)
		assert.Equal(t, 1, services.calls)

		_, err = d.ListServicesForSalon(ctx, "SL-OTH-ZZ99")
		require.NoError(t, err)
		assert.Equal(t, 2, services.calls)
	})

	t.Run("NoRedisMeansPassthrough", func(t *testing.T) {
		d, salons, _ := newTestDirectory(t, false)

		_, err := d.ListSalons(ctx)
		require.NoError(t, err)
		_, err = d.ListSalons(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, salons.calls)
	})

	t.Run("CreateRatingInvalidatesSalonList", func(t *testing.T) {
		d, salons, _ := newTestDirectory(t, true)

		_, err := d.ListSalons(ctx)
		require.NoError(t, err)

		err = d.CreateRating(ctx, &models.Rating{SalonID: "SL-ROS-AB12", Rating: 5})
		require.NoError(t, err)

		_, err = d.ListSalons(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, salons.calls)
	})
}

func TestDirectoryAvailability(t *testing.T) {
	ctx := context.Background()
	d, _, _ := newTestDirectory(t, false)

	t.Run("ReturnsTemplate", func(t *testing.T) {
		tpl, err := d.GetExpertAvailability(ctx, "SL-ROS-AB12", "EX-MAY-EF56")
		require.NoError(t, err)
		assert.Equal(t, map[int][]int{1: {0, 1}}, tpl)
	})

	t.Run("RejectsSalonMismatch", func(t *testing.T) {
		_, err := d.GetExpertAvailability(ctx, "SL-OTH-ZZ99", "EX-MAY-EF56")
		assert.Error(t, err)
	})

	t.Run("UnknownExpert", func(t *testing.T) {
		_, err := d.GetExpertAvailability(ctx, "SL-ROS-AB12", "EX-NON-0000")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
