package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vishudhGupta/salon-management-api/internal/models"
	"github.com/vishudhGupta/salon-management-api/internal/repository"
)

func TestAvailableBuckets(t *testing.T) {
	ctx := context.Background()
	expert := models.Expert{ExpertID: "EX-MAY-EF56", SalonID: "SL-ROS-AB12"}
	const date = "2026-03-03" // a Tuesday

	t.Run("TemplateMinusConflicts", func(t *testing.T) {
		dir := new(mockDirectory)
		e := newTestEngine(dir)

		dir.On("GetExpertAvailability", mock.Anything, expert.SalonID, expert.ExpertID).
			Return(map[int][]int{2: {9, 2, 5}}, nil)
		dir.On("FindConflictingAppointment", mock.Anything, expert.ExpertID, date, 5).
			Return(&models.Appointment{AppointmentID: "AP-JOH-1234"}, nil)
		dir.On("FindConflictingAppointment", mock.Anything, expert.ExpertID, date, mock.Anything).
			Return(nil, repository.ErrNotFound)

		buckets, err := e.availableBuckets(ctx, expert.SalonID, expert, date)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 9}, buckets, "sorted, conflicted bucket removed")
	})

	t.Run("OutOfRangeTemplateBucketsIgnored", func(t *testing.T) {
		dir := new(mockDirectory)
		e := newTestEngine(dir)

		dir.On("GetExpertAvailability", mock.Anything, expert.SalonID, expert.ExpertID).
			Return(map[int][]int{2: {-1, 0, 13, 12}}, nil)
		dir.On("FindConflictingAppointment", mock.Anything, expert.ExpertID, date, mock.Anything).
			Return(nil, repository.ErrNotFound)

		buckets, err := e.availableBuckets(ctx, expert.SalonID, expert, date)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 12}, buckets)
	})

	t.Run("ClosedWeekday", func(t *testing.T) {
		dir := new(mockDirectory)
		e := newTestEngine(dir)

		dir.On("GetExpertAvailability", mock.Anything, expert.SalonID, expert.ExpertID).
			Return(map[int][]int{0: {1, 2}}, nil) // Sundays only

		buckets, err := e.availableBuckets(ctx, expert.SalonID, expert, date)
		require.NoError(t, err)
		assert.Empty(t, buckets)
	})

	t.Run("BadDate", func(t *testing.T) {
		dir := new(mockDirectory)
		e := newTestEngine(dir)

		_, err := e.availableBuckets(ctx, expert.SalonID, expert, "03/03/2026")
		assert.Error(t, err)
	})
}
