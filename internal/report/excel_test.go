package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vishudhGupta/salon-management-api/internal/models"
)

func TestWriteAppointments(t *testing.T) {
	appointments := []models.Appointment{
		{
			AppointmentID: "AP-JOH-1111",
			UserID:        "AM-JOH-2222",
			SalonID:       "SL-ROS-AB12",
			ServiceID:     "SV-CUT-CD34",
			ExpertID:      "EX-MAY-EF56",
			Date:          "2026-03-03",
			TimeBucket:    4,
			Status:        models.StatusConfirmed,
			CreatedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAppointments(&buf, appointments))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Appointments")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Appointment ID", rows[0][0])
	assert.Equal(t, "AP-JOH-1111", rows[1][0])
	assert.Equal(t, "13:00", rows[1][6])
	assert.Equal(t, models.StatusConfirmed, rows[1][7])
}

func TestWriteAppointmentsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAppointments(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Appointments")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
