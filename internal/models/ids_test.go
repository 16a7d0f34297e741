package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDGenerators(t *testing.T) {
	t.Run("UserID", func(t *testing.T) {
		id := NewUserID("Jane Doe")
		assert.Len(t, id, 9)
		assert.Equal(t, "AMJAN", id[:5])
	})

	t.Run("ShortNamePadded", func(t *testing.T) {
		id := NewExpertID("A")
		assert.Len(t, id, 9)
		assert.Equal(t, "EXAXX", id[:5])
	})

	t.Run("NonAlphanumericStripped", func(t *testing.T) {
		id := NewServiceID("H-a!i r c u t")
		assert.Equal(t, "SVHAI", id[:5])
	})

	t.Run("AppointmentID", func(t *testing.T) {
		id := NewAppointmentID("SLABC123", "AMXYZ789")
		assert.Len(t, id, 9)
		assert.Equal(t, "APSLAM", id[:6])
	})

	t.Run("RandomSuffix", func(t *testing.T) {
		a := NewSalonID("OWN1234")
		b := NewSalonID("OWN1234")
		assert.Equal(t, a[:5], b[:5])
		assert.NotEqual(t, a, b)
	})
}

func TestBuckets(t *testing.T) {
	assert.Equal(t, 13, BucketCount)
	assert.Equal(t, "09:00", BucketLabel(0))
	assert.Equal(t, "21:00", BucketLabel(12))

	b, ok := BucketFromHour(9)
	assert.True(t, ok)
	assert.Equal(t, 0, b)

	_, ok = BucketFromHour(8)
	assert.False(t, ok)
	_, ok = BucketFromHour(22)
	assert.False(t, ok)
}

func TestAppointmentStartTime(t *testing.T) {
	a := Appointment{Date: "2026-09-01", TimeBucket: 3}
	start, err := a.StartTime()
	assert.NoError(t, err)
	assert.Equal(t, 12, start.Hour())

	a.Date = "not-a-date"
	_, err = a.StartTime()
	assert.Error(t, err)
}
