package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

func TestSnapshot_NilMeansDeleted(t *testing.T) {
	assert.Nil(t, snapshotFromDomain(nil))

	var snap *AppointmentSnapshot
	assert.Nil(t, snap.toDomain(1, 42))
}

func TestSnapshot_RoundTripPreservesReminderFields(t *testing.T) {
	appt := &domain.Appointment{
		ID:              42,
		SalonID:         1,
		ServiceID:       10,
		EmployeeID:      ptr.Ptr(int64(2)),
		CustomerName:    ptr.Ptr("Анна"),
		CustomerPhone:   ptr.Ptr("+79990000001"),
		StartAt:         time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		Status:          domain.StatusPending,
	}

	restored := snapshotFromDomain(appt).toDomain(appt.SalonID, appt.ID)

	require.NotNil(t, restored)
	assert.Equal(t, appt.ID, restored.ID)
	assert.Equal(t, appt.SalonID, restored.SalonID)
	assert.Equal(t, appt.CustomerPhone, restored.CustomerPhone)
	assert.Equal(t, appt.StartAt, restored.StartAt)
	assert.Equal(t, appt.Status, restored.Status)
	assert.False(t, restored.IsTerminal())
}
