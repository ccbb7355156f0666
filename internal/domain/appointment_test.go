package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppointment_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusNoShow, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusPending, false},

		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusNoShow, true},
		{StatusInProgress, StatusPending, false},

		// Terminal statuses are frozen
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusNoShow, StatusPending, false},
		{StatusNoShow, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			appt := &Appointment{Status: tt.from}
			assert.Equal(t, tt.allowed, appt.CanTransitionTo(tt.to))
		})
	}
}

func TestAppointment_OccupiesSlot(t *testing.T) {
	assert.True(t, (&Appointment{Status: StatusPending}).OccupiesSlot())
	assert.True(t, (&Appointment{Status: StatusInProgress}).OccupiesSlot())
	assert.False(t, (&Appointment{Status: StatusCompleted}).OccupiesSlot())
	assert.False(t, (&Appointment{Status: StatusCancelled}).OccupiesSlot())
	assert.False(t, (&Appointment{Status: StatusNoShow}).OccupiesSlot())
}

func TestAppointment_IsTerminal(t *testing.T) {
	for _, status := range ActiveStatuses {
		assert.False(t, (&Appointment{Status: status}).IsTerminal(), "status %s", status)
	}
	for _, status := range TerminalStatuses {
		assert.True(t, (&Appointment{Status: status}).IsTerminal(), "status %s", status)
	}
}

func TestAppointment_CanBeCancelled(t *testing.T) {
	assert.True(t, (&Appointment{Status: StatusPending}).CanBeCancelled())
	assert.True(t, (&Appointment{Status: StatusInProgress}).CanBeCancelled())
	assert.False(t, (&Appointment{Status: StatusCancelled}).CanBeCancelled())
	assert.False(t, (&Appointment{Status: StatusCompleted}).CanBeCancelled())
	assert.False(t, (&Appointment{Status: StatusNoShow}).CanBeCancelled())
}

func TestAppointment_Window(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	appt := &Appointment{StartAt: start, DurationMinutes: 30}

	w := appt.Window()
	assert.Equal(t, start, w.Start)
	assert.Equal(t, start.Add(30*time.Minute), w.End())
}

func TestReminderKey(t *testing.T) {
	assert.Equal(t, "salon:1:appt:42", ReminderKey(1, 42))

	rem := &PendingReminder{SalonID: 1, AppointmentID: 42}
	assert.Equal(t, ReminderKey(1, 42), rem.Key())
}
