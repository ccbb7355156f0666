package domain

import (
	"fmt"
	"time"
)

// PendingReminder represents a scheduled SMS reminder for an appointment.
// At most one pending reminder exists per appointment at any time.
type PendingReminder struct {
	SalonID       int64
	AppointmentID int64

	// Denormalized display fields so the dispatcher can format the message
	// without extra lookups
	CustomerPhone    string
	CustomerName     *string
	AppointmentStart time.Time

	// DueAt is the instant at which the reminder becomes eligible for
	// delivery: appointment start minus the configured lead time
	DueAt time.Time
}

// Key returns the deterministic index key for the reminder.
// The key is derived from (salon, appointment), which guarantees the
// at-most-one-reminder-per-appointment invariant on upsert.
func (r *PendingReminder) Key() string {
	return ReminderKey(r.SalonID, r.AppointmentID)
}

// ReminderKey builds the index key for a (salon, appointment) pair
func ReminderKey(salonID, appointmentID int64) string {
	return fmt.Sprintf("salon:%d:appt:%d", salonID, appointmentID)
}
