package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// Appointment represents a salon appointment in the system
type Appointment struct {
	ID        int64
	SalonID   int64
	ServiceID int64

	// Optional master assigned to the appointment. When nil the appointment
	// occupies the salon schedule as a whole.
	EmployeeID *int64

	// Customer data, denormalized for reminder delivery
	UserID        *int64
	CustomerName  *string
	CustomerPhone *string

	StartAt         time.Time // absolute instant, stored in UTC
	DurationMinutes int
	Status          AppointmentStatus
	Notes           *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OccupiesSlot returns true if the appointment still holds its time slot
// and must be considered in overlap checks
func (a *Appointment) OccupiesSlot() bool {
	return a.Status == StatusPending || a.Status == StatusInProgress
}

// IsTerminal returns true if the appointment reached a final status
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled || a.Status == StatusNoShow
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusInProgress
}

// CanBeRescheduled returns true if the appointment time can still be changed
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusInProgress
}

// CanTransitionTo reports whether the status state machine permits the
// transition to next. Terminal statuses permit no transitions at all.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	switch a.Status {
	case StatusPending:
		return next == StatusInProgress || next == StatusCancelled || next == StatusNoShow
	case StatusInProgress:
		return next == StatusCompleted || next == StatusCancelled || next == StatusNoShow
	default:
		return false
	}
}

// Window returns the time window occupied by the appointment
func (a *Appointment) Window() TimeWindow {
	return TimeWindow{
		Start:    a.StartAt,
		Duration: time.Duration(a.DurationMinutes) * time.Minute,
	}
}

// SalonDayFilter фильтр для выборки записей салона на календарный день
type SalonDayFilter struct {
	SalonID    int64
	DayStart   time.Time // начало дня в таймзоне салона
	DayEnd     time.Time // начало следующего дня
	EmployeeID *int64    // опционально: только записи конкретного мастера
	OnlyActive bool      // только записи, занимающие слот (pending/in_progress)
}
