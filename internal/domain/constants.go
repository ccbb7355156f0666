package domain

// Business validation constants
const (
	MinDurationMinutes = 1
	MaxDurationMinutes = 1440 // 24 hours

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxCustomerNameLength       = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses список статусов, занимающих слот в расписании.
// Используется при проверке пересечений.
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusInProgress,
}

// TerminalStatuses список финальных статусов.
// Такие записи освобождают слот и не подлежат напоминаниям.
var TerminalStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}
