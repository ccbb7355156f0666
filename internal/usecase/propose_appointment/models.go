package propose_appointment

import (
	"time"
)

// Request модель запроса на создание или перенос записи.
// Если AppointmentID задан — это перенос существующей записи,
// иначе создание новой.
type Request struct {
	SalonID       int64
	AppointmentID *int64 // nil = создание новой записи
	ServiceID     int64
	EmployeeID    *int64 // опционально: конкретный мастер

	UserID        *int64
	CustomerName  *string
	CustomerPhone *string

	StartAt         time.Time // абсолютный момент начала
	DurationMinutes int
	Notes           *string

	// AllowBackdated разрешает запись задним числом
	// (административный ввод исторических данных)
	AllowBackdated bool
}

// Response модель ответа с созданной или перенесенной записью
type Response struct {
	ID         int64
	SalonID    int64
	ServiceID  int64
	EmployeeID *int64

	UserID        *int64
	CustomerName  *string
	CustomerPhone *string

	StartAt         time.Time
	DurationMinutes int
	Status          string
	Notes           *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
