package events

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// EventTypeAppointmentChanged тип события изменения записи
const EventTypeAppointmentChanged = "appointment.changed.v1"

// AppointmentChangedEvent событие изменения записи.
// Appointment == nil означает удаление записи; для напоминаний это
// эквивалентно финальному статусу.
type AppointmentChangedEvent struct {
	EventID       string               `json:"eventId"`
	EventType     string               `json:"eventType"`
	OccurredAt    time.Time            `json:"occurredAt"`
	SalonID       int64                `json:"salonId"`
	AppointmentID int64                `json:"appointmentId"`
	Appointment   *AppointmentSnapshot `json:"appointment,omitempty"`
}

// AppointmentSnapshot срез состояния записи, достаточный для пересчета
// напоминания на стороне потребителя
type AppointmentSnapshot struct {
	ServiceID       int64     `json:"serviceId"`
	EmployeeID      *int64    `json:"employeeId,omitempty"`
	UserID          *int64    `json:"userId,omitempty"`
	CustomerName    *string   `json:"customerName,omitempty"`
	CustomerPhone   *string   `json:"customerPhone,omitempty"`
	StartAt         time.Time `json:"startAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
}

// snapshotFromDomain конвертирует domain запись в снапшот события
func snapshotFromDomain(appt *domain.Appointment) *AppointmentSnapshot {
	if appt == nil {
		return nil
	}
	return &AppointmentSnapshot{
		ServiceID:       appt.ServiceID,
		EmployeeID:      appt.EmployeeID,
		UserID:          appt.UserID,
		CustomerName:    appt.CustomerName,
		CustomerPhone:   appt.CustomerPhone,
		StartAt:         appt.StartAt,
		DurationMinutes: appt.DurationMinutes,
		Status:          string(appt.Status),
	}
}

// toDomain восстанавливает domain запись из снапшота события
func (s *AppointmentSnapshot) toDomain(salonID, appointmentID int64) *domain.Appointment {
	if s == nil {
		return nil
	}
	return &domain.Appointment{
		ID:              appointmentID,
		SalonID:         salonID,
		ServiceID:       s.ServiceID,
		EmployeeID:      s.EmployeeID,
		UserID:          s.UserID,
		CustomerName:    s.CustomerName,
		CustomerPhone:   s.CustomerPhone,
		StartAt:         s.StartAt,
		DurationMinutes: s.DurationMinutes,
		Status:          domain.AppointmentStatus(s.Status),
	}
}
