package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentResponse модель записи для внешних слоев
type AppointmentResponse struct {
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

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []*AppointmentResponse
	Total        int
}

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID int64
	Reason string
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	UserID int64
	Status string
}

// GetSalonDayRequest запрос на список записей салона за день
type GetSalonDayRequest struct {
	SalonID         int64
	Date            time.Time // календарный день, берутся только год/месяц/число
	EmployeeID      *int64
	IncludeInactive bool
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	switch domain.AppointmentStatus(status) {
	case domain.StatusPending, domain.StatusInProgress, domain.StatusCompleted,
		domain.StatusCancelled, domain.StatusNoShow:
		return domain.AppointmentStatus(status), nil
	default:
		return "", fmt.Errorf("unknown appointment status: %q", status)
	}
}

// FromDomainAppointment конвертирует domain запись в модель ответа
func FromDomainAppointment(appt *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                 appt.ID,
		SalonID:            appt.SalonID,
		ServiceID:          appt.ServiceID,
		EmployeeID:         appt.EmployeeID,
		UserID:             appt.UserID,
		CustomerName:       appt.CustomerName,
		CustomerPhone:      appt.CustomerPhone,
		StartAt:            appt.StartAt,
		DurationMinutes:    appt.DurationMinutes,
		Status:             string(appt.Status),
		Notes:              appt.Notes,
		CancellationReason: appt.CancellationReason,
		CancelledAt:        appt.CancelledAt,
		CreatedAt:          appt.CreatedAt,
		UpdatedAt:          appt.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует слайс domain записей в список ответа
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	result := make([]*AppointmentResponse, 0, len(appointments))
	for _, appt := range appointments {
		result = append(result, FromDomainAppointment(appt))
	}
	return &AppointmentListResponse{
		Appointments: result,
		Total:        len(result),
	}
}
