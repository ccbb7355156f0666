package get_salon_appointments

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	SalonID         int64   `json:"salonId"`
	ServiceID       int64   `json:"serviceId"`
	EmployeeID      *int64  `json:"employeeId,omitempty"`
	UserID          *int64  `json:"userId,omitempty"`
	CustomerName    *string `json:"customerName,omitempty"`
	CustomerPhone   *string `json:"customerPhone,omitempty"`
	StartAt         string  `json:"startAt"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// AppointmentListResponse HTTP response model
type AppointmentListResponse struct {
	Appointments []*AppointmentResponse `json:"appointments"`
	Total        int                    `json:"total"`
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(resp *models.AppointmentListResponse) *AppointmentListResponse {
	appts := make([]*AppointmentResponse, 0, len(resp.Appointments))
	for _, appt := range resp.Appointments {
		appts = append(appts, fromServiceAppointment(appt))
	}
	return &AppointmentListResponse{
		Appointments: appts,
		Total:        resp.Total,
	}
}

func fromServiceAppointment(resp *models.AppointmentResponse) *AppointmentResponse {
	var cancelledAt *string
	if resp.CancelledAt != nil {
		v := resp.CancelledAt.Format(time.RFC3339)
		cancelledAt = &v
	}

	return &AppointmentResponse{
		ID:                 resp.ID,
		SalonID:            resp.SalonID,
		ServiceID:          resp.ServiceID,
		EmployeeID:         resp.EmployeeID,
		UserID:             resp.UserID,
		CustomerName:       resp.CustomerName,
		CustomerPhone:      resp.CustomerPhone,
		StartAt:            resp.StartAt.Format(time.RFC3339),
		DurationMinutes:    resp.DurationMinutes,
		Status:             resp.Status,
		Notes:              resp.Notes,
		CancellationReason: resp.CancellationReason,
		CancelledAt:        cancelledAt,
		CreatedAt:          resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          resp.UpdatedAt.Format(time.RFC3339),
	}
}
