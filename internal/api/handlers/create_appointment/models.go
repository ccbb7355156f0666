package create_appointment

import (
	"time"

	proposeAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/propose_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ServiceID       int64   `json:"serviceId"`
	EmployeeID      *int64  `json:"employeeId,omitempty"`
	CustomerName    *string `json:"customerName,omitempty"`
	CustomerPhone   *string `json:"customerPhone,omitempty"`
	StartAt         string  `json:"startAt"` // RFC3339, например "2025-03-01T10:00:00Z"
	DurationMinutes int     `json:"durationMinutes"`
	Notes           *string `json:"notes,omitempty"`
}

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
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(salonID, userID int64) (*proposeAppointment.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	return &proposeAppointment.Request{
		SalonID:         salonID,
		ServiceID:       r.ServiceID,
		EmployeeID:      r.EmployeeID,
		UserID:          &userID,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		StartAt:         startAt,
		DurationMinutes: r.DurationMinutes,
		Notes:           r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *proposeAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		SalonID:         resp.SalonID,
		ServiceID:       resp.ServiceID,
		EmployeeID:      resp.EmployeeID,
		UserID:          resp.UserID,
		CustomerName:    resp.CustomerName,
		CustomerPhone:   resp.CustomerPhone,
		StartAt:         resp.StartAt.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
