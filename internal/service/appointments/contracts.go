package appointments

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/salonservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, salonID, id int64) (*domain.Appointment, error)
	ListForDay(ctx context.Context, filter domain.SalonDayFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, salonID, id int64, status domain.AppointmentStatus) error
	Cancel(ctx context.Context, salonID, id int64, reason string) error
}

// SalonServiceClient интерфейс клиента справочника салонов
type SalonServiceClient interface {
	GetSalon(ctx context.Context, salonID int64) (*salonservice.Salon, error)
}

// ChangeNotifier получает уведомление о каждом изменении записи
type ChangeNotifier interface {
	OnAppointmentChanged(ctx context.Context, salonID, appointmentID int64, appt *domain.Appointment) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
