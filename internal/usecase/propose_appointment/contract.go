package propose_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/salonservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, salonID, id int64) (*domain.Appointment, error)
	ListForDay(ctx context.Context, filter domain.SalonDayFilter) ([]*domain.Appointment, error)
	Reschedule(ctx context.Context, salonID, id int64, appt *domain.Appointment) error
}

// SalonServiceClient интерфейс клиента справочника салонов
type SalonServiceClient interface {
	GetSalon(ctx context.Context, salonID int64) (*salonservice.Salon, error)
	GetService(ctx context.Context, salonID, serviceID int64) (*salonservice.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// ChangeNotifier получает уведомление о каждом изменении записи.
// Реализуется планировщиком напоминаний (синхронный режим) либо
// публикатором событий в Kafka.
type ChangeNotifier interface {
	OnAppointmentChanged(ctx context.Context, salonID, appointmentID int64, appt *domain.Appointment) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
