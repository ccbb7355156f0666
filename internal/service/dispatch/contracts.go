package dispatch

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/salonservice"
)

// ReminderIndex интерфейс индекса отложенных напоминаний
type ReminderIndex interface {
	ListDue(ctx context.Context, now time.Time) ([]*domain.PendingReminder, error)
	Claim(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, salonID, id int64) (*domain.Appointment, error)
}

// SalonServiceClient интерфейс клиента справочника салонов
type SalonServiceClient interface {
	GetSalon(ctx context.Context, salonID int64) (*salonservice.Salon, error)
}

// SMSSender интерфейс канала доставки уведомлений
type SMSSender interface {
	Send(ctx context.Context, phone string, message string) error
}

// Metrics интерфейс метрик диспетчера
type Metrics interface {
	IncReminderSent(service string)
	IncReminderFailed(service string)
	ObserveDispatchCycle(service string, duration time.Duration)
}

// NopMetrics заглушка метрик, когда сбор метрик отключен
type NopMetrics struct{}

func (NopMetrics) IncReminderSent(string)                     {}
func (NopMetrics) IncReminderFailed(string)                   {}
func (NopMetrics) ObserveDispatchCycle(string, time.Duration) {}

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
