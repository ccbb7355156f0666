package reminders

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ReminderIndex интерфейс индекса отложенных напоминаний
type ReminderIndex interface {
	Upsert(ctx context.Context, rem *domain.PendingReminder) error
	Delete(ctx context.Context, key string) error
}

// Metrics интерфейс метрик планировщика
type Metrics interface {
	IncReminderScheduled(service string)
	IncReminderCancelled(service string)
}

// NopMetrics заглушка метрик, когда сбор метрик отключен
type NopMetrics struct{}

func (NopMetrics) IncReminderScheduled(string) {}
func (NopMetrics) IncReminderCancelled(string) {}

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
