package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ChangeHandler обработчик события изменения записи
// (планировщик напоминаний)
type ChangeHandler interface {
	OnAppointmentChanged(ctx context.Context, salonID, appointmentID int64, appt *domain.Appointment) error
}

// ConsumerConfig настройки потребителя событий
type ConsumerConfig struct {
	Brokers []string
	GroupID string
	Topic   string
}

// Consumer читает события изменения записей из Kafka и передает их
// планировщику напоминаний. Пересчет напоминаний идемпотентен
// (last write wins), поэтому at-least-once доставка безопасна.
type Consumer struct {
	reader  *kafka.Reader
	handler ChangeHandler
	logger  Logger
}

// NewConsumer создает потребитель событий изменения записей
func NewConsumer(cfg ConsumerConfig, handler ChangeHandler, logger Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{
		reader:  reader,
		handler: handler,
		logger:  logger,
	}
}

// Run читает и обрабатывает события до отмены контекста
func (c *Consumer) Run(ctx context.Context) {
	defer c.reader.Close()

	c.logger.Info("events: consumer started")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("events: consumer stopped")
				return
			}
			c.logger.Error("events: kafka read error: %v", err)
			time.Sleep(time.Second)
			continue
		}

		var event AppointmentChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Error("events: failed to unmarshal message at offset %d: %v", msg.Offset, err)
			continue
		}

		if event.EventType != EventTypeAppointmentChanged {
			c.logger.Warn("events: skipping unexpected event type %q", event.EventType)
			continue
		}

		appt := event.Appointment.toDomain(event.SalonID, event.AppointmentID)
		if err := c.handler.OnAppointmentChanged(ctx, event.SalonID, event.AppointmentID, appt); err != nil {
			// Событие будет переиграно при следующем изменении записи;
			// consumer не останавливается из-за одного сбоя
			c.logger.Error("events: handler error for event %s: %v", event.EventID, err)
		}
	}
}
