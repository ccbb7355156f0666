package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события изменения записей в Kafka.
// Реализует тот же интерфейс ChangeNotifier, что и планировщик напоминаний:
// в многоэкземплярном развертывании пересчет напоминаний выполняет
// потребитель топика, а не обработчик запроса.
type Publisher struct {
	writer *kafka.Writer
	logger Logger
}

// NewPublisher создает публикатор событий
func NewPublisher(brokers []string, topic string, logger Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

// OnAppointmentChanged публикует событие изменения записи.
// Ключ сообщения — ключ напоминания: события одной записи попадают
// в одну партицию и обрабатываются по порядку.
func (p *Publisher) OnAppointmentChanged(ctx context.Context, salonID, appointmentID int64, appt *domain.Appointment) error {
	event := AppointmentChangedEvent{
		EventID:       uuid.NewString(),
		EventType:     EventTypeAppointmentChanged,
		OccurredAt:    time.Now().UTC(),
		SalonID:       salonID,
		AppointmentID: appointmentID,
		Appointment:   snapshotFromDomain(appt),
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(domain.ReminderKey(salonID, appointmentID)),
		Value: raw,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(event.EventID)},
			{Key: "event-type", Value: []byte(event.EventType)},
			{Key: "salon-id", Value: []byte(strconv.FormatInt(salonID, 10))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: write message: %w", err)
	}

	p.logger.Info("events: published %s for salon=%d appointment=%d", event.EventType, salonID, appointmentID)
	return nil
}

// Close закрывает Kafka writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}
