package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Service планировщик напоминаний.
// Держит индекс PendingReminder согласованным с текущим состоянием записи:
// на каждое создание/изменение/удаление записи пересчитывает, положено ли
// напоминание и на какой момент.
type Service struct {
	index        ReminderIndex
	leadTime     time.Duration
	metrics      Metrics
	serviceName  string
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр планировщика напоминаний
func NewService(index ReminderIndex, leadTime time.Duration, metrics Metrics, serviceName string, logger Logger) *Service {
	return &Service{
		index:        index,
		leadTime:     leadTime,
		metrics:      metrics,
		serviceName:  serviceName,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// OnAppointmentChanged пересчитывает напоминание для записи.
// appt == nil означает, что запись удалена.
//
// Операция идемпотентна и коммутативна относительно повторного применения:
// результат — чистая функция от текущего состояния записи, поэтому
// at-least-once доставка событий изменения безопасна (last write wins).
func (s *Service) OnAppointmentChanged(ctx context.Context, salonID, appointmentID int64, appt *domain.Appointment) error {
	key := domain.ReminderKey(salonID, appointmentID)

	// Запись удалена — напоминание снимается
	if appt == nil {
		s.logger.Info("OnAppointmentChanged: appointment salon=%d id=%d deleted, removing reminder", salonID, appointmentID)
		return s.delete(ctx, key)
	}

	// Финальный статус — слот освобожден, напоминание снимается
	if appt.IsTerminal() {
		s.logger.Info("OnAppointmentChanged: appointment salon=%d id=%d is %s, removing reminder",
			salonID, appointmentID, appt.Status)
		return s.delete(ctx, key)
	}

	dueAt := appt.StartAt.Add(-s.leadTime)
	now := s.timeProvider.Now()

	// Напоминать не о чем: срок уже прошел или клиента не с кем связать
	if !dueAt.After(now) || !hasContactPhone(appt) {
		s.logger.Info("OnAppointmentChanged: appointment salon=%d id=%d not eligible (dueAt=%s, phone present=%t), removing reminder",
			salonID, appointmentID, dueAt.Format(time.RFC3339), hasContactPhone(appt))
		return s.delete(ctx, key)
	}

	rem := &domain.PendingReminder{
		SalonID:          salonID,
		AppointmentID:    appointmentID,
		CustomerPhone:    strings.TrimSpace(*appt.CustomerPhone),
		CustomerName:     appt.CustomerName,
		AppointmentStart: appt.StartAt,
		DueAt:            dueAt,
	}

	if err := s.index.Upsert(ctx, rem); err != nil {
		s.logger.Error("OnAppointmentChanged: failed to upsert reminder for salon=%d id=%d: %v",
			salonID, appointmentID, err)
		return fmt.Errorf("%w: upsert reminder: %v", ErrInternal, err)
	}

	s.logger.Info("OnAppointmentChanged: reminder for salon=%d id=%d scheduled at %s",
		salonID, appointmentID, dueAt.Format(time.RFC3339))
	s.metrics.IncReminderScheduled(s.serviceName)
	return nil
}

func (s *Service) delete(ctx context.Context, key string) error {
	if err := s.index.Delete(ctx, key); err != nil {
		s.logger.Error("OnAppointmentChanged: failed to delete reminder %s: %v", key, err)
		return fmt.Errorf("%w: delete reminder: %v", ErrInternal, err)
	}
	s.metrics.IncReminderCancelled(s.serviceName)
	return nil
}

func hasContactPhone(appt *domain.Appointment) bool {
	return appt.CustomerPhone != nil && strings.TrimSpace(*appt.CustomerPhone) != ""
}
