package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	apptStorage "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
)

// Config настройки диспетчера напоминаний
type Config struct {
	// Interval период опроса индекса напоминаний
	Interval time.Duration
	// SendTimeout таймаут одного обращения к SMS шлюзу.
	// Ограничивает время обработки элемента, чтобы зависший вызов шлюза
	// не пережил период опроса.
	SendTimeout time.Duration
	// ServiceName имя сервиса для меток метрик
	ServiceName string
}

// Service диспетчер напоминаний.
// Периодически выбирает из индекса просроченные напоминания и доставляет их
// через SMS шлюз. Каждое напоминание перед отправкой изымается из индекса
// (claim) — при падении процесса или ошибке шлюза напоминание теряется,
// но повторная отправка исключена.
type Service struct {
	index        ReminderIndex
	appointments AppointmentRepository
	salons       SalonServiceClient
	sender       SMSSender
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	cfg          Config
}

// NewService создает новый экземпляр диспетчера напоминаний
func NewService(
	index ReminderIndex,
	appointments AppointmentRepository,
	salons SalonServiceClient,
	sender SMSSender,
	metrics Metrics,
	logger Logger,
	cfg Config,
) *Service {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	return &Service{
		index:        index,
		appointments: appointments,
		salons:       salons,
		sender:       sender,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		cfg:          cfg,
	}
}

// Run запускает периодический цикл диспетчеризации до отмены контекста
func (s *Service) Run(ctx context.Context) {
	s.logger.Info("Dispatcher: started, interval=%s", s.cfg.Interval)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Dispatcher: stopped")
			return
		case <-ticker.C:
			if err := s.RunCycle(ctx); err != nil {
				s.logger.Error("Dispatcher: cycle failed: %v", err)
			}
		}
	}
}

// RunCycle выполняет один цикл диспетчеризации: выбирает все просроченные
// напоминания и обрабатывает их независимо и конкурентно. Ошибка одного
// элемента не влияет на остальные; всё, что стало просроченным позже,
// подберет следующий цикл.
func (s *Service) RunCycle(ctx context.Context) error {
	started := s.timeProvider.Now()
	defer func() {
		s.metrics.ObserveDispatchCycle(s.cfg.ServiceName, time.Since(started))
	}()

	due, err := s.index.ListDue(ctx, started)
	if err != nil {
		return fmt.Errorf("dispatch: list due reminders: %w", err)
	}

	if len(due) == 0 {
		return nil
	}

	s.logger.Info("Dispatcher: %d reminder(s) due", len(due))

	var wg sync.WaitGroup
	for _, rem := range due {
		wg.Add(1)
		go func(rem *domain.PendingReminder) {
			defer wg.Done()
			s.process(ctx, rem)
		}(rem)
	}
	wg.Wait()

	return nil
}

// process обрабатывает одно напоминание: перепроверяет живую запись,
// изымает элемент из индекса и только затем пытается отправить SMS
func (s *Service) process(ctx context.Context, rem *domain.PendingReminder) {
	key := rem.Key()

	// Перепроверяем запись: она могла быть отменена или завершена после
	// планирования напоминания
	appt, err := s.appointments.GetByID(ctx, rem.SalonID, rem.AppointmentID)
	if err != nil {
		if errors.Is(err, apptStorage.ErrAppointmentNotFound) {
			s.logger.Info("Dispatcher: appointment for %s is gone, dropping reminder", key)
			if delErr := s.index.Delete(ctx, key); delErr != nil {
				s.logger.Error("Dispatcher: failed to drop reminder %s: %v", key, delErr)
			}
			return
		}
		// Временная ошибка БД: оставляем элемент, следующий цикл повторит
		s.logger.Error("Dispatcher: failed to fetch appointment for %s: %v", key, err)
		return
	}

	if appt.IsTerminal() {
		s.logger.Info("Dispatcher: appointment for %s is %s, dropping reminder", key, appt.Status)
		if delErr := s.index.Delete(ctx, key); delErr != nil {
			s.logger.Error("Dispatcher: failed to drop reminder %s: %v", key, delErr)
		}
		return
	}

	// Изымаем напоминание из индекса ДО отправки. Порядок принципиален:
	// даже если процесс упадет посреди доставки, повторной отправки не
	// будет. Цена — потеря напоминания при ошибке шлюза (без re-queue).
	claimed, err := s.index.Claim(ctx, key)
	if err != nil {
		s.logger.Error("Dispatcher: claim error for %s: %v", key, err)
	}
	if !claimed {
		// Конкурентный диспетчер успел первым
		return
	}

	message := s.formatMessage(ctx, rem, appt)

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()

	if err := s.sender.Send(sendCtx, rem.CustomerPhone, message); err != nil {
		// Напоминание уже изъято из индекса и не будет отправлено повторно
		s.logger.Error("Dispatcher: failed to send reminder %s to %s: %v", key, rem.CustomerPhone, err)
		s.metrics.IncReminderFailed(s.cfg.ServiceName)
		return
	}

	s.logger.Info("Dispatcher: reminder %s sent to %s", key, rem.CustomerPhone)
	s.metrics.IncReminderSent(s.cfg.ServiceName)
}

// formatMessage формирует текст SMS с локальным временем записи.
// Таймзона берется из справочника салона; при недоступности справочника
// используется UTC.
func (s *Service) formatMessage(ctx context.Context, rem *domain.PendingReminder, appt *domain.Appointment) string {
	loc := time.UTC
	salonName := ""

	salon, err := s.salons.GetSalon(ctx, rem.SalonID)
	if err != nil {
		s.logger.Warn("Dispatcher: failed to fetch salon %d, formatting in UTC: %v", rem.SalonID, err)
	} else {
		salonName = salon.Name
		if salonLoc, locErr := time.LoadLocation(salon.Timezone); locErr == nil {
			loc = salonLoc
		} else {
			s.logger.Warn("Dispatcher: salon %d has invalid timezone %q: %v", rem.SalonID, salon.Timezone, locErr)
		}
	}

	localStart := appt.StartAt.In(loc)

	greeting := "Здравствуйте!"
	if rem.CustomerName != nil && *rem.CustomerName != "" {
		greeting = fmt.Sprintf("Здравствуйте, %s!", *rem.CustomerName)
	}

	if salonName != "" {
		return fmt.Sprintf("%s Напоминаем о записи в «%s» %s в %s. Ждём вас!",
			greeting, salonName, localStart.Format(domain.DateFormat), localStart.Format(domain.TimeFormat))
	}
	return fmt.Sprintf("%s Напоминаем о вашей записи %s в %s. Ждём вас!",
		greeting, localStart.Format(domain.DateFormat), localStart.Format(domain.TimeFormat))
}
