package propose_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	salonClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/salonservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// UseCase use case создания и переноса записи.
// Проверка доступности слота и запись выполняются в одной сериализуемой
// транзакции: две конкурентные заявки не могут одновременно считать слот
// свободным.
type UseCase struct {
	apptRepo     AppointmentRepository
	salonClient  SalonServiceClient
	txManager    TransactionManager
	notifier     ChangeNotifier
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	apptRepo AppointmentRepository,
	salonSvc SalonServiceClient,
	txManager TransactionManager,
	notifier ChangeNotifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:     apptRepo,
		salonClient:  salonSvc,
		txManager:    txManager,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет создание или перенос записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ProposeAppointment: salon=%d, service=%d, employee=%v, start=%s, duration=%d",
		req.SalonID, req.ServiceID, req.EmployeeID, req.StartAt.Format(time.RFC3339), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ProposeAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем, что время начала не в прошлом
	if err := validateStart(req.StartAt, now, req.AllowBackdated); err != nil {
		uc.logger.Warn("ProposeAppointment: start validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем салон из справочника
	salon, err := uc.salonClient.GetSalon(ctx, req.SalonID)
	if err != nil {
		if errors.Is(err, salonClient.ErrSalonNotFound) {
			uc.logger.Warn("ProposeAppointment: salon id=%d not found", req.SalonID)
			return nil, ErrSalonNotFound
		}
		uc.logger.Error("ProposeAppointment: failed to get salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
	}

	// 5. Проверяем принадлежность услуги салону
	if _, err := uc.salonClient.GetService(ctx, req.SalonID, req.ServiceID); err != nil {
		if errors.Is(err, salonClient.ErrServiceNotFound) {
			uc.logger.Warn("ProposeAppointment: service id=%d not found in salon id=%d", req.ServiceID, req.SalonID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("ProposeAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 6. Проверяем, что мастер числится в салоне (если указан)
	if req.EmployeeID != nil && !salon.HasEmployee(*req.EmployeeID) {
		uc.logger.Warn("ProposeAppointment: employee id=%d not found in salon id=%d", *req.EmployeeID, req.SalonID)
		return nil, ErrEmployeeNotFound
	}

	// 7. Вычисляем границы календарного дня в таймзоне салона
	loc := uc.salonLocation(salon)
	dayStart, dayEnd := domain.DayBoundsFor(req.StartAt, loc)

	window := domain.NewTimeWindow(req.StartAt, req.DurationMinutes)

	// Переменная для хранения результата
	var result *domain.Appointment

	// 8. Проверка пересечений и запись — в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var existing *domain.Appointment

		// 8.1. При переносе получаем существующую запись и проверяем статус
		if req.AppointmentID != nil {
			var err error
			existing, err = uc.apptRepo.GetByID(txCtx, req.SalonID, *req.AppointmentID)
			if err != nil {
				uc.logger.Warn("ProposeAppointment: appointment id=%d not found in salon id=%d: %v",
					*req.AppointmentID, req.SalonID, err)
				return ErrAppointmentNotFound
			}

			if !existing.CanBeRescheduled() {
				uc.logger.Warn("ProposeAppointment: appointment id=%d has status %s, cannot reschedule",
					existing.ID, existing.Status)
				return ErrCannotReschedule
			}
		}

		// 8.2. Получаем активные записи салона на этот день с блокировкой (FOR UPDATE).
		// Если мастер указан, сравниваем только с его записями.
		appointments, err := uc.apptRepo.ListForDay(txCtx, domain.SalonDayFilter{
			SalonID:    req.SalonID,
			DayStart:   dayStart,
			DayEnd:     dayEnd,
			EmployeeID: req.EmployeeID,
			OnlyActive: true,
		})
		if err != nil {
			uc.logger.Error("ProposeAppointment: failed to list appointments: %v", err)
			return fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
		}

		// 8.3. Проверяем пересечение полуинтервалов
		if conflict := findConflict(window, appointments, req.AppointmentID); conflict != nil {
			uc.logger.Warn("ProposeAppointment: slot taken by appointment id=%d [%s, %s)",
				conflict.ID,
				conflict.StartAt.Format(time.RFC3339),
				conflict.Window().End().Format(time.RFC3339))
			return ErrSlotTaken
		}

		// 8.4. Фиксируем запись
		if existing != nil {
			existing.StartAt = req.StartAt
			existing.DurationMinutes = req.DurationMinutes
			existing.ServiceID = req.ServiceID
			existing.EmployeeID = req.EmployeeID
			if req.Notes != nil {
				existing.Notes = req.Notes
			}

			if err := uc.apptRepo.Reschedule(txCtx, req.SalonID, existing.ID, existing); err != nil {
				uc.logger.Error("ProposeAppointment: failed to reschedule appointment id=%d: %v", existing.ID, err)
				return fmt.Errorf("%w: failed to reschedule appointment: %v", ErrInternal, err)
			}

			result = existing
			return nil
		}

		appt := &domain.Appointment{
			SalonID:         req.SalonID,
			ServiceID:       req.ServiceID,
			EmployeeID:      req.EmployeeID,
			UserID:          req.UserID,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			StartAt:         req.StartAt,
			DurationMinutes: req.DurationMinutes,
			Status:          domain.StatusPending,
			Notes:           req.Notes,
		}

		created, err := uc.apptRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("ProposeAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Проигранная гонка за слот: сериализуемая транзакция откатилась —
		// другая заявка успела занять слот первой
		if txmanager.IsSerializationFailure(err) {
			uc.logger.Warn("ProposeAppointment: serialization failure, slot lost to concurrent request")
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	uc.logger.Info("ProposeAppointment: committed appointment id=%d in salon=%d", result.ID, result.SalonID)

	// 9. Уведомляем планировщик напоминаний. Запись уже зафиксирована:
	// ошибка хука не отменяет бронирование, пересчет произойдет при
	// следующем изменении записи.
	if err := uc.notifier.OnAppointmentChanged(ctx, result.SalonID, result.ID, result); err != nil {
		uc.logger.Warn("ProposeAppointment: change notification failed for appointment id=%d: %v", result.ID, err)
	}

	return toResponse(result), nil
}

// salonLocation возвращает таймзону салона; при некорректном имени — UTC
func (uc *UseCase) salonLocation(salon *salonClient.Salon) *time.Location {
	if salon.Timezone == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(salon.Timezone)
	if err != nil {
		uc.logger.Warn("ProposeAppointment: salon id=%d has invalid timezone %q, falling back to UTC",
			salon.ID, salon.Timezone)
		return time.UTC
	}

	return loc
}

func toResponse(appt *domain.Appointment) *Response {
	return &Response{
		ID:              appt.ID,
		SalonID:         appt.SalonID,
		ServiceID:       appt.ServiceID,
		EmployeeID:      appt.EmployeeID,
		UserID:          appt.UserID,
		CustomerName:    appt.CustomerName,
		CustomerPhone:   appt.CustomerPhone,
		StartAt:         appt.StartAt,
		DurationMinutes: appt.DurationMinutes,
		Status:          string(appt.Status),
		Notes:           appt.Notes,
		CreatedAt:       appt.CreatedAt,
		UpdatedAt:       appt.UpdatedAt,
	}
}
