package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	salonClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/salonservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис для чтения записей и переходов статусов.
// Каждое изменение статуса проходит через машину состояний
// pending → in_progress → completed с боковыми выходами в
// cancelled / no_show; финальные статусы неизменяемы.
type Service struct {
	apptRepo    AppointmentRepository
	salonClient SalonServiceClient
	notifier    ChangeNotifier
	logger      Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	repo AppointmentRepository,
	salonSvc SalonServiceClient,
	notifier ChangeNotifier,
	logger Logger,
) *Service {
	return &Service{
		apptRepo:    repo,
		salonClient: salonSvc,
		notifier:    notifier,
		logger:      logger,
	}
}

// GetByID получает запись по (salonID, id)
func (s *Service) GetByID(ctx context.Context, salonID, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment salon=%d id=%d", salonID, id)

	appt, err := s.apptRepo.GetByID(ctx, salonID, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment salon=%d id=%d not found", salonID, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment salon=%d id=%d: %v", salonID, id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// GetSalonDay получает записи салона на календарный день.
// Границы дня вычисляются в таймзоне салона.
func (s *Service) GetSalonDay(ctx context.Context, req *models.GetSalonDayRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetSalonDay: salon=%d, date=%s, employee=%v, includeInactive=%t",
		req.SalonID, req.Date.Format(domain.DateFormat), req.EmployeeID, req.IncludeInactive)

	salon, err := s.salonClient.GetSalon(ctx, req.SalonID)
	if err != nil {
		if errors.Is(err, salonClient.ErrSalonNotFound) {
			s.logger.Warn("GetSalonDay: salon id=%d not found", req.SalonID)
			return nil, ErrSalonNotFound
		}
		s.logger.Error("GetSalonDay: failed to get salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: GetSalonDay - failed to get salon: %v", ErrInternal, err)
	}

	loc := time.UTC
	if salon.Timezone != "" {
		if salonLoc, locErr := time.LoadLocation(salon.Timezone); locErr == nil {
			loc = salonLoc
		} else {
			s.logger.Warn("GetSalonDay: salon id=%d has invalid timezone %q, using UTC", req.SalonID, salon.Timezone)
		}
	}

	// Дата трактуется как календарный день, а не момент времени,
	// поэтому границы строятся из компонентов даты в таймзоне салона.
	year, month, day := req.Date.Date()
	dayStart := time.Date(year, month, day, 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	appointments, err := s.apptRepo.ListForDay(ctx, domain.SalonDayFilter{
		SalonID:    req.SalonID,
		DayStart:   dayStart,
		DayEnd:     dayEnd,
		EmployeeID: req.EmployeeID,
		OnlyActive: !req.IncludeInactive,
	})
	if err != nil {
		s.logger.Error("GetSalonDay: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: GetSalonDay - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSalonDay: fetched %d appointment(s) for salon=%d", len(appointments), req.SalonID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись с указанием причины.
// Отмена возможна только из статусов pending и in_progress.
func (s *Service) Cancel(ctx context.Context, salonID, id int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment salon=%d id=%d by user=%d", salonID, id, req.UserID)

	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason exceeds %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	appt, err := s.apptRepo.GetByID(ctx, salonID, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment salon=%d id=%d not found", salonID, id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment salon=%d id=%d: %v", salonID, id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment salon=%d id=%d cannot be cancelled, status=%s", salonID, id, appt.Status)
		return ErrCannotCancel
	}

	if err := s.apptRepo.Cancel(ctx, salonID, id, req.Reason); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment salon=%d id=%d: %v", salonID, id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: appointment salon=%d id=%d cancelled", salonID, id)

	s.notifyChanged(ctx, salonID, id)
	return nil
}

// UpdateStatus переводит запись в новый статус с проверкой машины состояний
func (s *Service) UpdateStatus(ctx context.Context, salonID, id int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: appointment salon=%d id=%d -> %s by user=%d", salonID, id, req.Status, req.UserID)

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status %q for appointment salon=%d id=%d", req.Status, salonID, id)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	appt, err := s.apptRepo.GetByID(ctx, salonID, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment salon=%d id=%d not found", salonID, id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment salon=%d id=%d: %v", salonID, id, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if !appt.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s not permitted for appointment salon=%d id=%d",
			appt.Status, newStatus, salonID, id)
		return ErrInvalidTransition
	}

	if err := s.apptRepo.UpdateStatus(ctx, salonID, id, newStatus); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment salon=%d id=%d: %v", salonID, id, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: appointment salon=%d id=%d moved to %s", salonID, id, newStatus)

	s.notifyChanged(ctx, salonID, id)
	return nil
}

// notifyChanged перечитывает запись и уведомляет планировщик напоминаний.
// Изменение уже зафиксировано, поэтому ошибки хука только логируются.
func (s *Service) notifyChanged(ctx context.Context, salonID, id int64) {
	appt, err := s.apptRepo.GetByID(ctx, salonID, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			appt = nil
		} else {
			s.logger.Warn("notifyChanged: failed to re-fetch appointment salon=%d id=%d: %v", salonID, id, err)
			return
		}
	}

	if err := s.notifier.OnAppointmentChanged(ctx, salonID, id, appt); err != nil {
		s.logger.Warn("notifyChanged: change notification failed for appointment salon=%d id=%d: %v", salonID, id, err)
	}
}
