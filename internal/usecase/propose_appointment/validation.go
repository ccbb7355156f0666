package propose_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SalonID <= 0 {
		return fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.EmployeeID != nil && *req.EmployeeID <= 0 {
		return fmt.Errorf("%w: employeeID must be positive", ErrInvalidInput)
	}

	if req.AppointmentID != nil && *req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.DurationMinutes < domain.MinDurationMinutes || req.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidDuration, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidStart)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.CustomerName != nil && len(*req.CustomerName) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customer name exceeds %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	return nil
}

// validateStart проверяет, что время начала не в прошлом.
// AllowBackdated отключает проверку для административного ввода
// исторических данных.
func validateStart(startAt time.Time, now time.Time, allowBackdated bool) error {
	if allowBackdated {
		return nil
	}

	if startAt.Before(now) {
		return fmt.Errorf("%w: start time is in the past", ErrInvalidStart)
	}

	return nil
}

// findConflict возвращает первую запись, пересекающуюся с предложенным окном.
// Сравнение полуинтервалов: запись, начинающаяся ровно в момент окончания
// другой, конфликтом не считается.
//
// excludeID исключает саму переносимую запись из проверки.
func findConflict(window domain.TimeWindow, appointments []*domain.Appointment, excludeID *int64) *domain.Appointment {
	for _, appt := range appointments {
		if excludeID != nil && appt.ID == *excludeID {
			continue
		}

		// Финальные статусы слот не занимают
		if !appt.OccupiesSlot() {
			continue
		}

		if window.Overlaps(appt.Window()) {
			return appt
		}
	}

	return nil
}
