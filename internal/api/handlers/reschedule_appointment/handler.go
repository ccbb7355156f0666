package reschedule_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	proposeAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/propose_appointment"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidSalonID        = "некорректный ID салона"
	msgInvalidAppointmentID  = "некорректный ID записи"
	msgInvalidStartAt        = "некорректный формат времени начала, ожидается RFC3339"
	msgSlotTaken             = "выбранный временной слот уже занят"
	msgAppointmentNotFound   = "запись не найдена"
	msgCannotReschedule      = "запись в финальном статусе нельзя перенести"
	msgSalonNotFound         = "салон не найден"
	msgServiceNotFound       = "услуга не найдена"
	msgEmployeeNotFound      = "мастер не найден в салоне"
	msgInvalidDuration       = "некорректная длительность записи"
	msgInvalidStart          = "время начала некорректно или уже прошло"
	msgInvalidInput          = "некорректные входные данные"
)

type Handler struct {
	useCase ProposeAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase ProposeAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/salons/{salonId}/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	salonID, err := strconv.ParseInt(vars["salonId"], 10, 64)
	if err != nil || salonID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil || appointmentID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	var req RescheduleAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(salonID, appointmentID, userID)
	if err != nil {
		h.logger.Warn("PATCH /appointments/reschedule - Failed to parse startAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondUseCaseError(w, salonID, appointmentID, err)
		return
	}

	h.logger.Info("PATCH /appointments/reschedule - Appointment rescheduled: id=%d, salon_id=%d", appointmentID, salonID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func (h *Handler) respondUseCaseError(w http.ResponseWriter, salonID, appointmentID int64, err error) {
	switch {
	case errors.Is(err, proposeAppointment.ErrSlotTaken):
		h.logger.Warn("PATCH /appointments/reschedule - Slot taken: salon_id=%d, appointment_id=%d", salonID, appointmentID)
		handlers.RespondConflict(w, msgSlotTaken)

	case errors.Is(err, proposeAppointment.ErrAppointmentNotFound):
		handlers.RespondNotFound(w, msgAppointmentNotFound)

	case errors.Is(err, proposeAppointment.ErrCannotReschedule):
		h.logger.Warn("PATCH /appointments/reschedule - Cannot reschedule: salon_id=%d, appointment_id=%d", salonID, appointmentID)
		handlers.RespondConflict(w, msgCannotReschedule)

	case errors.Is(err, proposeAppointment.ErrSalonNotFound):
		handlers.RespondNotFound(w, msgSalonNotFound)

	case errors.Is(err, proposeAppointment.ErrServiceNotFound):
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, proposeAppointment.ErrEmployeeNotFound):
		handlers.RespondNotFound(w, msgEmployeeNotFound)

	case errors.Is(err, proposeAppointment.ErrInvalidDuration):
		handlers.RespondBadRequest(w, msgInvalidDuration)

	case errors.Is(err, proposeAppointment.ErrInvalidStart):
		handlers.RespondBadRequest(w, msgInvalidStart)

	case errors.Is(err, proposeAppointment.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("PATCH /appointments/reschedule - Failed: salon_id=%d, appointment_id=%d, error=%v",
			salonID, appointmentID, err)
		handlers.RespondInternalError(w)
	}
}
