package cancel_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidSalonID       = "некорректный ID салона"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgAppointmentNotFound  = "запись не найдена"
	msgCannotCancel         = "запись в финальном статусе нельзя отменить"
	msgInvalidInput         = "некорректные входные данные"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/salons/{salonId}/appointments/{appointmentId}/cancel
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

	var req CancelAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.Cancel(r.Context(), salonID, appointmentID, req.ToServiceRequest(userID)); err != nil {
		h.respondServiceError(w, salonID, appointmentID, err)
		return
	}

	h.logger.Info("POST /appointments/cancel - Appointment cancelled: id=%d, salon_id=%d, user_id=%d",
		appointmentID, salonID, userID)
	handlers.RespondNoContent(w)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, salonID, appointmentID int64, err error) {
	switch {
	case errors.Is(err, appointments.ErrAppointmentNotFound):
		handlers.RespondNotFound(w, msgAppointmentNotFound)

	case errors.Is(err, appointments.ErrCannotCancel):
		h.logger.Warn("POST /appointments/cancel - Cannot cancel: salon_id=%d, appointment_id=%d", salonID, appointmentID)
		handlers.RespondConflict(w, msgCannotCancel)

	case errors.Is(err, appointments.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("POST /appointments/cancel - Failed: salon_id=%d, appointment_id=%d, error=%v",
			salonID, appointmentID, err)
		handlers.RespondInternalError(w)
	}
}
