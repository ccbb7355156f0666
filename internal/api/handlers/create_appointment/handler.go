package create_appointment

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
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSalonID     = "некорректный ID салона"
	msgInvalidStartAt     = "некорректный формат времени начала, ожидается RFC3339"
	msgSlotTaken          = "выбранный временной слот уже занят"
	msgSalonNotFound      = "салон не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgEmployeeNotFound   = "мастер не найден в салоне"
	msgInvalidDuration    = "некорректная длительность записи"
	msgInvalidStart       = "время начала некорректно или уже прошло"
	msgInvalidInput       = "некорректные входные данные"
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

// Handle POST /api/v1/salons/{salonId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	salonID, err := strconv.ParseInt(mux.Vars(r)["salonId"], 10, 64)
	if err != nil || salonID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(salonID, userID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse startAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondUseCaseError(w, salonID, err)
		return
	}

	h.logger.Info("POST /appointments - Appointment created: id=%d, salon_id=%d, user_id=%d",
		result.ID, salonID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) respondUseCaseError(w http.ResponseWriter, salonID int64, err error) {
	switch {
	case errors.Is(err, proposeAppointment.ErrSlotTaken):
		h.logger.Warn("POST /appointments - Slot taken: salon_id=%d", salonID)
		handlers.RespondConflict(w, msgSlotTaken)

	case errors.Is(err, proposeAppointment.ErrSalonNotFound):
		h.logger.Warn("POST /appointments - Salon not found: salon_id=%d", salonID)
		handlers.RespondNotFound(w, msgSalonNotFound)

	case errors.Is(err, proposeAppointment.ErrServiceNotFound):
		h.logger.Warn("POST /appointments - Service not found: salon_id=%d", salonID)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, proposeAppointment.ErrEmployeeNotFound):
		h.logger.Warn("POST /appointments - Employee not found: salon_id=%d", salonID)
		handlers.RespondNotFound(w, msgEmployeeNotFound)

	case errors.Is(err, proposeAppointment.ErrInvalidDuration):
		handlers.RespondBadRequest(w, msgInvalidDuration)

	case errors.Is(err, proposeAppointment.ErrInvalidStart):
		handlers.RespondBadRequest(w, msgInvalidStart)

	case errors.Is(err, proposeAppointment.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("POST /appointments - Failed to create appointment: salon_id=%d, error=%v", salonID, err)
		handlers.RespondInternalError(w)
	}
}
