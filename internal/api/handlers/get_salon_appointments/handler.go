package get_salon_appointments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

const (
	msgInvalidSalonID    = "некорректный ID салона"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidEmployeeID = "некорректный ID мастера"
	msgSalonNotFound     = "салон не найден"
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

// Handle GET /api/v1/salons/{salonId}/appointments?date=YYYY-MM-DD&employeeId=&includeInactive=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	salonID, err := strconv.ParseInt(mux.Vars(r)["salonId"], 10, 64)
	if err != nil || salonID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	req, err := h.parseQuery(salonID, r)
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.service.GetSalonDay(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrSalonNotFound):
			handlers.RespondNotFound(w, msgSalonNotFound)
		default:
			h.logger.Error("GET /salons/{id}/appointments - Failed: salon_id=%d, error=%v", salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromServiceResponse(result))
}

func (h *Handler) parseQuery(salonID int64, r *http.Request) (*models.GetSalonDayRequest, error) {
	query := r.URL.Query()

	date := time.Now().UTC()
	if raw := query.Get("date"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, errors.New(msgInvalidDate)
		}
		date = parsed
	}

	var employeeID *int64
	if raw := query.Get("employeeId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, errors.New(msgInvalidEmployeeID)
		}
		employeeID = &parsed
	}

	includeInactive := query.Get("includeInactive") == "true"

	return &models.GetSalonDayRequest{
		SalonID:         salonID,
		Date:            date,
		EmployeeID:      employeeID,
		IncludeInactive: includeInactive,
	}, nil
}
