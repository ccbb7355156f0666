package propose_appointment

import "errors"

var (
	// ErrSalonNotFound возвращается, когда салон не найден
	ErrSalonNotFound = errors.New("propose_appointment: salon not found")

	// ErrServiceNotFound возвращается, когда услуга не принадлежит салону
	ErrServiceNotFound = errors.New("propose_appointment: service not found")

	// ErrEmployeeNotFound возвращается, когда мастер не числится в салоне
	ErrEmployeeNotFound = errors.New("propose_appointment: employee not found")

	// ErrInvalidDuration возвращается при недопустимой длительности записи
	ErrInvalidDuration = errors.New("propose_appointment: invalid duration")

	// ErrInvalidStart возвращается при некорректном или прошедшем времени начала
	ErrInvalidStart = errors.New("propose_appointment: invalid start time")

	// ErrSlotTaken возвращается, когда слот пересекается с существующей записью
	// или проиграна гонка за слот. Повтор не выполняется — политика ретраев
	// принадлежит вызывающей стороне.
	ErrSlotTaken = errors.New("propose_appointment: slot is taken")

	// ErrAppointmentNotFound возвращается при переносе несуществующей записи
	ErrAppointmentNotFound = errors.New("propose_appointment: appointment not found")

	// ErrCannotReschedule возвращается при попытке перенести запись в финальном статусе
	ErrCannotReschedule = errors.New("propose_appointment: appointment cannot be rescheduled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("propose_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("propose_appointment: internal error")
)
