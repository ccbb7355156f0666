package reminders

import "errors"

var (
	// ErrInternal возвращается при ошибках обновления индекса напоминаний
	ErrInternal = errors.New("reminders: internal error")
)
