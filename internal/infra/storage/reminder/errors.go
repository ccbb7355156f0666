package reminder

import "errors"

var (
	// ErrIndexUnavailable возвращается при ошибках обращения к Redis
	ErrIndexUnavailable = errors.New("reminder.index: redis unavailable")

	// ErrEncode возвращается при ошибке сериализации напоминания
	ErrEncode = errors.New("reminder.index: failed to encode reminder")

	// ErrDecode возвращается при ошибке десериализации напоминания
	ErrDecode = errors.New("reminder.index: failed to decode reminder")
)
