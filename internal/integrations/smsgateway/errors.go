package smsgateway

import "errors"

var (
	// ErrNotConfigured возвращается, когда URL шлюза не задан
	ErrNotConfigured = errors.New("smsgateway: gateway url not configured")

	// ErrSendFailed возвращается, когда шлюз отклонил или не принял сообщение
	ErrSendFailed = errors.New("smsgateway: failed to send message")
)
