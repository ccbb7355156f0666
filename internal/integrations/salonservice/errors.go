package salonservice

import "errors"

var (
	// ErrSalonNotFound возвращается, когда салон не найден
	ErrSalonNotFound = errors.New("salonservice: salon not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в салоне
	ErrServiceNotFound = errors.New("salonservice: service not found")

	// ErrInvalidResponse возвращается при некорректном ответе SalonService
	ErrInvalidResponse = errors.New("salonservice: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("salonservice: internal error")
)
