// Package common содержит доменные ошибки, общие для сервисов, хранилища и HTTP-слоя.
package common

import "errors"

var (
	// ошибки хранилища
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ошибки сервисов
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("too many requests, try again later")
	ErrExpired            = errors.New("otp has expired")
	ErrInvalidCode        = errors.New("wrong otp")
	ErrInvalidGrant       = errors.New("invalid or expired reset token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternal           = errors.New("internal error")

	// ошибки токенов
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// DomainError ошибка одного из видов выше с сообщением, которое можно показать клиенту.
type DomainError struct {
	Kind error
	Msg  string
}

func (e *DomainError) Error() string {
	return e.Msg
}

func (e *DomainError) Unwrap() error {
	return e.Kind
}

// E создаёт DomainError вида kind.
func E(kind error, msg string) error {
	return &DomainError{Kind: kind, Msg: msg}
}
