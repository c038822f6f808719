package services

import (
	"errors"
	"strings"

	"arletbank/database"
)

var (
	ErrNotFound           = database.ErrNotFound
	ErrAlreadyExists      = errors.New("record already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidAmount      = errors.New("amount must be greater than 0")
	ErrSameAccount        = errors.New("cannot transfer to the same account")
	ErrAlreadyConfirmed   = errors.New("customer is already confirmed")
	ErrNotConfirmed       = errors.New("customer is not confirmed")
	ErrBalanceNotZero     = errors.New("account balance must be 0 to close the account")
	ErrNumberExhausted    = errors.New("could not generate a unique account number")
	ErrValidation         = errors.New("validation failed")
)

// ValidationError содержит сообщения о неверных полях запроса
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ErrorKind классифицирует ошибку для метрик и кода выхода
func ErrorKind(err error) string {
	var constraint *ConstraintError
	switch {
	case err == nil:
		return ""
	case database.IsStorageError(err):
		return "storage"
	case errors.Is(err, database.ErrCoercion):
		return "coercion"
	case errors.As(err, &constraint):
		return "constraint"
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidAmount):
		return "validation"
	case errors.Is(err, ErrInvalidCredentials):
		return "credentials"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrAlreadyConfirmed):
		return "conflict"
	}
	return "other"
}
