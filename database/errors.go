package database

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound означает, что ни одна запись не подходит под запрос
	ErrNotFound = errors.New("record not found")

	// ErrCoercion означает, что значение поля нельзя привести к нужному типу.
	// Это повреждение данных, а не ошибка пользователя.
	ErrCoercion = errors.New("field type coercion failed")
)

// CoercionError описывает неудачное приведение поля записи
type CoercionError struct {
	Field  string
	Want   Kind
	Got    Kind
	Detail string
}

func (e *CoercionError) Error() string {
	msg := fmt.Sprintf("cannot coerce %s to %s", e.Got, e.Want)
	if e.Field != "" {
		msg = fmt.Sprintf("field %q: %s", e.Field, msg)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *CoercionError) Unwrap() error { return ErrCoercion }

// StorageError описывает ошибку чтения или записи файла хранилища.
// Такая ошибка фатальна для всей сессии.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsStorageError сообщает, вызвана ли ошибка сбоем хранилища
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
