// Package middleware оборачивает обработчики команд командной строки.
package middleware

import (
	"fmt"
	"io"
	"time"

	"arletbank/services"
	"arletbank/utils"
)

// Command описывает вызов команды: роль, имя, аргументы и вывод
type Command struct {
	Role string
	Name string
	Args []string
	Out  io.Writer
}

// Operation возвращает имя операции для логов и метрик
func (c *Command) Operation() string {
	if c.Role == "" {
		return c.Name
	}
	return c.Role + "." + c.Name
}

// HandlerFunc выполняет команду
type HandlerFunc func(cmd *Command) error

// Middleware оборачивает HandlerFunc
type Middleware func(next HandlerFunc) HandlerFunc

// Chain применяет middleware так, что первый в списке выполняется первым
func Chain(h HandlerFunc, mws ...Middleware) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Logger middleware для логирования команд
func Logger(log *utils.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(cmd *Command) error {
			// Начало команды
			startTime := time.Now()

			err := next(cmd)

			log.LogOperation(cmd.Operation(), startTime, err)
			return err
		}
	}
}

// Metrics middleware для учета операций и ошибок по типам
func Metrics(m *utils.Metrics) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(cmd *Command) error {
			startTime := time.Now()
			err := next(cmd)
			m.RecordOperation(cmd.Operation(), time.Since(startTime), err, services.ErrorKind(err))
			return err
		}
	}
}

// Recovery middleware для обработки паник: паника превращается в ошибку
func Recovery(log *utils.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(cmd *Command) (err error) {
			defer func() {
				if r := recover(); r != nil {
					// Логируем панику
					log.Error("Panic recovered in %s: %v", cmd.Operation(), r)
					err = fmt.Errorf("internal error in %s: %v", cmd.Operation(), r)
				}
			}()

			return next(cmd)
		}
	}
}
