package services

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	return validator.New()
}

// validateStruct проверяет запрос и собирает сообщения по каждому полю
func validateStruct(v *validator.Validate, req interface{}) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	var errorMessages []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			errorMessages = append(errorMessages, "поле "+e.Field()+" обязательно")
		case "min":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно содержать минимум "+e.Param()+" символов")
		case "max":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно содержать максимум "+e.Param()+" символов")
		case "len":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно содержать ровно "+e.Param()+" символов")
		case "numeric":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно содержать только цифры")
		case "email":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть корректным email")
		case "oneof":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть одним из: "+e.Param())
		default:
			errorMessages = append(errorMessages, "поле "+e.Field()+" имеет неверное значение")
		}
	}
	return &ValidationError{Messages: errorMessages}
}
