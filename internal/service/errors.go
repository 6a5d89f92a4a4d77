package service

import (
	"errors"
	"fmt"
)

const (
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeVersionConflict = "VERSION_CONFLICT"
	CodeConfigMissing   = "CONFIG_MISSING"
	CodeUpstream        = "UPSTREAM_ERROR"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

// AsBusinessError достаёт бизнес-ошибку из цепочки обёрток
func AsBusinessError(err error) (*BusinessError, bool) {
	var busErr *BusinessError
	if errors.As(err, &busErr) {
		return busErr, true
	}
	return nil, false
}

func NewNotFound(resource string, id string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s не найден(а)", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewVersionConflict(resource, id string, expected int) *BusinessError {
	return &BusinessError{
		Code:    CodeVersionConflict,
		Message: fmt.Sprintf("%s %s был изменён другим запросом", resource, id),
		Details: map[string]any{
			"resource":         resource,
			"id":               id,
			"expected_version": expected,
		},
	}
}

func NewConfigMissing(keys ...string) *BusinessError {
	return &BusinessError{
		Code:    CodeConfigMissing,
		Message: "не заданы настройки интеграции",
		Details: map[string]any{
			"missing": keys,
		},
	}
}

func NewUpstreamError(operation string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeUpstream,
		Message: fmt.Sprintf("внешний сервис вернул ошибку: %s", operation),
		Details: map[string]any{
			"operation": operation,
		},
		Err: err,
	}
}
