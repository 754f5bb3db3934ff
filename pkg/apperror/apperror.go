package apperror

import (
	"errors"
	"net/http"
)

type Code string

const (
	CodeValidation     Code = "validation"
	CodeState          Code = "invalid_state"
	CodeQuotaExceeded  Code = "quota_exceeded"
	CodeAuthentication Code = "authentication"
	CodeAuthorization  Code = "authorization"
	CodeNotFound       Code = "not_found"
	CodeConflict       Code = "conflict"
	CodeInternal       Code = "internal"
)

type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func GetCode(err error) Code {
	if err == nil {
		return ""
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return CodeInternal
}

// HTTPStatus maps an error code to the HTTP status it surfaces as.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeState, CodeQuotaExceeded:
		return http.StatusBadRequest
	case CodeAuthentication:
		return http.StatusUnauthorized
	case CodeAuthorization:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
