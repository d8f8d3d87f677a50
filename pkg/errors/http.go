package errors

import (
	"errors"
)

const genericMessage = "An unexpected error occurred"

var statusByType = map[string]int{
	ErrorTypeInvalidRequest:  StatusBadRequest,
	ErrorTypeNotFound:        StatusNotFound,
	ErrorTypeConflict:        StatusConflict,
	ErrorTypeTooManyRequests: StatusTooManyRequests,
	ErrorTypeRequestTimeout:  StatusRequestTimeout,
}

// HTTPStatusCode maps err onto a response status. Database, internal and unknown errors are all 500.
func HTTPStatusCode(err error) int {
	if status, ok := statusByType[GetErrorType(err)]; ok {
		return status
	}
	return StatusInternalServerError
}

// GetHumanReadableMessage never exposes the text of errors that are not AppErrors.
func GetHumanReadableMessage(err error) string {
	var appErr *AppError
	if err != nil && errors.As(err, &appErr) {
		return appErr.Message
	}
	return genericMessage
}
