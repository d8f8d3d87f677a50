package router

import (
	"net/http"

	"github.com/akeren/tablebook/internal/log"
	apperrors "github.com/akeren/tablebook/pkg/errors"
)

func GetLogger(ctx *RequestContext) *log.Logger {
	return log.GetLoggerInstanceFromContext(ctx.Request.Context(), nil)
}

func OKResult(data any, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusOK,
		Data:       data,
		Message:    message,
	}
}

func CreatedResult(data any, resourceName string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusCreated,
		Data:       data,
		Message:    resourceName + " created successfully",
	}
}

// PageResult renders the named HTML template with data.
func PageResult(statusCode int, template string, data any) *ServiceResult {
	return &ServiceResult{
		StatusCode: statusCode,
		Data:       data,
		Template:   template,
	}
}

func BinaryResult(contentType string, body []byte) *ServiceResult {
	return &ServiceResult{
		StatusCode:  http.StatusOK,
		ContentType: contentType,
		Body:        body,
	}
}

func TooManyRequestsResult(data RateLimitResponse) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusTooManyRequests,
		Data:       data,
		Message:    "Too Many Requests",
	}
}

func BadRequestResult(message string, payload any) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusBadRequest,
		Data:       payload,
		Message:    message,
	}
}

func NotFoundResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusNotFound,
		Message:    message,
	}
}

func InternalServerErrorResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusInternalServerError,
		Message:    message,
	}
}

func ErrorResult(statusCode int, message string, data any) *ServiceResult {
	return &ServiceResult{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
	}
}

// AppErrorResult maps a service error onto its status code and safe message.
func AppErrorResult(err error) *ServiceResult {
	return ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err), nil)
}

// BindingErrorResult turns a gin binding failure into a 400 listing the offending fields.
func BindingErrorResult(err error, request any) *ServiceResult {
	if fields := apperrors.FormatValidationErrors(err, request); len(fields) > 0 {
		return BadRequestResult("Invalid request payload", fields)
	}

	return BadRequestResult("Invalid request body", nil)
}
