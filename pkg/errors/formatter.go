package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var tagMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email format",
	"min":      "Value is too short or too small",
	"max":      "Value is too long or too large",
	"len":      "Value must be exact length",
	"numeric":  "Value must be numeric",
	"gt":       "Value must be greater than specified",
	"gte":      "Value must be greater than or equal to specified",
	"lt":       "Value must be less than specified",
	"lte":      "Value must be less than or equal to specified",
	"datetime": "Value does not match the expected date/time format",
	"oneof":    "Value is not one of the allowed options",
}

// paramMessages take the tag's parameter, e.g. the 255 in max=255.
var paramMessages = map[string]string{
	"min":      "Must be at least %s characters",
	"max":      "Must not exceed %s characters",
	"len":      "Must be exactly %s characters",
	"gt":       "Must be greater than %s",
	"gte":      "Must be greater than or equal to %s",
	"lt":       "Must be less than %s",
	"lte":      "Must be less than or equal to %s",
	"datetime": "Must use the format %s",
	"oneof":    "Must be one of: %s",
}

func messageFor(fe validator.FieldError) string {
	if format, ok := paramMessages[fe.Tag()]; ok && fe.Param() != "" {
		return fmt.Sprintf(format, fe.Param())
	}
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg
	}
	return "Invalid value"
}

// fieldName prefers the json tag, then the form tag, so API and page errors name fields alike.
func fieldName(structType reflect.Type, name string) string {
	if structType == nil {
		return name
	}

	field, found := structType.FieldByName(name)
	if !found {
		return name
	}

	for _, key := range []string{"json", "form"} {
		tag := strings.Split(field.Tag.Get(key), ",")[0]
		if tag != "" && tag != "-" {
			return tag
		}
	}

	return name
}

func modelType(model interface{}) reflect.Type {
	if model == nil {
		return nil
	}

	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

// FormatValidationErrors turns binding failures into per-field messages. model is the bound DTO.
func FormatValidationErrors(err error, model interface{}) []ValidationErrorResponse {
	if err == nil {
		return nil
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return []ValidationErrorResponse{{Message: fmt.Sprintf("Invalid number %q", numErr.Num)}}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []ValidationErrorResponse{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("Invalid type for field %s. Expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value),
		}}
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	structType := modelType(model)
	out := make([]ValidationErrorResponse, 0, len(validationErrors))
	for _, fe := range validationErrors {
		out = append(out, ValidationErrorResponse{
			Field:   fieldName(structType, fe.Field()),
			Message: messageFor(fe),
		})
	}

	return out
}
