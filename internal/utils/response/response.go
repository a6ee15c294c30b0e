package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/errors"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every non-2xx answer. Success bodies are written bare.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details []string          `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func WriteJson(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, data any) {
	WriteJson(w, statusCode, data)
}

func Error(w http.ResponseWriter, err error) {
	var statusCode int

	var errorResponse ErrorResponse

	if appErr, ok := errors.IsAppError(err); ok {
		statusCode = appErr.StatusCode
		errorResponse = ErrorResponse{
			Error:  appErr.Message,
			Code:   appErr.Code,
			Fields: appErr.Fields,
		}

		if appErr.Detail != "" {
			errorResponse.Details = []string{appErr.Detail}
		}
	} else {
		statusCode = http.StatusInternalServerError
		errorResponse = ErrorResponse{
			Error: "An unexpected error occurred",
			Code:  errors.ErrCodeInternal,
		}
	}

	WriteJson(w, statusCode, errorResponse)
}

// ValidationError converts validator failures into a 400 with one message per field.
func ValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {
	appErr := errors.ValidationError("Validation failed")

	for _, err := range errs {
		appErr.WithField(fieldName(err), fieldMessage(err))
	}

	Error(w, appErr)
}

func fieldName(err validator.FieldError) string {
	// Namespace is "Struct.field"; keep the path below the root struct.
	ns := err.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}

	return err.Field()
}

func fieldMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", err.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", err.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", err.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", err.Param())
	default:
		return fmt.Sprintf("Invalid value: %s=%s", err.Tag(), err.Param())
	}
}
