package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	appErrors "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/errors"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/utils/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Form values above this size spill to temporary files.
const maxMultipartMemory = 8 << 20

// NewValidator reports json field names instead of Go field names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

func DecodeJSONBody(r *http.Request, dest any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("Failed to read request body",
			slog.String("error", err.Error()),
			slog.String("endpoint", r.URL.Path),
		)

		return fmt.Errorf("failed to read request body: %w", err)
	}

	defer r.Body.Close()

	if len(body) == 0 {
		slog.Warn("Empty request body", slog.String("endpoint", r.URL.Path))
		return errors.New("request body cannot be empty")
	}

	if err := json.Unmarshal(body, dest); err != nil {
		slog.Warn("Failed to parse request JSON",
			slog.String("error", err.Error()),
			slog.String("endpoint", r.URL.Path),
		)

		return fmt.Errorf("invalid JSON format: %w", err)
	}

	return nil
}

// ParseAndValidate writes the 400 itself and reports false when the body is unusable.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {
	if err := DecodeJSONBody(r, dest); err != nil {
		response.Error(w, appErrors.BadRequestError(err.Error()))
		return false
	}

	return validateStruct(w, dest, validate)
}

// IsMultipart reports whether the request carries a multipart/form-data body.
func IsMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// DecodeMultipartForm fills dest from form values keyed by json name. Integer and boolean
// fields are converted using dest's field types; everything else is passed on as a string.
// File parts stay in r.MultipartForm.
func DecodeMultipartForm(w http.ResponseWriter, r *http.Request, dest any, maxSize int64) error {
	if r.ContentLength > maxSize {
		return uploadTooLarge(nil)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return uploadTooLarge(err)
		}

		return appErrors.BadRequestError("Invalid multipart form").WithError(err)
	}

	values := make(map[string]any)
	fieldErrs := appErrors.ValidationError("Validation failed")

	t := reflect.TypeOf(dest).Elem()
	for i := range t.NumField() {
		field := t.Field(i)

		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}

		raw := r.MultipartForm.Value[name]
		if len(raw) == 0 {
			continue
		}

		kind := field.Type.Kind()
		if kind == reflect.Pointer {
			kind = field.Type.Elem().Kind()
		}

		switch kind {
		case reflect.Int, reflect.Int64:
			n, err := strconv.ParseInt(strings.TrimSpace(raw[0]), 10, 64)
			if err != nil {
				fieldErrs.WithField(name, "A valid integer is required.")
				continue
			}

			values[name] = n
		case reflect.Bool:
			b, err := strconv.ParseBool(strings.TrimSpace(raw[0]))
			if err != nil {
				fieldErrs.WithField(name, "Must be a valid boolean.")
				continue
			}

			values[name] = b
		default:
			values[name] = raw[0]
		}
	}

	if len(fieldErrs.Fields) > 0 {
		return fieldErrs
	}

	body, err := json.Marshal(values)
	if err != nil {
		return appErrors.InternalError("Failed to read form").WithError(err)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return appErrors.BadRequestError(fmt.Sprintf("invalid form value: %s", err.Error())).WithError(err)
	}

	return nil
}

func uploadTooLarge(err error) *appErrors.AppError {
	return appErrors.NewAppError(appErrors.ErrCodeBadRequest, "Upload too large",
		http.StatusRequestEntityTooLarge).WithError(err)
}

// ParseFormAndValidate is ParseAndValidate for multipart bodies.
func ParseFormAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate, maxSize int64) bool {
	if err := DecodeMultipartForm(w, r, dest, maxSize); err != nil {
		slog.Warn("Failed to parse multipart form", slog.String("error", err.Error()), slog.String("endpoint", r.URL.Path))
		response.Error(w, err)

		return false
	}

	return validateStruct(w, dest, validate)
}

func validateStruct(w http.ResponseWriter, dest any, validate *validator.Validate) bool {
	if err := validate.Struct(dest); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			slog.Warn("User input validation failed", slog.String("error", validationErrs.Error()))
			response.ValidationError(w, validationErrs)

			return false
		}

		slog.Error("Unexpected validation error", slog.String("error", err.Error()))
		response.Error(w, appErrors.InternalError("Failed to validate request").WithError(err))

		return false
	}

	return true
}

// ParseID reads a positive integer path parameter.
func ParseID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		raw = r.PathValue(name)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.BadRequestError("Invalid " + name + " format")
	}

	return id, nil
}

// PageParams reads page/pageSize query parameters with defaults.
func PageParams(r *http.Request, defaultSize, maxSize int) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if err != nil || pageSize < 1 || pageSize > maxSize {
		pageSize = defaultSize
	}

	return page, pageSize
}
