package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/api/middleware"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
)

// CreateTestRequestWithContext builds a request as seen behind the auth middleware.
func CreateTestRequestWithContext(method, target string, body io.Reader, principal *models.Principal, pathParams map[string]string) *http.Request {
	req := CreateTestRequestWithoutContext(method, target, body, pathParams)

	return req.WithContext(middleware.WithPrincipal(req.Context(), principal))
}

func CreateTestRequestWithoutContext(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return req.WithContext(middleware.WithLogger(req.Context(), logger))
}

// JSONBody marshals v, panicking on failure since it only serves test fixtures.
func JSONBody(v any) io.Reader {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	return bytes.NewReader(data)
}

// MultipartBody encodes fields plus an optional file part named fileField.
// It returns the body and its Content-Type.
func MultipartBody(fields map[string]string, fileField, fileName string, file []byte) (io.Reader, string) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			panic(err)
		}
	}

	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		if err != nil {
			panic(err)
		}

		if _, err := part.Write(file); err != nil {
			panic(err)
		}
	}

	if err := writer.Close(); err != nil {
		panic(err)
	}

	return &buf, writer.FormDataContentType()
}

func User(id int64) *models.Principal {
	return &models.Principal{TokenKey: "test-key", UserID: id, Username: "user"}
}

func Admin(id int64) *models.Principal {
	return &models.Principal{TokenKey: "admin-key", UserID: id, Username: "admin", IsAdmin: true}
}
