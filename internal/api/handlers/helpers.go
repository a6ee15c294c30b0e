package handlers

import (
	"net/http"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/api/middleware"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/errors"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/utils/response"
)

// currentUser writes a 401 when the request did not pass through Authenticate.
func currentUser(w http.ResponseWriter, r *http.Request) (*models.Principal, bool) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		middleware.LoggerFromContext(r.Context()).Warn("Missing principal in request context")
		response.Error(w, errors.UnauthorizedError("Authentication credentials were not provided."))

		return nil, false
	}

	return principal, true
}
