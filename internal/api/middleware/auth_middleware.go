package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/errors"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/utils/response"
)

type contextKey string

const UserContextKey = contextKey("user")

// TokenAuthenticator resolves a raw token to the identity it was issued to.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Principal, error)
}

type AuthMiddleware struct {
	auth TokenAuthenticator
}

func NewAuthMiddleware(auth TokenAuthenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Authenticate accepts "Bearer <token>" and "Token <token>".
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authentication credentials were not provided."))

			return
		}

		scheme, token, ok := strings.Cut(strings.TrimSpace(authHeader), " ")
		token = strings.TrimSpace(token)

		if !ok || token == "" || strings.Contains(token, " ") ||
			(!strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token")) {
			logger.Warn("Invalid authorization header format")
			response.Error(w, errors.UnauthorizedError("Invalid token header."))

			return
		}

		principal, err := m.auth.Authenticate(r.Context(), token)
		if err != nil {
			logger.Warn("Token authentication failed", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		ctx := WithPrincipal(r.Context(), principal)
		ctx = WithLogger(ctx, logger.With(slog.Int64("userId", principal.UserID)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication credentials were not provided."))
			return
		}

		if !principal.IsAdmin {
			LoggerFromContext(r.Context()).Warn("Non-admin access to admin endpoint")
			response.Error(w, errors.ForbiddenError("You do not have permission to perform this action."))

			return
		}

		next.ServeHTTP(w, r)
	})
}

func WithPrincipal(ctx context.Context, principal *models.Principal) context.Context {
	return context.WithValue(ctx, UserContextKey, principal)
}

func PrincipalFromContext(ctx context.Context) (*models.Principal, bool) {
	principal, ok := ctx.Value(UserContextKey).(*models.Principal)
	return principal, ok && principal != nil
}
