package service

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/api/middleware"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/cache"
	appErrors "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/errors"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
	repository "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/repositories"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService owns identities and their single persistent token.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, principal *models.Principal) error
	Authenticate(ctx context.Context, token string) (*models.Principal, error)
	CreateSuperuser(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
}

type userService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	rateRepo  repository.RateLimitRepository
	cache     cache.Cache
	tokenKey  []byte
	tokenTTL  time.Duration
}

func NewUserService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	rateRepo repository.RateLimitRepository,
	cache cache.Cache,
	tokenKey []byte,
	tokenTTL time.Duration,
) UserService {
	return &userService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		rateRepo:  rateRepo,
		cache:     cache,
		tokenKey:  tokenKey,
		tokenTTL:  tokenTTL,
	}
}

func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	user, err := s.createUser(ctx, req, false)
	if err != nil {
		return nil, err
	}

	return s.issueToken(ctx, user)
}

func (s *userService) CreateSuperuser(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	return s.createUser(ctx, req, true)
}

func (s *userService) createUser(ctx context.Context, req *models.RegisterRequest, isAdmin bool) (*models.User, error) {
	existing, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.DatabaseError("Failed to check username").WithError(err)
	}

	if existing != nil {
		return nil, usernameTakenError()
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.InternalError("Failed to secure password").WithError(err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		IsAdmin:  isAdmin,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, usernameTakenError().WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to create user").WithError(err)
	}

	return user, nil
}

func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	const op = "service.UserService.Login"

	logger := middleware.LoggerFromContext(ctx).With(slog.String("op", op))

	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return nil, appErrors.ValidationError("Must include username and password")
	}

	allowed, _, retryAfter, err := s.rateRepo.CheckLoginRateLimit(ctx, req.Username)
	if err != nil {
		return nil, appErrors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return nil, appErrors.TooManyRequestsError("Too many login attempts. Please try again later.").
			WithDetail(fmt.Sprintf("retry_after=%d", retryAfter))
	}

	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.DatabaseError("Failed to fetch user").WithError(err)
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		logger.Warn("invalid credentials", slog.String("username", req.Username))
		return nil, appErrors.ValidationError("Invalid credentials")
	}

	return s.issueToken(ctx, user)
}

func (s *userService) Logout(ctx context.Context, principal *models.Principal) error {
	if err := s.tokenRepo.DeleteToken(ctx, principal.TokenKey); err != nil {
		return appErrors.DatabaseError("Failed to delete token").WithError(err)
	}

	if err := s.cache.Delete(ctx, cache.TokenKey(principal.TokenKey)); err != nil {
		middleware.LoggerFromContext(ctx).Warn("token cache invalidation failed", slog.Any("error", err))
	}

	return nil
}

// Authenticate checks the signature, then that the token row still exists.
func (s *userService) Authenticate(ctx context.Context, token string) (*models.Principal, error) {
	claims := &models.Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.tokenKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, invalidTokenError()
	}

	logger := middleware.LoggerFromContext(ctx)
	key := cache.TokenKey(claims.ID)

	var cached models.Principal

	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("token cache read failed", slog.Any("error", err))
	} else if found && cached.UserID == claims.UserID {
		return &cached, nil
	}

	stored, err := s.tokenRepo.GetTokenByKey(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invalidTokenError()
		}

		return nil, appErrors.DatabaseError("Failed to validate token").WithError(err)
	}

	if stored.UserID != claims.UserID || subtle.ConstantTimeCompare([]byte(stored.Token), []byte(token)) != 1 {
		return nil, invalidTokenError()
	}

	user, err := s.userRepo.GetUserByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invalidTokenError()
		}

		return nil, appErrors.DatabaseError("Failed to fetch user").WithError(err)
	}

	principal := &models.Principal{
		TokenKey: stored.Key,
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	}

	if err := s.cache.Set(ctx, key, principal, s.tokenTTL); err != nil {
		logger.Warn("token cache write failed", slog.Any("error", err))
	}

	return principal, nil
}

// issueToken returns the user's existing token, or creates it.
func (s *userService) issueToken(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	stored, err := s.tokenRepo.GetTokenByUserID(ctx, user.ID)

	switch {
	case err == nil:
	case errors.Is(err, sql.ErrNoRows):
		stored, err = s.createToken(ctx, user)
		if err != nil {
			return nil, err
		}
	default:
		return nil, appErrors.DatabaseError("Failed to fetch token").WithError(err)
	}

	return &models.AuthResponse{
		Token:    stored.Token,
		UserID:   user.ID,
		Username: user.Username,
	}, nil
}

func (s *userService) createToken(ctx context.Context, user *models.User) (*models.AuthToken, error) {
	jti := uuid.NewString()

	claims := &models.Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       jti,
			Subject:  strconv.FormatInt(user.ID, 10),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.tokenKey)
	if err != nil {
		return nil, appErrors.InternalError("Failed to generate authentication token").WithError(err)
	}

	stored := &models.AuthToken{Key: jti, Token: signed, UserID: user.ID}

	if err := s.tokenRepo.CreateToken(ctx, stored); err != nil {
		// A concurrent login created the row first.
		if errors.Is(err, repository.ErrDuplicate) {
			existing, getErr := s.tokenRepo.GetTokenByUserID(ctx, user.ID)
			if getErr == nil {
				return existing, nil
			}
		}

		return nil, appErrors.DatabaseError("Failed to store token").WithError(err)
	}

	return stored, nil
}

func usernameTakenError() *appErrors.AppError {
	return appErrors.ValidationError("Validation failed").
		WithField("username", "A user with that username already exists.")
}

func invalidTokenError() *appErrors.AppError {
	return appErrors.UnauthorizedError("Invalid token.")
}
