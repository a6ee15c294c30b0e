package repository

import (
	"context"
	"database/sql"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/utils"
)

// TokenRepository stores the single auth token of each user.
type TokenRepository interface {
	CreateToken(ctx context.Context, token *models.AuthToken) error
	GetTokenByUserID(ctx context.Context, userID int64) (*models.AuthToken, error)
	GetTokenByKey(ctx context.Context, key string) (*models.AuthToken, error)
	DeleteToken(ctx context.Context, key string) error
}

type tokenRepository struct {
	DB *sql.DB
}

func NewTokenRepo(db *sql.DB) TokenRepository {
	return &tokenRepository{DB: db}
}

func (r *tokenRepository) CreateToken(ctx context.Context, token *models.AuthToken) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO auth_tokens (key, token, user_id)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, token.Key, token.Token, token.UserID).Scan(&token.CreatedAt)
	if err != nil {
		return mapPQError(err)
	}

	return nil
}

func (r *tokenRepository) GetTokenByUserID(ctx context.Context, userID int64) (*models.AuthToken, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	token := &models.AuthToken{}
	query := `SELECT key, token, user_id, created_at FROM auth_tokens WHERE user_id = $1`

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, userID).
		Scan(&token.Key, &token.Token, &token.UserID, &token.CreatedAt)
	if err != nil {
		return nil, err
	}

	return token, nil
}

func (r *tokenRepository) GetTokenByKey(ctx context.Context, key string) (*models.AuthToken, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	token := &models.AuthToken{}
	query := `SELECT key, token, user_id, created_at FROM auth_tokens WHERE key = $1`

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, key).
		Scan(&token.Key, &token.Token, &token.UserID, &token.CreatedAt)
	if err != nil {
		return nil, err
	}

	return token, nil
}

func (r *tokenRepository) DeleteToken(ctx context.Context, key string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	_, err := conn(ctx, r.DB).ExecContext(dbCtx, `DELETE FROM auth_tokens WHERE key = $1`, key)

	return err
}
