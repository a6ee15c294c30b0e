package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
	repository "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/repositories"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db, mock
}

func TestNewUserRepo(t *testing.T) {
	db, _ := newMock(t)

	repo := repository.NewUserRepo(db)
	assert.NotNil(t, repo, "NewUserRepo should return a non-nil repository")
}

func TestUserRepository(t *testing.T) {
	insertSQL := regexp.QuoteMeta(`INSERT INTO users (username, email, password_hash, is_admin)`)
	selectCols := []string{"id", "username", "email", "password_hash", "is_admin", "created_at"}

	t.Run("CreateUser_Success", func(t *testing.T) {
		db, mock := newMock(t)
		repo := repository.NewUserRepo(db)

		user := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
		now := time.Now()

		mock.ExpectQuery(insertSQL).
			WithArgs("alice", "alice@example.com", "hash", false).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, now))

		err := repo.CreateUser(t.Context(), user)

		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
		assert.WithinDuration(t, now, user.CreatedAt, time.Second)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CreateUser_DuplicateUsername", func(t *testing.T) {
		db, mock := newMock(t)
		repo := repository.NewUserRepo(db)

		mock.ExpectQuery(insertSQL).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

		err := repo.CreateUser(t.Context(), &models.User{Username: "alice"})

		require.Error(t, err)
		assert.ErrorIs(t, err, repository.ErrDuplicate)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetUserByUsername_Success", func(t *testing.T) {
		db, mock := newMock(t)
		repo := repository.NewUserRepo(db)
		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE username = $1`)).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(selectCols).AddRow(7, "alice", "alice@example.com", "hash", true, now))

		user, err := repo.GetUserByUsername(t.Context(), "alice")

		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
		assert.Equal(t, "hash", user.Password)
		assert.True(t, user.IsAdmin)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetUserByUsername_NotFound", func(t *testing.T) {
		db, mock := newMock(t)
		repo := repository.NewUserRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE username = $1`)).
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetUserByUsername(t.Context(), "ghost")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetUserByID_Error", func(t *testing.T) {
		db, mock := newMock(t)
		repo := repository.NewUserRepo(db)
		dbErr := errors.New("connection reset")

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1`)).
			WithArgs(int64(3)).
			WillReturnError(dbErr)

		user, err := repo.GetUserByID(t.Context(), 3)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, dbErr)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTokenRepository(t *testing.T) {
	cols := []string{"key", "token", "user_id", "created_at"}

	t.Run("CreateToken", func(t *testing.T) {
		db, mock := newMock(t)
		repo := repository.NewTokenRepo(db)
		now := time.Now()

		token := &models.AuthToken{Key: "jti-1", Token: "signed", UserID: 7}

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO auth_tokens (key, token, user_id)`)).
			WithArgs("jti-1", "signed", int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

		require.NoError(t, repo.CreateToken(t.Context(), token))
		assert.WithinDuration(t, now, token.CreatedAt, time.Second)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetTokenByUserID", func(t *testing.T) {
		db, mock := newMock(t)
		repo := repository.NewTokenRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM auth_tokens WHERE user_id = $1`)).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(cols).AddRow("jti-1", "signed", 7, time.Now()))

		token, err := repo.GetTokenByUserID(t.Context(), 7)

		require.NoError(t, err)
		assert.Equal(t, "jti-1", token.Key)
		assert.Equal(t, "signed", token.Token)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetTokenByKey_NotFound", func(t *testing.T) {
		db, mock := newMock(t)
		repo := repository.NewTokenRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM auth_tokens WHERE key = $1`)).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		token, err := repo.GetTokenByKey(t.Context(), "missing")

		assert.Nil(t, token)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeleteToken", func(t *testing.T) {
		db, mock := newMock(t)
		repo := repository.NewTokenRepo(db)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM auth_tokens WHERE key = $1`)).
			WithArgs("jti-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.DeleteToken(t.Context(), "jti-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
