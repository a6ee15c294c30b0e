package service_test

import (
	"database/sql"
	"errors"
	"testing"

	cacheMocks "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/cache/mocks"
	appErrors "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/errors"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
	repository "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/repositories"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func requireAppError(t *testing.T, err error, code string) *appErrors.AppError {
	t.Helper()

	appErr, ok := appErrors.IsAppError(err)
	require.True(t, ok, "expected an AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)

	return appErr
}

func TestCategoryService_CreateCategory(t *testing.T) {
	t.Run("Success - slug derived from name", func(t *testing.T) {
		repo := new(mocks.CategoryRepository)
		svc := service.NewCategoryService(repo, new(cacheMocks.Cache))

		repo.On("CreateCategory", mock.Anything, mock.MatchedBy(func(c *models.Category) bool {
			return c.Name == "Home & Garden" && c.Slug == "home-and-garden"
		})).Return(nil).Once()

		category, err := svc.CreateCategory(t.Context(), &models.CreateCategoryRequest{Name: "Home & Garden"})

		require.NoError(t, err)
		assert.Equal(t, "home-and-garden", category.Slug)
		repo.AssertExpectations(t)
	})

	t.Run("Markup is stripped", func(t *testing.T) {
		repo := new(mocks.CategoryRepository)
		svc := service.NewCategoryService(repo, new(cacheMocks.Cache))

		repo.On("CreateCategory", mock.Anything, mock.MatchedBy(func(c *models.Category) bool {
			return c.Name == "Books" && c.Slug == "books"
		})).Return(nil).Once()

		_, err := svc.CreateCategory(t.Context(), &models.CreateCategoryRequest{Name: "<b>Books</b>"})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Failure - duplicate slug", func(t *testing.T) {
		repo := new(mocks.CategoryRepository)
		svc := service.NewCategoryService(repo, new(cacheMocks.Cache))

		repo.On("CreateCategory", mock.Anything, mock.Anything).Return(repository.ErrDuplicate).Once()

		category, err := svc.CreateCategory(t.Context(), &models.CreateCategoryRequest{Name: "Books"})

		assert.Nil(t, category)
		requireAppError(t, err, appErrors.ErrCodeDuplicateEntry)
	})

	t.Run("Failure - name without slug characters", func(t *testing.T) {
		repo := new(mocks.CategoryRepository)
		svc := service.NewCategoryService(repo, new(cacheMocks.Cache))

		_, err := svc.CreateCategory(t.Context(), &models.CreateCategoryRequest{Name: "<script></script>"})

		appErr := requireAppError(t, err, appErrors.ErrCodeValidation)
		assert.Contains(t, appErr.Fields, "name")
		repo.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything)
	})
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	t.Run("Renaming updates the slug", func(t *testing.T) {
		repo := new(mocks.CategoryRepository)
		svc := service.NewCategoryService(repo, new(cacheMocks.Cache))
		name := "Kitchen Ware"

		repo.On("GetCategoryByID", mock.Anything, int64(1)).Return(&models.Category{ID: 1, Name: "Kitchen", Slug: "kitchen"}, nil).Once()
		repo.On("UpdateCategory", mock.Anything, mock.MatchedBy(func(c *models.Category) bool {
			return c.ID == 1 && c.Slug == "kitchen-ware"
		})).Return(nil).Once()

		repo.On("ListProductIDs", mock.Anything, int64(1)).Return(nil, nil).Once()

		category, err := svc.UpdateCategory(t.Context(), 1, &models.UpdateCategoryRequest{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, "kitchen-ware", category.Slug)
		repo.AssertExpectations(t)
	})

	t.Run("Renaming drops cached products of the category", func(t *testing.T) {
		repo := new(mocks.CategoryRepository)
		cache := new(cacheMocks.Cache)
		svc := service.NewCategoryService(repo, cache)
		name := "Cookware"

		repo.On("GetCategoryByID", mock.Anything, int64(1)).Return(&models.Category{ID: 1, Name: "Kitchen", Slug: "kitchen"}, nil).Once()
		repo.On("UpdateCategory", mock.Anything, mock.Anything).Return(nil).Once()
		repo.On("ListProductIDs", mock.Anything, int64(1)).Return([]int64{4, 7}, nil).Once()
		cache.On("Delete", mock.Anything, []string{"product:4", "product:7"}).Return(nil).Once()

		_, err := svc.UpdateCategory(t.Context(), 1, &models.UpdateCategoryRequest{Name: &name})

		require.NoError(t, err)
		cache.AssertExpectations(t)
	})

	t.Run("Cache failure does not fail the rename", func(t *testing.T) {
		repo := new(mocks.CategoryRepository)
		cache := new(cacheMocks.Cache)
		svc := service.NewCategoryService(repo, cache)
		name := "Cookware"

		repo.On("GetCategoryByID", mock.Anything, int64(1)).Return(&models.Category{ID: 1, Name: "Kitchen"}, nil).Once()
		repo.On("UpdateCategory", mock.Anything, mock.Anything).Return(nil).Once()
		repo.On("ListProductIDs", mock.Anything, int64(1)).Return([]int64{4}, nil).Once()
		cache.On("Delete", mock.Anything, []string{"product:4"}).Return(errors.New("redis down")).Once()

		category, err := svc.UpdateCategory(t.Context(), 1, &models.UpdateCategoryRequest{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, "cookware", category.Slug)
	})

	t.Run("Not found", func(t *testing.T) {
		repo := new(mocks.CategoryRepository)
		svc := service.NewCategoryService(repo, new(cacheMocks.Cache))

		repo.On("GetCategoryByID", mock.Anything, int64(9)).Return(nil, sql.ErrNoRows).Once()

		_, err := svc.UpdateCategory(t.Context(), 9, &models.UpdateCategoryRequest{})

		requireAppError(t, err, appErrors.ErrCodeNotFound)
	})
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	tests := []struct {
		name     string
		repoErr  error
		wantCode string
	}{
		{name: "Success"},
		{name: "Not found", repoErr: sql.ErrNoRows, wantCode: appErrors.ErrCodeNotFound},
		{name: "Referenced by products", repoErr: repository.ErrForeignKey, wantCode: appErrors.ErrCodeDuplicateEntry},
		{name: "Database error", repoErr: errors.New("boom"), wantCode: appErrors.ErrCodeDatabaseError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mocks.CategoryRepository)
			svc := service.NewCategoryService(repo, new(cacheMocks.Cache))

			repo.On("DeleteCategory", mock.Anything, int64(1)).Return(tc.repoErr).Once()

			err := svc.DeleteCategory(t.Context(), 1)

			if tc.wantCode == "" {
				require.NoError(t, err)
				return
			}

			requireAppError(t, err, tc.wantCode)
		})
	}
}

func TestCategoryService_ListCategories(t *testing.T) {
	repo := new(mocks.CategoryRepository)
	svc := service.NewCategoryService(repo, new(cacheMocks.Cache))

	repo.On("ListCategories", mock.Anything).Return([]*models.Category{{ID: 1, Name: "Books", Slug: "books"}}, nil).Once()

	categories, err := svc.ListCategories(t.Context())

	require.NoError(t, err)
	assert.Len(t, categories, 1)
}
