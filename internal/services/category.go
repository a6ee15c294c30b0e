package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/api/middleware"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/cache"
	appErrors "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/errors"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
	repository "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/repositories"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/utils"
	"github.com/gosimple/slug"
)

type CategoryService interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, req *models.UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache cache.Cache
}

func NewCategoryService(repo repository.CategoryRepository, cache cache.Cache) CategoryService {
	return &categoryService{repo: repo, cache: cache}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	return categories, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Category not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch category").WithError(err)
	}

	return category, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	const op = "service.CategoryService.CreateCategory"

	category := &models.Category{Name: utils.SanitizeText(req.Name)}

	if err := applySlug(category); err != nil {
		return nil, err
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		middleware.LoggerFromContext(ctx).Error("failed to create category", slog.String("op", op), slog.Any("error", err))
		return nil, categoryWriteError(err, "Failed to create category")
	}

	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id int64, req *models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = utils.SanitizeText(*req.Name)

		if err := applySlug(category); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Category not found").WithError(err)
		}

		return nil, categoryWriteError(err, "Failed to update category")
	}

	if req.Name != nil {
		s.invalidateProducts(ctx, id)
	}

	return category, nil
}

// invalidateProducts drops cached products of a category, since they embed its name and slug.
func (s *categoryService) invalidateProducts(ctx context.Context, id int64) {
	const op = "service.CategoryService.invalidateProducts"

	logger := middleware.LoggerFromContext(ctx).With(slog.String("op", op), slog.Int64("categoryId", id))

	ids, err := s.repo.ListProductIDs(ctx, id)
	if err != nil {
		logger.Warn("failed to list category products", slog.Any("error", err))
		return
	}

	if len(ids) == 0 {
		return
	}

	keys := make([]string, len(ids))
	for i, productID := range ids {
		keys[i] = cache.ProductKey(productID)
	}

	if err := s.cache.Delete(ctx, keys...); err != nil {
		logger.Warn("product cache invalidation failed", slog.Any("error", err))
	}
}

func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	err := s.repo.DeleteCategory(ctx, id)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.NotFoundError("Category not found").WithError(err)
	case errors.Is(err, repository.ErrForeignKey):
		return appErrors.DuplicateEntryError("Category is still referenced by products").WithError(err)
	default:
		return appErrors.DatabaseError("Failed to delete category").WithError(err)
	}
}

// applySlug derives the slug from the name. Names without any sluggable character are rejected.
func applySlug(category *models.Category) error {
	if category.Name == "" {
		return appErrors.ValidationError("Validation failed").WithField("name", "This field may not be blank.")
	}

	category.Slug = slug.Make(category.Name)
	if category.Slug == "" {
		return appErrors.ValidationError("Validation failed").WithField("name", "Enter a name that contains letters or numbers.")
	}

	return nil
}

func categoryWriteError(err error, message string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return appErrors.DuplicateEntryError("Category with this slug already exists").
			WithField("slug", "category with this slug already exists.").WithError(err)
	}

	return appErrors.DatabaseError(message).WithError(err)
}
