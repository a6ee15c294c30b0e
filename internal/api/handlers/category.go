package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/api/middleware"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
	service "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/services"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/utils"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CategoryHandler struct {
	categoryService service.CategoryService
	validator       *validator.Validate
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, validator: utils.NewValidator()}
}

// ListCategories godoc
//
//	@Summary	List categories
//	@Tags		Categories
//	@Produce	json
//	@Success	200	{array}		models.Category
//	@Failure	500	{object}	response.ErrorResponse
//	@Router		/categories [get]
func (h *CategoryHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categoryService.ListCategories(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list categories", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}

// GetCategory godoc
//
//	@Summary	Get a category
//	@Tags		Categories
//	@Produce	json
//	@Param		id	path		int	true	"Category ID"
//	@Success	200	{object}	models.Category
//	@Failure	400	{object}	response.ErrorResponse	"Invalid category ID"
//	@Failure	404	{object}	response.ErrorResponse	"Category not found"
//	@Router		/categories/{id} [get]
func (h *CategoryHandler) GetCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		category, err := h.categoryService.GetCategory(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, category)
	}
}

// CreateCategory godoc
//
//	@Summary		Create a category
//	@Description	The slug is derived from the name. Admin only.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			category	body		models.CreateCategoryRequest	true	"Category"
//	@Success		201			{object}	models.Category
//	@Failure		400			{object}	response.ErrorResponse	"Validation error"
//	@Failure		403			{object}	response.ErrorResponse	"Not an admin"
//	@Failure		409			{object}	response.ErrorResponse	"Slug already exists"
//	@Security		BearerAuth
//	@Router			/admin/categories [post]
func (h *CategoryHandler) CreateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateCategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create category input")
			return
		}

		category, err := h.categoryService.CreateCategory(r.Context(), &req)
		if err != nil {
			logger.Warn("Failed to create category", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Category created", slog.Int64("categoryId", category.ID))
		response.Success(w, http.StatusCreated, category)
	}
}

// UpdateCategory godoc
//
//	@Summary	Update a category
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		id			path		int								true	"Category ID"
//	@Param		category	body		models.UpdateCategoryRequest	true	"Fields to change"
//	@Success	200			{object}	models.Category
//	@Failure	400			{object}	response.ErrorResponse
//	@Failure	404			{object}	response.ErrorResponse
//	@Failure	409			{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/admin/categories/{id} [put]
func (h *CategoryHandler) UpdateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateCategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		category, err := h.categoryService.UpdateCategory(r.Context(), id, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, category)
	}
}

// DeleteCategory godoc
//
//	@Summary	Delete a category
//	@Tags		Admin
//	@Param		id	path	int	true	"Category ID"
//	@Success	204
//	@Failure	404	{object}	response.ErrorResponse
//	@Failure	409	{object}	response.ErrorResponse	"Category still has products"
//	@Security	BearerAuth
//	@Router		/admin/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.categoryService.DeleteCategory(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Category deleted", slog.Int64("categoryId", id))
		w.WriteHeader(http.StatusNoContent)
	}
}
