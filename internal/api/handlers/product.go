package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/errors"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/media"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
	service "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/services"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/utils"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

const defaultMaxUploadSize = 5 << 20

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
	images         media.Store
	maxUploadSize  int64
}

type ProductOption func(*ProductHandler)

// WithImageStore enables multipart image uploads on admin create and update.
func WithImageStore(store media.Store, maxUploadSize int64) ProductOption {
	return func(h *ProductHandler) {
		h.images = store
		if maxUploadSize > 0 {
			h.maxUploadSize = maxUploadSize
		}
	}
}

func NewProductHandler(productService service.ProductService, opts ...ProductOption) *ProductHandler {
	h := &ProductHandler{
		productService: productService,
		validator:      utils.NewValidator(),
		maxUploadSize:  defaultMaxUploadSize,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// decodeProduct accepts JSON or multipart/form-data. A multipart "image" file part is stored
// and its URL returned as uploaded.
func (h *ProductHandler) decodeProduct(w http.ResponseWriter, r *http.Request, dest any) (uploaded *string, ok bool) {
	if !utils.IsMultipart(r) {
		return nil, utils.ParseAndValidate(r, w, dest, h.validator)
	}

	if !utils.ParseFormAndValidate(r, w, dest, h.validator, h.maxUploadSize) {
		return nil, false
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		return nil, true
	}

	if h.images == nil {
		response.Error(w, appErrors.AddValidationError("image", "Image uploads are not enabled."))
		return nil, false
	}

	file, err := files[0].Open()
	if err != nil {
		response.Error(w, appErrors.BadRequestError("Invalid image upload").WithError(err))
		return nil, false
	}
	defer file.Close()

	url, err := h.images.Save(r.Context(), file)
	if err != nil {
		middleware.LoggerFromContext(r.Context()).Warn("Failed to store product image", slog.Any("error", err))

		if _, ok := appErrors.IsAppError(err); !ok {
			err = appErrors.InternalError("Failed to store image").WithError(err)
		}

		response.Error(w, err)

		return nil, false
	}

	return &url, true
}

// discardImage removes an upload whose product write failed.
func (h *ProductHandler) discardImage(r *http.Request, uploaded *string) {
	if uploaded == nil {
		return
	}

	if err := h.images.Remove(r.Context(), *uploaded); err != nil {
		middleware.LoggerFromContext(r.Context()).Warn("Failed to remove orphaned image", slog.Any("error", err))
	}
}

// ListProducts godoc
//
//	@Summary		List available products
//	@Description	Available products, optionally filtered by category slug. A bare array unless page or pageSize is given.
//	@Tags			Products
//	@Produce		json
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			pageSize	query		int		false	"Page size"		default(20)
//	@Param			category	query		string	false	"Category slug"
//	@Success		200			{array}		models.Product
//	@Failure		500			{object}	response.ErrorResponse
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return h.listProducts(false)
}

// AdminListProducts godoc
//
//	@Summary	List all products including unavailable ones
//	@Tags		Admin
//	@Produce	json
//	@Param		page		query		int		false	"Page number"
//	@Param		pageSize	query		int		false	"Page size"
//	@Param		category	query		string	false	"Category slug"
//	@Success	200			{array}		models.Product	"models.PaginatedResponse when page or pageSize is given"
//	@Security	BearerAuth
//	@Router		/admin/products [get]
func (h *ProductHandler) AdminListProducts() http.HandlerFunc {
	return h.listProducts(true)
}

func (h *ProductHandler) listProducts(includeHidden bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		page, pageSize := utils.PageParams(r, service.DefaultPageSize, service.MaxPageSize)

		// Without paging parameters the whole list goes out as a bare array.
		paged := query.Has("page") || query.Has("pageSize")

		filter := models.ProductFilter{
			CategorySlug:  query.Get("category"),
			IncludeHidden: includeHidden,
			Unpaged:       !paged,
		}
		if paged {
			filter.Page, filter.PageSize = page, pageSize
		}

		products, total, err := h.productService.ListProducts(r.Context(), filter)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to fetch products", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		if !paged {
			response.Success(w, http.StatusOK, products)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     products,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}

// GetProduct godoc
//
//	@Summary	Get an available product
//	@Tags		Products
//	@Produce	json
//	@Param		id	path		int	true	"Product ID"
//	@Success	200	{object}	models.Product
//	@Failure	400	{object}	response.ErrorResponse	"Invalid product ID"
//	@Failure	404	{object}	response.ErrorResponse	"Product not found"
//	@Router		/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		product, err := h.productService.GetProduct(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// SearchProducts godoc
//
//	@Summary	Search available products by name
//	@Tags		Products
//	@Produce	json
//	@Param		q	query	string	false	"Case-insensitive substring of the name"
//	@Success	200	{array}	models.Product
//	@Router		/products/search [get]
func (h *ProductHandler) SearchProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := h.productService.SearchProducts(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to search products", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

// AdminGetProduct godoc
//
//	@Summary	Get any product
//	@Tags		Admin
//	@Produce	json
//	@Param		id	path		int	true	"Product ID"
//	@Success	200	{object}	models.Product
//	@Failure	404	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/admin/products/{id} [get]
func (h *ProductHandler) AdminGetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		product, err := h.productService.AdminGetProduct(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// CreateProduct godoc
//
//	@Summary		Create a product
//	@Description	Price must be between 0 and 99999999.99 with at most two decimals. Stock is not validated.
//	@Description	multipart/form-data takes the same fields plus an optional "image" file.
//	@Tags			Admin
//	@Accept			json,mpfd
//	@Produce		json
//	@Param			product	body		models.CreateProductRequest	true	"Product"
//	@Success		201		{object}	models.Product
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Failure		403		{object}	response.ErrorResponse	"Not an admin"
//	@Security		BearerAuth
//	@Router			/admin/products [post]
func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateProductRequest

		uploaded, ok := h.decodeProduct(w, r, &req)
		if !ok {
			logger.Warn("Invalid create product input")
			return
		}

		if uploaded != nil {
			req.Image = uploaded
		}

		product, err := h.productService.CreateProduct(r.Context(), &req)
		if err != nil {
			logger.Warn("Failed to create product", slog.Any("error", err))
			h.discardImage(r, uploaded)
			response.Error(w, err)

			return
		}

		logger.Info("Product created", slog.Int64("productId", product.ID))
		response.Success(w, http.StatusCreated, product)
	}
}

// UpdateProduct godoc
//
//	@Summary		Update a product
//	@Description	multipart/form-data takes the same fields plus an optional "image" file.
//	@Tags			Admin
//	@Accept			json,mpfd
//	@Produce		json
//	@Param			id		path		int							true	"Product ID"
//	@Param			product	body		models.UpdateProductRequest	true	"Fields to change"
//	@Success		200		{object}	models.Product
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		404		{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/products/{id} [put]
func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateProductRequest

		uploaded, ok := h.decodeProduct(w, r, &req)
		if !ok {
			logger.Warn("Invalid update product input")
			return
		}

		if uploaded != nil {
			req.Image = uploaded
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			logger.Warn("Failed to update product", slog.Int64("productId", id), slog.Any("error", err))
			h.discardImage(r, uploaded)
			response.Error(w, err)

			return
		}

		logger.Info("Product updated", slog.Int64("productId", id))
		response.Success(w, http.StatusOK, product)
	}
}

// DeleteProduct godoc
//
//	@Summary	Delete a product
//	@Tags		Admin
//	@Param		id	path	int	true	"Product ID"
//	@Success	204
//	@Failure	404	{object}	response.ErrorResponse
//	@Failure	409	{object}	response.ErrorResponse	"Product has orders"
//	@Security	BearerAuth
//	@Router		/admin/products/{id} [delete]
func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Product deleted", slog.Int64("productId", id))
		w.WriteHeader(http.StatusNoContent)
	}
}
