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

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: utils.NewValidator()}
}

// GetCurrentCart godoc
//
//	@Summary		Get the current cart
//	@Description	Returns the caller's cart with its items, creating an empty cart on first use.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.Cart
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/carts/current [get]
func (h *CartHandler) GetCurrentCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := currentUser(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.GetCurrentCart(r.Context(), principal.UserID)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to get cart", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// AddItem godoc
//
//	@Summary		Add a product to the cart
//	@Description	Quantity defaults to 1 and is added to an existing line for the same product.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddItemRequest	true	"Product and quantity"
//	@Success		200		{object}	models.AddItemResponse
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Failure		404		{object}	response.ErrorResponse	"Product not found"
//	@Security		BearerAuth
//	@Router			/carts/add_item [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		principal, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")
			return
		}

		resp, err := h.cartService.AddItem(r.Context(), principal.UserID, &req)
		if err != nil {
			logger.Warn("Failed to add item to cart", slog.Int64("productId", req.ProductID), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Cart item added", slog.Int64("cartItemId", resp.CartItemID))
		response.Success(w, http.StatusOK, resp)
	}
}

// UpdateItem godoc
//
//	@Summary		Set the quantity of a cart line
//	@Description	Quantity defaults to 1 and never goes below 1.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.UpdateItemRequest	true	"Product and quantity"
//	@Success		200		{object}	models.MessageResponse
//	@Failure		404		{object}	response.ErrorResponse	"Cart or cart item not found"
//	@Security		BearerAuth
//	@Router			/carts/update_item [post]
func (h *CartHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req models.UpdateItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		if err := h.cartService.UpdateItem(r.Context(), principal.UserID, &req); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.MessageResponse{Message: "Quantity updated"})
	}
}

// RemoveItem godoc
//
//	@Summary	Remove a product from the cart
//	@Tags		Cart
//	@Accept		json
//	@Produce	json
//	@Param		item	body		models.RemoveItemRequest	true	"Product"
//	@Success	200		{object}	models.MessageResponse
//	@Security	BearerAuth
//	@Router		/carts/remove_item [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req models.RemoveItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		if err := h.cartService.RemoveItem(r.Context(), principal.UserID, &req); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.MessageResponse{Message: "Item removed"})
	}
}

// ListItems godoc
//
//	@Summary	List the lines of the current cart
//	@Tags		Cart
//	@Produce	json
//	@Success	200	{array}	models.CartItem
//	@Security	BearerAuth
//	@Router		/cartitems [get]
func (h *CartHandler) ListItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := currentUser(w, r)
		if !ok {
			return
		}

		items, err := h.cartService.ListItems(r.Context(), principal.UserID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, items)
	}
}
