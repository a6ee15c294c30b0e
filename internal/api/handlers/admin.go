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

// AdminHandler serves /admin routes that are not catalog management.
type AdminHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewAdminHandler(orderService service.OrderService) *AdminHandler {
	return &AdminHandler{orderService: orderService, validator: utils.NewValidator()}
}

// Me godoc
//
//	@Summary	Check admin access
//	@Tags		Admin
//	@Produce	json
//	@Success	200	{object}	models.AdminMeResponse
//	@Failure	403	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/admin/me [get]
func (h *AdminHandler) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := currentUser(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, models.AdminMeResponse{
			IsAdmin:     true,
			Username:    principal.Username,
			Permissions: "full",
		})
	}
}

// ListAllOrders godoc
//
//	@Summary	List every order
//	@Tags		Admin
//	@Produce	json
//	@Success	200	{array}	models.Order
//	@Security	BearerAuth
//	@Router		/admin/orders [get]
func (h *AdminHandler) ListAllOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := h.orderService.ListAllOrders(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list all orders", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

// DeleteOrder godoc
//
//	@Summary	Delete an order
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		order	body		models.DeleteOrderRequest	true	"Order to delete"
//	@Success	200		{object}	models.MessageResponse
//	@Failure	404		{object}	response.ErrorResponse	"Order not found"
//	@Security	BearerAuth
//	@Router		/admin/delete_order [post]
func (h *AdminHandler) DeleteOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.DeleteOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		if err := h.orderService.DeleteOrder(r.Context(), req.OrderID); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.MessageResponse{Message: "Order deleted"})
	}
}
