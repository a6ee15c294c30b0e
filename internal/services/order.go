package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/errors"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/metrics"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
	repository "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/repositories"
	"github.com/shopspring/decimal"
)

type OrderService interface {
	CreateOrderFromCart(ctx context.Context, userID int64) (*models.Order, error)
	ListOrders(ctx context.Context, userID int64) ([]*models.Order, error)
	GetOrder(ctx context.Context, userID, orderID int64) (*models.Order, error)
	ListAllOrders(ctx context.Context) ([]*models.Order, error)
	DeleteOrder(ctx context.Context, orderID int64) error
}

type orderService struct {
	orderRepo  repository.OrderRepository
	cartRepo   repository.CartRepository
	transactor repository.Transactor
	atomic     bool
}

// NewOrderService builds the order service. With atomic set, checkout runs in
// one transaction; otherwise each step commits on its own.
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, transactor repository.Transactor, atomic bool) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		cartRepo:   cartRepo,
		transactor: transactor,
		atomic:     atomic,
	}
}

// CreateOrderFromCart turns the cart into a confirmed order and empties it.
// No stock is checked or decremented.
func (s *orderService) CreateOrderFromCart(ctx context.Context, userID int64) (*models.Order, error) {
	const op = "service.OrderService.CreateOrderFromCart"

	logger := middleware.LoggerFromContext(ctx).With(slog.String("op", op), slog.Int64("userId", userID))

	var order *models.Order

	checkout := func(ctx context.Context) error {
		var err error
		order, err = s.checkout(ctx, userID)

		return err
	}

	var err error
	if s.atomic {
		err = s.transactor.WithinTx(ctx, checkout)
	} else {
		err = checkout(ctx)
	}

	if err != nil {
		if appErr, ok := appErrors.IsAppError(err); ok && appErr.Code == appErrors.ErrCodeCartEmpty {
			metrics.RecordCheckout(metrics.CheckoutEmptyCart)
			return nil, err
		}

		metrics.RecordCheckout(metrics.CheckoutFailed)
		logger.Error("checkout failed", slog.Any("error", err))

		if _, ok := appErrors.IsAppError(err); ok {
			return nil, err
		}

		return nil, appErrors.DatabaseError("Failed to create order").WithError(err)
	}

	metrics.RecordCheckout(metrics.CheckoutCreated)
	metrics.ObserveOrderAmount(order.TotalAmount)
	logger.Info("order created", slog.Int64("orderId", order.ID), slog.String("total", order.TotalAmount.StringFixed(2)))

	return order, nil
}

func (s *orderService) checkout(ctx context.Context, userID int64) (*models.Order, error) {
	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.CartEmptyError()
		}

		return nil, err
	}

	count, err := s.cartRepo.CountItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	if count == 0 {
		return nil, appErrors.CartEmptyError()
	}

	// The total comes from the current product prices.
	items, err := s.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order := &models.Order{
		UserID:      userID,
		TotalAmount: total.Round(2),
		Status:      models.OrderStatusConfirmed,
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	// Lines and prices are read again for the snapshot.
	items, err = s.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		orderItem := &models.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
		}

		if err := s.orderRepo.CreateOrderItem(ctx, orderItem); err != nil {
			return nil, err
		}
	}

	if _, err := s.cartRepo.ClearItems(ctx, cart.ID); err != nil {
		return nil, err
	}

	return s.orderRepo.GetOrderByID(ctx, order.ID)
}

func (s *orderService) ListOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	orders, err := s.orderRepo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, nil
}

// GetOrder hides other users' orders behind a not found.
func (s *orderService) GetOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetUserOrder(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	return order, nil
}

func (s *orderService) ListAllOrders(ctx context.Context) ([]*models.Order, error) {
	orders, err := s.orderRepo.ListAllOrders(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, orderID int64) error {
	if err := s.orderRepo.DeleteOrder(ctx, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Order not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to delete order").WithError(err)
	}

	middleware.LoggerFromContext(ctx).Info("order deleted", slog.Int64("orderId", orderID))

	return nil
}
