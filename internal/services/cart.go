package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/errors"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
	repository "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/repositories"
)

type CartService interface {
	GetCurrentCart(ctx context.Context, userID int64) (*models.Cart, error)
	AddItem(ctx context.Context, userID int64, req *models.AddItemRequest) (*models.AddItemResponse, error)
	UpdateItem(ctx context.Context, userID int64, req *models.UpdateItemRequest) error
	RemoveItem(ctx context.Context, userID int64, req *models.RemoveItemRequest) error
	ListItems(ctx context.Context, userID int64) ([]models.CartItem, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetCurrentCart returns the user's cart with its lines, creating an empty one on first use.
func (s *cartService) GetCurrentCart(ctx context.Context, userID int64) (*models.Cart, error) {
	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch cart items").WithError(err)
	}

	cart.Items = items

	return cart, nil
}

// AddItem adds quantity to the product's line, or opens a line with it. The
// quantity is applied as given: zero and negative values are not rejected.
func (s *cartService) AddItem(ctx context.Context, userID int64, req *models.AddItemRequest) (*models.AddItemResponse, error) {
	const op = "service.CartService.AddItem"

	logger := middleware.LoggerFromContext(ctx).With(slog.String("op", op), slog.Int64("productId", req.ProductID))

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.productRepo.GetProductByID(ctx, req.ProductID, true); err != nil {
		return nil, productLookupError(err)
	}

	item, err := s.cartRepo.GetItem(ctx, cart.ID, req.ProductID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		item = &models.CartItem{CartID: cart.ID, ProductID: req.ProductID, Quantity: quantity}
		if err := s.cartRepo.CreateItem(ctx, item); err != nil {
			logger.Error("failed to create cart item", slog.Any("error", err))
			return nil, appErrors.DatabaseError("Failed to add item to cart").WithError(err)
		}
	case err != nil:
		return nil, appErrors.DatabaseError("Failed to fetch cart item").WithError(err)
	default:
		item.Quantity += quantity
		if err := s.cartRepo.UpdateItemQuantity(ctx, item.ID, item.Quantity); err != nil {
			logger.Error("failed to update cart item", slog.Any("error", err))
			return nil, appErrors.DatabaseError("Failed to update cart item").WithError(err)
		}
	}

	total, err := s.cartRepo.CountItems(ctx, cart.ID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to count cart items").WithError(err)
	}

	return &models.AddItemResponse{
		Message:    "Item added/updated",
		CartItemID: item.ID,
		TotalItems: total,
	}, nil
}

// UpdateItem sets the line quantity, never below 1.
func (s *cartService) UpdateItem(ctx context.Context, userID int64, req *models.UpdateItemRequest) error {
	quantity := 1
	if req.Quantity != nil {
		quantity = max(1, *req.Quantity)
	}

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Cart not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	item, err := s.cartRepo.GetItem(ctx, cart.ID, req.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Cart item not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to fetch cart item").WithError(err)
	}

	if err := s.cartRepo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		return appErrors.DatabaseError("Failed to update cart item").WithError(err)
	}

	return nil
}

// RemoveItem deletes the product's lines. A missing cart or line is not an error.
func (s *cartService) RemoveItem(ctx context.Context, userID int64, req *models.RemoveItemRequest) error {
	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}

		return appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if _, err := s.cartRepo.DeleteItems(ctx, cart.ID, req.ProductID); err != nil {
		return appErrors.DatabaseError("Failed to remove cart item").WithError(err)
	}

	return nil
}

func (s *cartService) ListItems(ctx context.Context, userID int64) ([]models.CartItem, error) {
	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []models.CartItem{}, nil
		}

		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	items, err := s.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch cart items").WithError(err)
	}

	return items, nil
}

func (s *cartService) getOrCreateCart(ctx context.Context, userID int64) (*models.Cart, error) {
	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	cart = &models.Cart{UserID: userID}
	if err := s.cartRepo.CreateCart(ctx, cart); err != nil {
		return nil, appErrors.DatabaseError("Failed to create cart").WithError(err)
	}

	return cart, nil
}
