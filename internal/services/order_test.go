package service_test

import (
	"database/sql"
	"errors"
	"testing"

	appErrors "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/errors"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	svc        service.OrderService
	orderRepo  *mocks.OrderRepository
	cartRepo   *mocks.CartRepository
	transactor *mocks.Transactor
}

func newOrderFixture(atomic bool) *orderFixture {
	f := &orderFixture{
		orderRepo:  new(mocks.OrderRepository),
		cartRepo:   new(mocks.CartRepository),
		transactor: new(mocks.Transactor),
	}
	f.svc = service.NewOrderService(f.orderRepo, f.cartRepo, f.transactor, atomic)

	return f
}

func cartLine(productID int64, price string, quantity int) models.CartItem {
	return models.CartItem{
		ProductID: productID,
		Product:   &models.Product{ID: productID, Price: decimal.RequireFromString(price)},
		Quantity:  quantity,
	}
}

// expectCheckout stubs a successful checkout of cart 7 for user 1.
func (f *orderFixture) expectCheckout() {
	f.cartRepo.On("GetCartByUserID", mock.Anything, int64(1)).Return(&models.Cart{ID: 7, UserID: 1}, nil).Once()
	f.cartRepo.On("CountItems", mock.Anything, int64(7)).Return(2, nil).Once()
	f.cartRepo.On("ListItems", mock.Anything, int64(7)).
		Return([]models.CartItem{cartLine(3, "10.00", 2), cartLine(4, "0.15", 3)}, nil).Once()
	f.orderRepo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
		return o.UserID == 1 && o.Status == models.OrderStatusConfirmed && o.TotalAmount.Equal(decimal.RequireFromString("20.45"))
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Order).ID = 50
	}).Return(nil).Once()
	// Product 3 changed price between the two reads.
	f.cartRepo.On("ListItems", mock.Anything, int64(7)).
		Return([]models.CartItem{cartLine(3, "12.00", 2), cartLine(4, "0.15", 3)}, nil).Once()
	f.orderRepo.On("CreateOrderItem", mock.Anything, mock.MatchedBy(func(i *models.OrderItem) bool {
		return i.OrderID == 50 && i.ProductID == 3 && i.Quantity == 2 && i.Price.Equal(decimal.RequireFromString("12.00"))
	})).Return(nil).Once()
	f.orderRepo.On("CreateOrderItem", mock.Anything, mock.MatchedBy(func(i *models.OrderItem) bool {
		return i.OrderID == 50 && i.ProductID == 4 && i.Quantity == 3
	})).Return(nil).Once()
	f.cartRepo.On("ClearItems", mock.Anything, int64(7)).Return(int64(2), nil).Once()
	f.orderRepo.On("GetOrderByID", mock.Anything, int64(50)).
		Return(&models.Order{ID: 50, UserID: 1, TotalAmount: decimal.RequireFromString("20.45"), Status: models.OrderStatusConfirmed}, nil).Once()
}

func TestOrderService_CreateOrderFromCart(t *testing.T) {
	t.Run("Success without a transaction", func(t *testing.T) {
		f := newOrderFixture(false)
		f.expectCheckout()

		order, err := f.svc.CreateOrderFromCart(t.Context(), 1)

		require.NoError(t, err)
		assert.Equal(t, int64(50), order.ID)
		assert.Equal(t, "20.45", order.TotalAmount.StringFixed(2))
		f.orderRepo.AssertExpectations(t)
		f.cartRepo.AssertExpectations(t)
		f.transactor.AssertNotCalled(t, "WithinTx", mock.Anything, mock.Anything)
	})

	t.Run("Success inside a transaction", func(t *testing.T) {
		f := newOrderFixture(true)
		f.expectCheckout()
		f.transactor.On("WithinTx", mock.Anything, mock.Anything).Return(nil).Once()

		order, err := f.svc.CreateOrderFromCart(t.Context(), 1)

		require.NoError(t, err)
		assert.Equal(t, int64(50), order.ID)
		f.transactor.AssertExpectations(t)
	})

	t.Run("Transaction failure", func(t *testing.T) {
		f := newOrderFixture(true)
		f.transactor.On("WithinTx", mock.Anything, mock.Anything).Return(errors.New("begin failed")).Once()

		_, err := f.svc.CreateOrderFromCart(t.Context(), 1)

		requireAppError(t, err, appErrors.ErrCodeDatabaseError)
	})

	t.Run("No cart", func(t *testing.T) {
		f := newOrderFixture(false)
		f.cartRepo.On("GetCartByUserID", mock.Anything, int64(1)).Return(nil, sql.ErrNoRows).Once()

		_, err := f.svc.CreateOrderFromCart(t.Context(), 1)

		appErr := requireAppError(t, err, appErrors.ErrCodeCartEmpty)
		assert.Equal(t, "Cart is empty", appErr.Message)
	})

	t.Run("Empty cart", func(t *testing.T) {
		f := newOrderFixture(false)
		f.cartRepo.On("GetCartByUserID", mock.Anything, int64(1)).Return(&models.Cart{ID: 7}, nil).Once()
		f.cartRepo.On("CountItems", mock.Anything, int64(7)).Return(0, nil).Once()

		_, err := f.svc.CreateOrderFromCart(t.Context(), 1)

		requireAppError(t, err, appErrors.ErrCodeCartEmpty)
		f.orderRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("Order insert fails", func(t *testing.T) {
		f := newOrderFixture(false)
		f.cartRepo.On("GetCartByUserID", mock.Anything, int64(1)).Return(&models.Cart{ID: 7}, nil).Once()
		f.cartRepo.On("CountItems", mock.Anything, int64(7)).Return(1, nil).Once()
		f.cartRepo.On("ListItems", mock.Anything, int64(7)).Return([]models.CartItem{cartLine(3, "1.00", 1)}, nil).Once()
		f.orderRepo.On("CreateOrder", mock.Anything, mock.Anything).Return(errors.New("insert failed")).Once()

		_, err := f.svc.CreateOrderFromCart(t.Context(), 1)

		requireAppError(t, err, appErrors.ErrCodeDatabaseError)
		f.cartRepo.AssertNotCalled(t, "ClearItems", mock.Anything, mock.Anything)
	})
}

func TestOrderService_GetOrder(t *testing.T) {
	t.Run("Own order", func(t *testing.T) {
		f := newOrderFixture(false)
		f.orderRepo.On("GetUserOrder", mock.Anything, int64(50), int64(1)).Return(&models.Order{ID: 50, UserID: 1}, nil).Once()

		order, err := f.svc.GetOrder(t.Context(), 1, 50)

		require.NoError(t, err)
		assert.Equal(t, int64(50), order.ID)
	})

	t.Run("Someone else's order is not found", func(t *testing.T) {
		f := newOrderFixture(false)
		f.orderRepo.On("GetUserOrder", mock.Anything, int64(50), int64(2)).Return(nil, sql.ErrNoRows).Once()

		_, err := f.svc.GetOrder(t.Context(), 2, 50)

		requireAppError(t, err, appErrors.ErrCodeNotFound)
	})
}

func TestOrderService_ListOrders(t *testing.T) {
	f := newOrderFixture(false)
	f.orderRepo.On("ListOrdersByUser", mock.Anything, int64(1)).Return([]*models.Order{{ID: 2}, {ID: 1}}, nil).Once()
	f.orderRepo.On("ListAllOrders", mock.Anything).Return(nil, errors.New("boom")).Once()

	orders, err := f.svc.ListOrders(t.Context(), 1)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	_, err = f.svc.ListAllOrders(t.Context())
	requireAppError(t, err, appErrors.ErrCodeDatabaseError)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newOrderFixture(false)
		f.orderRepo.On("DeleteOrder", mock.Anything, int64(50)).Return(nil).Once()

		require.NoError(t, f.svc.DeleteOrder(t.Context(), 50))
	})

	t.Run("Not found", func(t *testing.T) {
		f := newOrderFixture(false)
		f.orderRepo.On("DeleteOrder", mock.Anything, int64(50)).Return(sql.ErrNoRows).Once()

		requireAppError(t, f.svc.DeleteOrder(t.Context(), 50), appErrors.ErrCodeNotFound)
	})
}
