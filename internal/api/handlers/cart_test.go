package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/errors"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/services/mocks"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetCurrentCart(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(mocks.CartService)
		h := handlers.NewCartHandler(svc)

		svc.On("GetCurrentCart", mock.Anything, int64(1)).
			Return(&models.Cart{ID: 7, UserID: 1, Items: []models.CartItem{}}, nil).Once()

		rr := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/carts/current", nil, testutils.User(1), nil)

		h.GetCurrentCart().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"id":7,"user":1,"created_at":"0001-01-01T00:00:00Z","items":[]}`, rr.Body.String())
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		svc := new(mocks.CartService)
		h := handlers.NewCartHandler(svc)

		rr := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/carts/current", nil, nil)

		h.GetCurrentCart().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		svc.AssertNotCalled(t, "GetCurrentCart", mock.Anything, mock.Anything)
	})
}

func TestAddItem(t *testing.T) {
	t.Run("Quantity omitted", func(t *testing.T) {
		svc := new(mocks.CartService)
		h := handlers.NewCartHandler(svc)

		svc.On("AddItem", mock.Anything, int64(1), &models.AddItemRequest{ProductID: 3}).
			Return(&models.AddItemResponse{Message: "Item added/updated", CartItemID: 11, TotalItems: 1}, nil).Once()

		rr := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/carts/add_item",
			strings.NewReader(`{"product_id":3}`), testutils.User(1), nil)

		h.AddItem().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"message":"Item added/updated","cart_item_id":11,"total_items":1}`, rr.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("Zero quantity reaches the service", func(t *testing.T) {
		svc := new(mocks.CartService)
		h := handlers.NewCartHandler(svc)

		svc.On("AddItem", mock.Anything, int64(1), mock.MatchedBy(func(r *models.AddItemRequest) bool {
			return r.Quantity != nil && *r.Quantity == 0
		})).Return(&models.AddItemResponse{}, nil).Once()

		rr := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/carts/add_item",
			strings.NewReader(`{"product_id":3,"quantity":0}`), testutils.User(1), nil)

		h.AddItem().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Missing product_id", func(t *testing.T) {
		svc := new(mocks.CartService)
		h := handlers.NewCartHandler(svc)

		rr := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/carts/add_item",
			strings.NewReader(`{"quantity":2}`), testutils.User(1), nil)

		h.AddItem().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr).Fields, "product_id")
	})

	t.Run("Unknown product", func(t *testing.T) {
		svc := new(mocks.CartService)
		h := handlers.NewCartHandler(svc)

		svc.On("AddItem", mock.Anything, int64(1), mock.Anything).Return(nil, appErrors.NotFoundError("Product not found")).Once()

		rr := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/carts/add_item",
			strings.NewReader(`{"product_id":99}`), testutils.User(1), nil)

		h.AddItem().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestUpdateItem(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(mocks.CartService)
		h := handlers.NewCartHandler(svc)

		svc.On("UpdateItem", mock.Anything, int64(1), mock.Anything).Return(nil).Once()

		rr := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/carts/update_item",
			strings.NewReader(`{"product_id":3,"quantity":4}`), testutils.User(1), nil)

		h.UpdateItem().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"message":"Quantity updated"}`, rr.Body.String())
	})

	t.Run("No line", func(t *testing.T) {
		svc := new(mocks.CartService)
		h := handlers.NewCartHandler(svc)

		svc.On("UpdateItem", mock.Anything, int64(1), mock.Anything).Return(appErrors.NotFoundError("Cart item not found")).Once()

		rr := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/carts/update_item",
			strings.NewReader(`{"product_id":3}`), testutils.User(1), nil)

		h.UpdateItem().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Cart item not found", decodeError(t, rr).Error)
	})
}

func TestRemoveItem(t *testing.T) {
	svc := new(mocks.CartService)
	h := handlers.NewCartHandler(svc)

	svc.On("RemoveItem", mock.Anything, int64(1), &models.RemoveItemRequest{ProductID: 3}).Return(nil).Once()

	rr := httptest.NewRecorder()
	req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/carts/remove_item",
		strings.NewReader(`{"product_id":3}`), testutils.User(1), nil)

	h.RemoveItem().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Item removed"}`, rr.Body.String())
}

func TestListCartItems(t *testing.T) {
	svc := new(mocks.CartService)
	h := handlers.NewCartHandler(svc)

	svc.On("ListItems", mock.Anything, int64(1)).Return([]models.CartItem{}, nil).Once()

	rr := httptest.NewRecorder()
	req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/cartitems", nil, testutils.User(1), nil)

	h.ListItems().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var items []models.CartItem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	assert.Empty(t, items)
	assert.Equal(t, "[]\n", rr.Body.String())
}
