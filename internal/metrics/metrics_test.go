package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("404", http.MethodGet, "/api/orders/{id}"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders/42", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders/43", nil))

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("404", http.MethodGet, "/api/orders/{id}"))
	assert.InDelta(t, 2, after-before, 0.001)
	assert.InDelta(t, 0, testutil.ToFloat64(httpRequestsInFlight), 0.001)
}

func TestRecordCheckout(t *testing.T) {
	before := testutil.ToFloat64(checkoutOrdersTotal.WithLabelValues(CheckoutEmptyCart))

	RecordCheckout(CheckoutEmptyCart)

	assert.InDelta(t, 1, testutil.ToFloat64(checkoutOrdersTotal.WithLabelValues(CheckoutEmptyCart))-before, 0.001)
}

func TestObserveOrderAmount(t *testing.T) {
	ObserveOrderAmount(decimal.RequireFromString("42.50"))

	assert.Equal(t, 1, testutil.CollectAndCount(checkoutOrderAmount))
}
