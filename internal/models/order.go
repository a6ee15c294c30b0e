package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// Checkout only ever produces confirmed orders.
const OrderStatusConfirmed OrderStatus = "confirmed"

type Order struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user"`
	Username    string          `json:"username,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []OrderItem     `json:"items"`
}

func (o Order) MarshalJSON() ([]byte, error) {
	type plain Order

	return json.Marshal(struct {
		plain
		TotalAmount string `json:"total_amount"`
	}{plain(o), fixed(o.TotalAmount)})
}

// OrderItem.Price is the product price captured at checkout.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order"`
	ProductID int64           `json:"-"`
	Product   *Product        `json:"product"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func (i OrderItem) MarshalJSON() ([]byte, error) {
	type plain OrderItem

	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain(i), fixed(i.Price)})
}

// A missing order_id resolves to no order and yields a not found.
type DeleteOrderRequest struct {
	OrderID int64 `json:"order_id"`
}
