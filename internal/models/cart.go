package models

import "time"

type Cart struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []CartItem `json:"items"`
}

type CartItem struct {
	ID        int64    `json:"id"`
	CartID    int64    `json:"cart"`
	ProductID int64    `json:"-"`
	Product   *Product `json:"product"`
	Quantity  int      `json:"quantity"`
}

// Quantity defaults to 1 when omitted.
type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  *int  `json:"quantity,omitempty"`
}

type AddItemResponse struct {
	Message    string `json:"message"`
	CartItemID int64  `json:"cart_item_id"`
	TotalItems int    `json:"total_items"`
}

type UpdateItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  *int  `json:"quantity,omitempty"`
}

type RemoveItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
