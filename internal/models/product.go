package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int64           `json:"category_id"`
	Category    *Category       `json:"category,omitempty"`
	Image       *string         `json:"image"`
	Stock       int             `json:"stock"`
	IsAvailable bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product

	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain(p), fixed(p.Price)})
}

// Price is checked in the service layer: the validator has no decimal support.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int64           `json:"category_id" validate:"required,gt=0"`
	Image       *string         `json:"image,omitempty" validate:"omitempty,max=255"`
	Stock       int             `json:"stock"`
	IsAvailable *bool           `json:"is_available,omitempty"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	CategoryID  *int64           `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Image       *string          `json:"image,omitempty" validate:"omitempty,max=255"`
	Stock       *int             `json:"stock,omitempty"`
	IsAvailable *bool            `json:"is_available,omitempty"`
}

// Unpaged lists every match and ignores Page and PageSize.
type ProductFilter struct {
	CategorySlug   string
	IncludeHidden  bool
	Unpaged        bool
	Page, PageSize int
}
