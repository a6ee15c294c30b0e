package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/utils"
)

// CartRepository works on carts and their lines. Nothing enforces one cart per
// user or one line per product, so lookups pick the lowest id.
type CartRepository interface {
	CreateCart(ctx context.Context, cart *models.Cart) error
	GetCartByUserID(ctx context.Context, userID int64) (*models.Cart, error)
	ListItems(ctx context.Context, cartID int64) ([]models.CartItem, error)
	CountItems(ctx context.Context, cartID int64) (int, error)
	GetItem(ctx context.Context, cartID, productID int64) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error
	DeleteItems(ctx context.Context, cartID, productID int64) (int64, error)
	ClearItems(ctx context.Context, cartID int64) (int64, error)
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

func (r *cartRepository) CreateCart(ctx context.Context, cart *models.Cart) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO carts (user_id) VALUES ($1) RETURNING id, created_at`

	return conn(ctx, r.DB).QueryRowContext(dbCtx, query, cart.UserID).Scan(&cart.ID, &cart.CreatedAt)
}

func (r *cartRepository) GetCartByUserID(ctx context.Context, userID int64) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cart := &models.Cart{}
	query := `SELECT id, user_id, created_at FROM carts WHERE user_id = $1 ORDER BY id LIMIT 1`

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt)
	if err != nil {
		return nil, err
	}

	return cart, nil
}

// ListItems returns the lines of a cart with their current product rows.
func (r *cartRepository) ListItems(ctx context.Context, cartID int64) ([]models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ci.id, ci.cart_id, ci.quantity,
		       p.id, p.name, p.description, p.price, p.category_id, p.image, p.stock, p.is_available, p.created_at,
		       c.id, c.name, c.slug
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		WHERE ci.cart_id = $1
		ORDER BY ci.id`

	rows, err := conn(ctx, r.DB).QueryContext(dbCtx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("querying cart items: %w", err)
	}

	defer rows.Close()

	items := []models.CartItem{}

	for rows.Next() {
		var (
			item     models.CartItem
			product  models.Product
			category models.Category
		)

		err := rows.Scan(&item.ID, &item.CartID, &item.Quantity,
			&product.ID, &product.Name, &product.Description, &product.Price, &product.CategoryID,
			&product.Image, &product.Stock, &product.IsAvailable, &product.CreatedAt,
			&category.ID, &category.Name, &category.Slug)
		if err != nil {
			return nil, err
		}

		product.Category = &category
		item.ProductID = product.ID
		item.Product = &product
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *cartRepository) CountItems(ctx context.Context, cartID int64) (int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var count int

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, `SELECT COUNT(*) FROM cart_items WHERE cart_id = $1`, cartID).Scan(&count)

	return count, err
}

func (r *cartRepository) GetItem(ctx context.Context, cartID, productID int64) (*models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	item := &models.CartItem{}
	query := `
		SELECT id, cart_id, product_id, quantity
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2
		ORDER BY id LIMIT 1`

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, cartID, productID).
		Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity)
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *cartRepository) CreateItem(ctx context.Context, item *models.CartItem) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO cart_items (cart_id, product_id, quantity) VALUES ($1, $2, $3) RETURNING id`

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, item.CartID, item.ProductID, item.Quantity).Scan(&item.ID)
	if err != nil {
		return mapPQError(err)
	}

	return nil
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := conn(ctx, r.DB).ExecContext(dbCtx, `UPDATE cart_items SET quantity = $1 WHERE id = $2`, quantity, itemID)
	if err != nil {
		return err
	}

	return requireAffected(result)
}

// DeleteItems removes every line of the product in the cart and reports how many went.
func (r *cartRepository) DeleteItems(ctx context.Context, cartID, productID int64) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := conn(ctx, r.DB).ExecContext(dbCtx, `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// ClearItems empties the cart. The cart row itself is kept.
func (r *cartRepository) ClearItems(ctx context.Context, cartID int64) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := conn(ctx, r.DB).ExecContext(dbCtx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
