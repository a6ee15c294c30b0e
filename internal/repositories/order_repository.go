package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/utils"
	"github.com/lib/pq"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItem(ctx context.Context, item *models.OrderItem) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetUserOrder(ctx context.Context, id, userID int64) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]*models.Order, error)
	ListAllOrders(ctx context.Context) ([]*models.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

const orderSelect = `
	SELECT o.id, o.user_id, u.username, o.total_amount, o.status, o.created_at
	FROM orders o
	JOIN users u ON o.user_id = u.id`

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO orders (user_id, total_amount, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return conn(ctx, r.DB).QueryRowContext(dbCtx, query, order.UserID, order.TotalAmount, order.Status).
		Scan(&order.ID, &order.CreatedAt)
}

func (r *orderRepository) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return conn(ctx, r.DB).QueryRowContext(dbCtx, query, item.OrderID, item.ProductID, item.Quantity, item.Price).
		Scan(&item.ID)
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	return r.getOne(ctx, orderSelect+` WHERE o.id = $1`, id)
}

// GetUserOrder only finds orders owned by userID.
func (r *orderRepository) GetUserOrder(ctx context.Context, id, userID int64) (*models.Order, error) {
	return r.getOne(ctx, orderSelect+` WHERE o.id = $1 AND o.user_id = $2`, id, userID)
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	return r.list(ctx, orderSelect+` WHERE o.user_id = $1 ORDER BY o.created_at DESC, o.id DESC`, userID)
}

func (r *orderRepository) ListAllOrders(ctx context.Context) ([]*models.Order, error) {
	return r.list(ctx, orderSelect+` ORDER BY o.created_at DESC, o.id DESC`)
}

// DeleteOrder removes the order; its items go with it through the cascade.
func (r *orderRepository) DeleteOrder(ctx context.Context, id int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := conn(ctx, r.DB).ExecContext(dbCtx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return requireAffected(result)
}

func (r *orderRepository) getOne(ctx context.Context, query string, args ...any) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{}

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, args...).
		Scan(&order.ID, &order.UserID, &order.Username, &order.TotalAmount, &order.Status, &order.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(dbCtx, []*models.Order{order}); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := conn(ctx, r.DB).QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}

	defer rows.Close()

	orders := []*models.Order{}

	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.UserID, &order.Username, &order.TotalAmount, &order.Status, &order.CreatedAt); err != nil {
			return nil, err
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(dbCtx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// attachItems loads the items of all given orders in one query.
func (r *orderRepository) attachItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(orders))
	byID := make(map[int64]*models.Order, len(orders))

	for _, order := range orders {
		order.Items = []models.OrderItem{}
		ids = append(ids, order.ID)
		byID[order.ID] = order
	}

	query := `
		SELECT oi.id, oi.order_id, oi.quantity, oi.price,
		       p.id, p.name, p.description, p.price, p.category_id, p.image, p.stock, p.is_available, p.created_at,
		       c.id, c.name, c.slug
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id`

	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("querying order items: %w", err)
	}

	defer rows.Close()

	for rows.Next() {
		var (
			item     models.OrderItem
			product  models.Product
			category models.Category
		)

		err := rows.Scan(&item.ID, &item.OrderID, &item.Quantity, &item.Price,
			&product.ID, &product.Name, &product.Description, &product.Price, &product.CategoryID,
			&product.Image, &product.Stock, &product.IsAvailable, &product.CreatedAt,
			&category.ID, &category.Name, &category.Slug)
		if err != nil {
			return err
		}

		product.Category = &category
		item.ProductID = product.ID
		item.Product = &product

		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}

	return rows.Err()
}
