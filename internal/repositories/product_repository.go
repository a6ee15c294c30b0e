package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/utils"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id int64, includeHidden bool) (*models.Product, error)
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error)
	SearchProducts(ctx context.Context, query string) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productSelect = `
	SELECT p.id, p.name, p.description, p.price, p.category_id, p.image, p.stock, p.is_available, p.created_at,
	       c.id, c.name, c.slug
	FROM products p
	JOIN categories c ON p.category_id = c.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	product := &models.Product{}
	category := &models.Category{}

	err := row.Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.CategoryID,
		&product.Image, &product.Stock, &product.IsAvailable, &product.CreatedAt,
		&category.ID, &category.Name, &category.Slug)
	if err != nil {
		return nil, err
	}

	product.Category = category

	return product, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO products (name, description, price, category_id, image, stock, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, product.Name, product.Description, product.Price,
		product.CategoryID, product.Image, product.Stock, product.IsAvailable).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		return mapPQError(err)
	}

	return nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64, includeHidden bool) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := productSelect + ` WHERE p.id = $1`
	if !includeHidden {
		query += ` AND p.is_available = TRUE`
	}

	product, err := scanProduct(conn(ctx, r.DB).QueryRowContext(dbCtx, query, id))
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (r *productRepository) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var (
		conditions []string
		args       []any
	)

	if !filter.IncludeHidden {
		conditions = append(conditions, "p.is_available = TRUE")
	}

	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		conditions = append(conditions, fmt.Sprintf("c.slug = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int

	countQuery := `SELECT COUNT(*) FROM products p JOIN categories c ON p.category_id = c.id` + where
	if err := conn(ctx, r.DB).QueryRowContext(dbCtx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	query := productSelect + where + " ORDER BY p.id"

	if !filter.Unpaged {
		offset := (filter.Page - 1) * filter.PageSize
		args = append(args, filter.PageSize, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	products, err := r.queryProducts(dbCtx, conn(ctx, r.DB), query, args...)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// SearchProducts is a case-insensitive substring match on the name of available products.
func (r *productRepository) SearchProducts(ctx context.Context, q string) ([]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := productSelect + ` WHERE p.is_available = TRUE AND p.name ILIKE '%' || $1 || '%' ORDER BY p.id`

	return r.queryProducts(dbCtx, conn(ctx, r.DB), query, escapeLike(q))
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, category_id = $4, image = $5, stock = $6, is_available = $7
		WHERE id = $8`

	result, err := conn(ctx, r.DB).ExecContext(dbCtx, query, product.Name, product.Description, product.Price,
		product.CategoryID, product.Image, product.Stock, product.IsAvailable, product.ID)
	if err != nil {
		return mapPQError(err)
	}

	return requireAffected(result)
}

func (r *productRepository) DeleteProduct(ctx context.Context, id int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := conn(ctx, r.DB).ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapPQError(err)
	}

	return requireAffected(result)
}

func (r *productRepository) queryProducts(ctx context.Context, db DBTX, query string, args ...any) ([]*models.Product, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}

	defer rows.Close()

	products := []*models.Product{}

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
