package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pharmaforge/rxcast-go/internal/models"
)

// DatabasePool defines the pool operations the repository needs. The
// interface allows both the real pool and a mock implementation in tests.
type DatabasePool interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// Repository reads the product and category catalog the forecasting pipeline
// runs over.
type Repository struct {
	pool DatabasePool
}

func NewRepository(pool DatabasePool) *Repository {
	return &Repository{pool: pool}
}

// ListProducts returns every active product with its category name and unit
// economics, ordered by name.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Item, error) {
	query := `
		SELECT p.id, p.name, COALESCE(c.name, ''), p.avg_daily_sales, p.unit_price, p.cost_price
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.is_active = true
		ORDER BY p.name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.CategoryName,
			&item.AvgDailySales,
			&item.UnitPrice,
			&item.CostPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return items, nil
}

// GetProduct returns one product by id.
func (r *Repository) GetProduct(ctx context.Context, id string) (*models.Item, error) {
	query := `
		SELECT p.id, p.name, COALESCE(c.name, ''), p.avg_daily_sales, p.unit_price, p.cost_price
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`

	var item models.Item
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.CategoryName,
		&item.AvgDailySales,
		&item.UnitPrice,
		&item.CostPrice,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("product %s not found", id)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &item, nil
}

// ListCategories returns every category ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	query := `SELECT id, name FROM categories ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// GetCategory returns one category by id, with aggregate unit economics
// averaged over its active products so it can be forecast like an item.
func (r *Repository) GetCategory(ctx context.Context, id string) (*models.Item, error) {
	query := `
		SELECT c.id, c.name,
			COALESCE(SUM(p.avg_daily_sales), 0),
			COALESCE(AVG(p.unit_price), 0),
			COALESCE(AVG(p.cost_price), 0)
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id AND p.is_active = true
		WHERE c.id = $1
		GROUP BY c.id, c.name
	`

	var item models.Item
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.AvgDailySales,
		&item.UnitPrice,
		&item.CostPrice,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("category %s not found", id)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &item, nil
}
