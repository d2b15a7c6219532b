package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"blueberry/internal/xpkg/models"
)

const productColumns = `id, name, category, price, description, image, available, is_special, created_at, updated_at`

type ProductRepo struct {
	db Conn
}

func NewProductRepo(db Conn) *ProductRepo {
	return &ProductRepo{db: db}
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Description, &p.Image,
		&p.Available, &p.IsSpecial, &p.CreatedAt, &p.UpdatedAt)
	return p, translate(err)
}

// List returns the products matching f, newest first.
func (pr *ProductRepo) List(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	if err := alive(pr.db); err != nil {
		return nil, err
	}

	var w where
	if f.Category != "" {
		w.add("category = $%d", f.Category)
	}
	if f.Available != nil {
		w.add("available = $%d", *f.Available)
	}
	if f.Special != nil {
		w.add("is_special = $%d", *f.Special)
	}
	if f.Search != "" {
		w.add("(name ILIKE '%%' || $%[1]d || '%%' OR description ILIKE '%%' || $%[1]d || '%%')", f.Search)
	}

	q := `SELECT ` + productColumns + ` FROM products` + w.String() + ` ORDER BY created_at DESC`
	rows, err := pr.db.GetConn().Query(ctx, q, w.args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Product, error) {
		return scanProduct(row)
	})
}

func (pr *ProductRepo) Get(ctx context.Context, id string) (models.Product, error) {
	if err := alive(pr.db); err != nil {
		return models.Product{}, err
	}
	row := pr.db.GetConn().QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (pr *ProductRepo) Create(ctx context.Context, p models.Product) (models.Product, error) {
	if err := alive(pr.db); err != nil {
		return models.Product{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	row := pr.db.GetConn().QueryRow(ctx, `
		INSERT INTO products (id, name, category, price, description, image, available, is_special, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING `+productColumns,
		p.ID, p.Name, p.Category, p.Price, p.Description, p.Image, p.Available, p.IsSpecial, now)
	return scanProduct(row)
}

func (pr *ProductRepo) Update(ctx context.Context, p models.Product) (models.Product, error) {
	if err := alive(pr.db); err != nil {
		return models.Product{}, err
	}
	row := pr.db.GetConn().QueryRow(ctx, `
		UPDATE products
		SET name = $2, category = $3, price = $4, description = $5, image = $6,
			available = $7, is_special = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		p.ID, p.Name, p.Category, p.Price, p.Description, p.Image, p.Available, p.IsSpecial)
	return scanProduct(row)
}

// Delete removes the product and returns it so its image can be dropped.
func (pr *ProductRepo) Delete(ctx context.Context, id string) (models.Product, error) {
	if err := alive(pr.db); err != nil {
		return models.Product{}, err
	}
	row := pr.db.GetConn().QueryRow(ctx, `DELETE FROM products WHERE id = $1 RETURNING `+productColumns, id)
	return scanProduct(row)
}

func (pr *ProductRepo) ToggleAvailable(ctx context.Context, id string) (models.Product, error) {
	return pr.toggle(ctx, id, "available")
}

func (pr *ProductRepo) ToggleSpecial(ctx context.Context, id string) (models.Product, error) {
	return pr.toggle(ctx, id, "is_special")
}

func (pr *ProductRepo) toggle(ctx context.Context, id, column string) (models.Product, error) {
	if err := alive(pr.db); err != nil {
		return models.Product{}, err
	}
	q := fmt.Sprintf(`UPDATE products SET %[1]s = NOT %[1]s, updated_at = now() WHERE id = $1 RETURNING `+productColumns, column)
	return scanProduct(pr.db.GetConn().QueryRow(ctx, q, id))
}

func (pr *ProductRepo) Count(ctx context.Context) (int, error) {
	if err := alive(pr.db); err != nil {
		return 0, err
	}
	var n int
	err := pr.db.GetConn().QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

// CountByCategory returns the number of products per category id.
func (pr *ProductRepo) CountByCategory(ctx context.Context) (map[string]int, error) {
	if err := alive(pr.db); err != nil {
		return nil, err
	}
	rows, err := pr.db.GetConn().Query(ctx, `SELECT category, COUNT(*) FROM products GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		counts[cat] = n
	}
	return counts, rows.Err()
}
