package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"blueberry/internal/xpkg/models"
)

const categoryColumns = `id, name, description, display_order, visible, created_at, updated_at`

type CategoryRepo struct {
	db Conn
}

func NewCategoryRepo(db Conn) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func scanCategory(row pgx.Row) (models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Order, &c.Visible, &c.CreatedAt, &c.UpdatedAt)
	return c, translate(err)
}

// List returns categories by display order.
func (cr *CategoryRepo) List(ctx context.Context, visibleOnly bool) ([]models.Category, error) {
	if err := alive(cr.db); err != nil {
		return nil, err
	}
	var w where
	if visibleOnly {
		w.add("visible = $%d", true)
	}
	rows, err := cr.db.GetConn().Query(ctx,
		`SELECT `+categoryColumns+` FROM categories`+w.String()+` ORDER BY display_order ASC, name ASC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Category, error) {
		return scanCategory(row)
	})
}

func (cr *CategoryRepo) Get(ctx context.Context, id string) (models.Category, error) {
	if err := alive(cr.db); err != nil {
		return models.Category{}, err
	}
	return scanCategory(cr.db.GetConn().QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
}

func (cr *CategoryRepo) Create(ctx context.Context, c models.Category) (models.Category, error) {
	if err := alive(cr.db); err != nil {
		return models.Category{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	row := cr.db.GetConn().QueryRow(ctx, `
		INSERT INTO categories (id, name, description, display_order, visible, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING `+categoryColumns,
		c.ID, c.Name, c.Description, c.Order, c.Visible, now)
	return scanCategory(row)
}

func (cr *CategoryRepo) Update(ctx context.Context, c models.Category) (models.Category, error) {
	if err := alive(cr.db); err != nil {
		return models.Category{}, err
	}
	row := cr.db.GetConn().QueryRow(ctx, `
		UPDATE categories
		SET name = $2, description = $3, display_order = $4, visible = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+categoryColumns,
		c.ID, c.Name, c.Description, c.Order, c.Visible)
	return scanCategory(row)
}

func (cr *CategoryRepo) Delete(ctx context.Context, id string) error {
	if err := alive(cr.db); err != nil {
		return err
	}
	tag, err := cr.db.GetConn().Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (cr *CategoryRepo) Count(ctx context.Context) (int, error) {
	if err := alive(cr.db); err != nil {
		return 0, err
	}
	var n int
	err := cr.db.GetConn().QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n)
	return n, err
}
