package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"blueberry/internal/xpkg/models"
)

const orderColumns = `id, order_number, user_id, user_email, user_name, items, subtotal, delivery_fee, total,
	delivery_method, delivery_address, payment_method, status, niveau, estimated_delivery_time, created_at, updated_at`

type OrderRepo struct {
	db Conn
}

func NewOrderRepo(db Conn) *OrderRepo {
	return &OrderRepo{db: db}
}

func scanOrder(row pgx.Row) (models.Order, error) {
	var (
		o     models.Order
		items []byte
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.UserEmail, &o.UserName, &items,
		&o.Subtotal, &o.DeliveryFee, &o.Total, &o.DeliveryMethod, &o.DeliveryAddress,
		&o.PaymentMethod, &o.Status, &o.Niveau, &o.EstimatedDeliveryTime, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return models.Order{}, translate(err)
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return models.Order{}, fmt.Errorf("decode items of order %s: %w", o.ID, err)
	}
	// rows written before the status vocabulary was fixed
	if st, err := models.ParseOrderStatus(string(o.Status)); err == nil {
		o.Status = st
	}
	return o, nil
}

func collectOrders(rows pgx.Rows) ([]models.Order, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Order, error) {
		return scanOrder(row)
	})
}

// Create stores a new order together with its first history row.
func (or *OrderRepo) Create(ctx context.Context, o models.Order, changedBy string) (models.Order, error) {
	if err := alive(or.db); err != nil {
		return models.Order{}, err
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	items, err := json.Marshal(o.Items)
	if err != nil {
		return models.Order{}, fmt.Errorf("encode items: %w", err)
	}
	now := time.Now().UTC()

	tx, err := or.db.GetConn().Begin(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO orders (id, order_number, user_id, user_email, user_name, items, subtotal, delivery_fee, total,
			delivery_method, delivery_address, payment_method, status, niveau, estimated_delivery_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)
		RETURNING `+orderColumns,
		o.ID, o.OrderNumber, o.UserID, o.UserEmail, o.UserName, items, o.Subtotal, o.DeliveryFee, o.Total,
		o.DeliveryMethod, o.DeliveryAddress, o.PaymentMethod, o.Status, o.Niveau, o.EstimatedDeliveryTime, now)
	created, err := scanOrder(row)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	first := models.StatusChange{
		OrderID: created.ID, Field: models.FieldStatus, NewValue: created.Status.String(),
		ChangedBy: changedBy, ChangedAt: now,
	}
	if err := insertChanges(ctx, tx, []models.StatusChange{first}); err != nil {
		return models.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Order{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

func (or *OrderRepo) Get(ctx context.Context, id string) (models.Order, error) {
	if err := alive(or.db); err != nil {
		return models.Order{}, err
	}
	return scanOrder(or.db.GetConn().QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

// List returns the orders matching f, newest first.
func (or *OrderRepo) List(ctx context.Context, f models.OrderFilter) ([]models.Order, error) {
	if err := alive(or.db); err != nil {
		return nil, err
	}
	w := orderWhere(f)
	q := `SELECT ` + orderColumns + ` FROM orders` + w.String() + ` ORDER BY created_at DESC`
	q += w.limit(f.Limit)

	rows, err := or.db.GetConn().Query(ctx, q, w.args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	return collectOrders(rows)
}

// orderWhere builds the filter of List. A status matches every spelling
// older rows may still carry.
func orderWhere(f models.OrderFilter) where {
	var w where
	if f.UserID != "" {
		w.add("user_id = $%d", f.UserID)
	}
	if f.Status != "" {
		w.add("lower(status) = ANY($%d)", f.Status.Spellings())
	}
	if !f.Since.IsZero() {
		w.add("created_at >= $%d", f.Since)
	}
	return w
}

// FindPending returns the user's latest order that still awaits confirmation.
func (or *OrderRepo) FindPending(ctx context.Context, userID string) (models.Order, error) {
	orders, err := or.List(ctx, models.OrderFilter{UserID: userID, Status: models.StatusPending, Limit: 1})
	if err != nil {
		return models.Order{}, err
	}
	if len(orders) == 0 {
		return models.Order{}, ErrNotFound
	}
	return orders[0], nil
}

// Update applies u to the order under a row lock, records the status and
// niveau changes in the history and returns the order before and after.
func (or *OrderRepo) Update(ctx context.Context, id string, u models.OrderUpdate, changedBy string) (prev, next models.Order, changes []models.StatusChange, err error) {
	if err = alive(or.db); err != nil {
		return
	}

	tx, err := or.db.GetConn().Begin(ctx)
	if err != nil {
		err = fmt.Errorf("failed to begin transaction: %w", err)
		return
	}
	defer tx.Rollback(ctx)

	prev, err = scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return
	}
	if u.Status != nil && !prev.Status.CanTransitionTo(*u.Status) {
		err = fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, prev.Status, *u.Status)
		return
	}

	target := u.Apply(prev)
	now := time.Now().UTC()
	next, err = scanOrder(tx.QueryRow(ctx, `
		UPDATE orders
		SET status = $2, niveau = $3, delivery_method = $4, delivery_address = $5,
			payment_method = $6, estimated_delivery_time = $7, updated_at = $8
		WHERE id = $1
		RETURNING `+orderColumns,
		id, target.Status, target.Niveau, target.DeliveryMethod, target.DeliveryAddress,
		target.PaymentMethod, target.EstimatedDeliveryTime, now))
	if err != nil {
		err = fmt.Errorf("failed to update order: %w", err)
		return
	}

	changes = models.Changes(prev, next, changedBy, now)
	if err = insertChanges(ctx, tx, changes); err != nil {
		return
	}
	if err = tx.Commit(ctx); err != nil {
		err = fmt.Errorf("failed to commit transaction: %w", err)
	}
	return
}

func insertChanges(ctx context.Context, tx pgx.Tx, changes []models.StatusChange) error {
	for _, c := range changes {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_status_log (order_id, field, old_value, new_value, changed_by, changed_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			c.OrderID, c.Field, c.OldValue, c.NewValue, c.ChangedBy, c.ChangedAt)
		if err != nil {
			return fmt.Errorf("failed to insert order status log: %w", err)
		}
	}
	return nil
}

// History lists the order's status and niveau changes, oldest first.
func (or *OrderRepo) History(ctx context.Context, id string) ([]models.StatusChange, error) {
	if err := alive(or.db); err != nil {
		return nil, err
	}
	rows, err := or.db.GetConn().Query(ctx, `
		SELECT order_id, field, old_value, new_value, changed_by, changed_at
		FROM order_status_log
		WHERE order_id = $1
		ORDER BY changed_at ASC, id ASC`, id)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.StatusChange, error) {
		var c models.StatusChange
		err := row.Scan(&c.OrderID, &c.Field, &c.OldValue, &c.NewValue, &c.ChangedBy, &c.ChangedAt)
		return c, err
	})
}

func (or *OrderRepo) Delete(ctx context.Context, id string) error {
	if err := alive(or.db); err != nil {
		return err
	}
	tag, err := or.db.GetConn().Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns how many orders sit in each status.
func (or *OrderRepo) CountByStatus(ctx context.Context) (map[models.OrderStatus]int, error) {
	if err := alive(or.db); err != nil {
		return nil, err
	}
	rows, err := or.db.GetConn().Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.OrderStatus]int)
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		if parsed, err := models.ParseOrderStatus(st); err == nil {
			counts[parsed] += n
		}
	}
	return counts, rows.Err()
}
