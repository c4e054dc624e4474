// Package order implements the order lifecycle: durable storage of order
// headers and line items, and the service that keeps them consistent.
package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type ListQuery struct {
	Page    int
	Limit   int
	Status  Status // empty = all
	OwnerID string // empty = all
}

// Store owns order headers. Absence is reported as (nil, nil) or a false
// found flag; the service turns that into the error taxonomy.
type Store interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	// GetForUpdate locks the header row for the current transaction so
	// the item write and total recompute see a stable order.
	GetForUpdate(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, q ListQuery) ([]Order, int, error)
	Update(ctx context.Context, id, shippingAddress, notes string) (bool, error)
	UpdateStatus(ctx context.Context, id string, st Status) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	// RecomputeTotal sets total = Σ subtotal over the order's items.
	// The single code path that writes total.
	RecomputeTotal(ctx context.Context, orderID string) error
}

// ItemStore owns line items. Subtotal is kept consistent with
// quantity * unit_price on every write; total recomputation is not its
// job.
type ItemStore interface {
	CreateItem(ctx context.Context, it *Item) error
	ItemByID(ctx context.Context, id string) (*Item, error)
	FindItemByProductAndPrice(ctx context.Context, orderID, productID string, unitPrice decimal.Decimal) (*Item, error)
	ListItems(ctx context.Context, orderID string) ([]Item, error)
	UpdateItemQuantity(ctx context.Context, id string, quantity int) (bool, error)
	DeleteItem(ctx context.Context, id string) (bool, error)
	DeleteItemsByOrder(ctx context.Context, orderID string) error
}

type Repository interface {
	Store
	ItemStore
	// InTx runs fn against a repository bound to a single transaction,
	// committing when fn returns nil.
	InTx(ctx context.Context, fn func(Repository) error) error
}

// pgdb is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgdb interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PGRepo struct{ db pgdb }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) InTx(ctx context.Context, fn func(Repository) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&PGRepo{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ---- order headers ----

func (r *PGRepo) Create(ctx context.Context, o *Order) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO orders (id, owner_id, status, shipping_address, notes, total, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
	`, o.ID, o.OwnerID, o.Status, o.ShippingAddress, o.Notes, o.Total)
	return err
}

func scanOrder(row pgx.Row, withOwner bool) (*Order, error) {
	var o Order
	var status string
	var err error
	if withOwner {
		err = row.Scan(&o.ID, &o.OwnerID, &o.OwnerName, &o.OwnerEmail, &status,
			&o.ShippingAddress, &o.Notes, &o.Total, &o.CreatedAt, &o.UpdatedAt)
	} else {
		err = row.Scan(&o.ID, &o.OwnerID, &status,
			&o.ShippingAddress, &o.Notes, &o.Total, &o.CreatedAt, &o.UpdatedAt)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o.Status = Status(status)
	return &o, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	return scanOrder(r.db.QueryRow(ctx, `
		SELECT o.id, o.owner_id, u.name, u.email, o.status,
		       o.shipping_address, o.notes, o.total::text, o.created_at, o.updated_at
		FROM orders o JOIN users u ON o.owner_id = u.id
		WHERE o.id = $1
	`, id), true)
}

func (r *PGRepo) GetForUpdate(ctx context.Context, id string) (*Order, error) {
	return scanOrder(r.db.QueryRow(ctx, `
		SELECT id, owner_id, status, shipping_address, notes, total::text, created_at, updated_at
		FROM orders WHERE id = $1
		FOR UPDATE
	`, id), false)
}

func (r *PGRepo) List(ctx context.Context, q ListQuery) ([]Order, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int
	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM orders o JOIN users u ON o.owner_id = u.id
		WHERE ($1 = '' OR o.status = $1)
		  AND ($2 = '' OR o.owner_id::text = $2)
	`, string(q.Status), q.OwnerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT o.id, o.owner_id, u.name, u.email, o.status,
		       o.shipping_address, o.notes, o.total::text, o.created_at, o.updated_at
		FROM orders o JOIN users u ON o.owner_id = u.id
		WHERE ($1 = '' OR o.status = $1)
		  AND ($2 = '' OR o.owner_id::text = $2)
		ORDER BY o.created_at DESC
		LIMIT $3 OFFSET $4
	`, string(q.Status), q.OwnerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		var status string
		if err := rows.Scan(&o.ID, &o.OwnerID, &o.OwnerName, &o.OwnerEmail, &status,
			&o.ShippingAddress, &o.Notes, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		o.Status = Status(status)
		out = append(out, o)
	}
	return out, total, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, id, shippingAddress, notes string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET shipping_address = $2, notes = $3, updated_at = NOW() WHERE id = $1
	`, id, shippingAddress, notes)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id string, st Status) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, st)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGRepo) RecomputeTotal(ctx context.Context, orderID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE orders SET total = (
			SELECT COALESCE(SUM(subtotal), 0)
			FROM order_items
			WHERE order_id = $1
		), updated_at = NOW()
		WHERE id = $1
	`, orderID)
	return err
}

// ---- line items ----

func (r *PGRepo) CreateItem(ctx context.Context, it *Item) error {
	it.Subtotal = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
	_, err := r.db.Exec(ctx, `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, it.ID, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal)
	return err
}

func (r *PGRepo) ItemByID(ctx context.Context, id string) (*Item, error) {
	var it Item
	err := r.db.QueryRow(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.code, p.name,
		       oi.quantity, oi.unit_price::text, oi.subtotal::text
		FROM order_items oi JOIN products p ON oi.product_id = p.id
		WHERE oi.id = $1
	`, id).Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductCode, &it.ProductName,
		&it.Quantity, &it.UnitPrice, &it.Subtotal)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *PGRepo) FindItemByProductAndPrice(ctx context.Context, orderID, productID string, unitPrice decimal.Decimal) (*Item, error) {
	var it Item
	err := r.db.QueryRow(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price::text, subtotal::text
		FROM order_items
		WHERE order_id = $1 AND product_id = $2 AND unit_price = $3
	`, orderID, productID, unitPrice).Scan(&it.ID, &it.OrderID, &it.ProductID,
		&it.Quantity, &it.UnitPrice, &it.Subtotal)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *PGRepo) ListItems(ctx context.Context, orderID string) ([]Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.code, p.name,
		       oi.quantity, oi.unit_price::text, oi.subtotal::text
		FROM order_items oi JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = $1
		ORDER BY p.name
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductCode, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PGRepo) UpdateItemQuantity(ctx context.Context, id string, quantity int) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE order_items SET quantity = $2, subtotal = unit_price * $2 WHERE id = $1
	`, id, quantity)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGRepo) DeleteItem(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM order_items WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGRepo) DeleteItemsByOrder(ctx context.Context, orderID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, orderID)
	return err
}
