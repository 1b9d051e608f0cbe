package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"barbot/internal/domain"
)

// Orders persists resupply orders in Postgres.
type Orders struct {
	db *sqlx.DB
}

// NewOrders builds an order repository on top of the given connection pool.
func NewOrders(db *sqlx.DB) *Orders {
	return &Orders{db: db}
}

const insertOrderQuery = `
INSERT INTO orders (username, role, drink, quantity, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

// Insert stores a new order and fills in its generated id.
func (r *Orders) Insert(ctx context.Context, o *domain.Order) error {
	err := r.db.GetContext(ctx, &o.ID, insertOrderQuery,
		o.Username, o.Role, o.Drink, o.Quantity, o.Status)
	if err != nil {
		return fmt.Errorf("orders: insert for %q: %w", o.Username, err)
	}
	return nil
}

// Get returns a single order by id, or domain.ErrOrderNotFound.
func (r *Orders) Get(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.GetContext(ctx, &o,
		`SELECT id, username, role, drink, quantity, status FROM orders WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("orders: get %d: %w", id, err)
	}
	return &o, nil
}

// Dispatch flips an open order to dispatched. The update is conditional on the
// current status, so two couriers racing on the same order resolve to exactly
// one winner. Returns domain.ErrOrderNotFound or domain.ErrAlreadyDispatched
// when the order cannot be dispatched.
func (r *Orders) Dispatch(ctx context.Context, id int64) (*domain.Order, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`,
		domain.StatusDispatched, id, domain.StatusOpen)
	if err != nil {
		return nil, fmt.Errorf("orders: dispatch %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("orders: dispatch %d: %w", id, err)
	}
	if n == 0 {
		o, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if o.Status == domain.StatusDispatched {
			return nil, domain.ErrAlreadyDispatched
		}
		return nil, domain.ErrOrderNotFound
	}
	return r.Get(ctx, id)
}

// ListOpen returns all open orders, oldest first.
func (r *Orders) ListOpen(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.SelectContext(ctx, &orders,
		`SELECT id, username, role, drink, quantity, status FROM orders WHERE status = $1 ORDER BY id`,
		domain.StatusOpen)
	if err != nil {
		return nil, fmt.Errorf("orders: list open: %w", err)
	}
	return orders, nil
}

// ListOpenForBar returns the open orders placed by a single bar, oldest first.
func (r *Orders) ListOpenForBar(ctx context.Context, username string) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.SelectContext(ctx, &orders,
		`SELECT id, username, role, drink, quantity, status FROM orders WHERE status = $1 AND username = $2 ORDER BY id`,
		domain.StatusOpen, username)
	if err != nil {
		return nil, fmt.Errorf("orders: list open for %q: %w", username, err)
	}
	return orders, nil
}
