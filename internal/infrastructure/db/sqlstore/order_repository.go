package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mobileshop/shop-api/internal/core/domain"
	"github.com/mobileshop/shop-api/internal/core/ports"
)

const orderColumns = "id, user_id, total_amount, created_at"

type OrderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db}
}

var _ ports.OrderRepository = (*OrderRepository)(nil)

func (r *OrderRepository) List(ctx context.Context, filter ports.OwnerFilter) ([]*domain.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders"
	var args []any
	if filter.UserID != 0 {
		query += " WHERE user_id = ?"
		args = append(args, filter.UserID)
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, r.db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind("SELECT "+orderColumns+" FROM orders WHERE id = ?"), id)
	return scanOrder(row)
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	created := *order
	err := r.db.QueryRowContext(ctx,
		r.db.rebind("INSERT INTO orders (user_id, total_amount, created_at) VALUES (?, ?, ?) RETURNING id"),
		order.UserID, amountValue(order), order.CreatedAt,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return &created, nil
}

func (r *OrderRepository) Update(ctx context.Context, id int64, fn ports.OrderMutation) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, r.db.rebind("SELECT "+orderColumns+" FROM orders WHERE id = ?"+r.db.forUpdate()), id)
		current, err := scanOrder(row)
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			r.db.rebind("UPDATE orders SET user_id = ?, total_amount = ?, created_at = ? WHERE id = ?"),
			next.UserID, amountValue(next), next.CreatedAt, id,
		)
		if err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		return nil
	})
}

func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.rebind("DELETE FROM orders WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return requireAffected(res, domain.ErrOrderNotFound)
}

// amountValue renders the total with exactly two decimals for both NUMERIC
// and TEXT columns.
func amountValue(o *domain.Order) string {
	return o.TotalAmount.StringFixed(domain.AmountScale)
}

func scanOrder(row scanner) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	o.CreatedAt = o.CreatedAt.UTC()
	return &o, nil
}
