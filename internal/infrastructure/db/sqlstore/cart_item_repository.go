package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mobileshop/shop-api/internal/core/domain"
	"github.com/mobileshop/shop-api/internal/core/ports"
)

const cartItemColumns = "id, user_id, product_id, quantity"

type CartItemRepository struct {
	db *DB
}

func NewCartItemRepository(db *DB) *CartItemRepository {
	return &CartItemRepository{db: db}
}

var _ ports.CartItemRepository = (*CartItemRepository)(nil)

func (r *CartItemRepository) List(ctx context.Context, filter ports.OwnerFilter) ([]*domain.CartItem, error) {
	query := "SELECT " + cartItemColumns + " FROM cart_items"
	var args []any
	if filter.UserID != 0 {
		query += " WHERE user_id = ?"
		args = append(args, filter.UserID)
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, r.db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.CartItem, 0)
	for rows.Next() {
		it, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	return items, nil
}

func (r *CartItemRepository) FindByID(ctx context.Context, id int64) (*domain.CartItem, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind("SELECT "+cartItemColumns+" FROM cart_items WHERE id = ?"), id)
	return scanCartItem(row)
}

func (r *CartItemRepository) Create(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	created := *item
	err := r.db.QueryRowContext(ctx,
		r.db.rebind("INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?, ?, ?) RETURNING id"),
		item.UserID, item.ProductID, item.Quantity,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("insert cart item: %w", err)
	}
	return &created, nil
}

func (r *CartItemRepository) Update(ctx context.Context, id int64, fn ports.CartItemMutation) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, r.db.rebind("SELECT "+cartItemColumns+" FROM cart_items WHERE id = ?"+r.db.forUpdate()), id)
		current, err := scanCartItem(row)
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			r.db.rebind("UPDATE cart_items SET user_id = ?, product_id = ?, quantity = ? WHERE id = ?"),
			next.UserID, next.ProductID, next.Quantity, id,
		)
		if err != nil {
			return fmt.Errorf("update cart item: %w", err)
		}
		return nil
	})
}

func (r *CartItemRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.rebind("DELETE FROM cart_items WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return requireAffected(res, domain.ErrCartItemNotFound)
}

func scanCartItem(row scanner) (*domain.CartItem, error) {
	var it domain.CartItem
	if err := row.Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("scan cart item: %w", err)
	}
	return &it, nil
}
