// Package cartitems provides a PostgreSQL-backed repository for server-side
// carts, one row per (user, product) pair.
package cartitems

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cartsync/internal/common"
	"github.com/dmitrijs2005/cartsync/internal/dbx"
	"github.com/dmitrijs2005/cartsync/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	query := `
		SELECT product_id, name, quantity
		FROM cart_items
		WHERE user_id = $1
		ORDER BY product_id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		item := models.CartItem{UserID: userID}
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Quantity); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

// AddQuantity upserts a line: an existing row accumulates the quantity, a new
// row is created otherwise.
func (r *PostgresRepository) AddQuantity(ctx context.Context, item models.CartItem) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, name, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + excluded.quantity, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, item.UserID, item.ProductID, item.Name, item.Quantity); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// SetQuantity overwrites the quantity of an existing line. A missing line is
// reported as common.ErrorNotFound.
func (r *PostgresRepository) SetQuantity(ctx context.Context, userID, productID string, qty int) error {
	query := `
		UPDATE cart_items SET quantity = $3, updated_at = now()
		WHERE user_id = $1 AND product_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, userID, productID, qty)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Delete removes a line. A missing line is reported as common.ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, userID, productID string) error {
	query := `
		DELETE FROM cart_items
		WHERE user_id = $1 AND product_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, userID, productID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Clear removes every line of the user's cart.
func (r *PostgresRepository) Clear(ctx context.Context, userID string) error {
	query := `
		DELETE FROM cart_items
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
