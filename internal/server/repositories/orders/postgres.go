// Package orders provides a PostgreSQL-backed repository for orders and
// their line items.
package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cartsync/internal/common"
	"github.com/dmitrijs2005/cartsync/internal/dbx"
	"github.com/dmitrijs2005/cartsync/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx). Create must run inside a transaction so the order row
// and its items land together.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the order row and its line items.
func (r *PostgresRepository) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, user_id, status, shipping_address, payment_method)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query,
		order.ID, order.UserID, order.Status, order.ShippingAddress, order.PaymentMethod); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, name, quantity)
		VALUES ($1, $2, $3, $4)
	`
	for _, item := range order.Items {
		if _, err := r.db.ExecContext(ctx, itemQuery,
			order.ID, item.ProductID, item.Name, item.Quantity); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

// Get returns an order with its items, or common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, orderID string) (*models.Order, error) {
	query := `
		SELECT id, user_id, status, shipping_address, payment_method, created_at
		FROM orders
		WHERE id = $1
	`
	order := &models.Order{}
	err := r.db.QueryRowContext(ctx, query, orderID).
		Scan(&order.ID, &order.UserID, &order.Status, &order.ShippingAddress, &order.PaymentMethod, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	items, err := r.listItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// ListByUser returns the user's orders, newest first, items included.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	query := `
		SELECT id, user_id, status, shipping_address, payment_method, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order := models.Order{}
		if err := rows.Scan(&order.ID, &order.UserID, &order.Status,
			&order.ShippingAddress, &order.PaymentMethod, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	for i := range orders {
		items, err := r.listItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// UpdateStatus overwrites the order's status. A missing order is reported as
// common.ErrorNotFound.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, orderID, status string) error {
	query := `
		UPDATE orders SET status = $2
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, orderID, status)
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

// DeleteItem removes one line item. A missing line is reported as
// common.ErrorNotFound.
func (r *PostgresRepository) DeleteItem(ctx context.Context, orderID, productID string) error {
	query := `
		DELETE FROM order_items
		WHERE order_id = $1 AND product_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, orderID, productID)
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

func (r *PostgresRepository) listItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	query := `
		SELECT product_id, name, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_id
	`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		item := models.OrderItem{OrderID: orderID}
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
