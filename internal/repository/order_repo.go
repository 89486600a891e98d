package repository

import (
	"context"
	"fmt"

	"pizza_service/internal/model"
)

// OrderRepository defines operations for order data. Orders are
// insert-only; there is no update or delete.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByDiner(ctx context.Context, dinerID, page, pageSize int) ([]model.Order, error)
	StoreExists(ctx context.Context, franchiseID, storeID int) (bool, error)
}

type orderRepository struct {
	db DB
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order and its items in one transaction, filling
// in the generated ids.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	sql := `INSERT INTO orders (diner_id, franchise_id, store_id, date) VALUES ($1, $2, $3, $4) RETURNING id`
	err = tx.QueryRow(ctx, sql, order.DinerID, order.FranchiseID, order.StoreID, order.Date).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		err = tx.QueryRow(ctx,
			`INSERT INTO order_items (order_id, menu_id, description, price) VALUES ($1, $2, $3, $4) RETURNING id`,
			order.ID, item.MenuID, item.Description, item.Price).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// FindByDiner retrieves one page of the diner's orders in insertion
// order (increasing id).
func (r *orderRepository) FindByDiner(ctx context.Context, dinerID, page, pageSize int) ([]model.Order, error) {
	sql := `SELECT id, diner_id, franchise_id, store_id, date FROM orders
            WHERE diner_id = $1 ORDER BY id LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, sql, dinerID, pageSize, page*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.DinerID, &o.FranchiseID, &o.StoreID, &o.Date); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for i := range orders {
		if orders[i].Items, err = r.loadItems(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// StoreExists reports whether the store exists under the franchise
func (r *orderRepository) StoreExists(ctx context.Context, franchiseID, storeID int) (bool, error) {
	var exists bool
	sql := `SELECT EXISTS(SELECT 1 FROM stores WHERE id = $1 AND franchise_id = $2)`
	if err := r.db.QueryRow(ctx, sql, storeID, franchiseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check store: %w", err)
	}
	return exists, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID int) ([]model.OrderItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, menu_id, description, price FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := []model.OrderItem{}
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.MenuID, &item.Description, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return items, nil
}
