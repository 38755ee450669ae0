package scylla

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"boutique/internal/models"
	"boutique/internal/store"
)

// CreateOrder writes the order and its per-user index in one logged batch.
// Line items are stored as a JSON document so the product snapshot stays frozen.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	o.ID = gocql.TimeUUID()
	o.CreatedAt = time.Now().UTC()

	items, err := json.Marshal(o.Products)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}

	batch := s.orders.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`INSERT INTO orders (order_id, user_id, items, created_at) VALUES (?, ?, ?, ?)`,
		o.ID, o.UserID, string(items), o.CreatedAt)
	batch.Query(`INSERT INTO orders_by_user (user_id, order_id) VALUES (?, ?)`, o.UserID, o.ID)
	if err := s.orders.ExecuteBatch(batch); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// isOrderID reports whether id can be bound to the timeuuid order_id column.
// Anything else cannot name an order, and Scylla rejects it as an invalid request.
func isOrderID(id gocql.UUID) bool {
	return id.Version() == 1
}

func (s *Store) GetOrder(ctx context.Context, id gocql.UUID) (models.Order, error) {
	if !isOrderID(id) {
		return models.Order{}, store.ErrNotFound
	}
	var (
		o     models.Order
		items string
	)
	err := s.orders.Query(`SELECT order_id, user_id, items, created_at FROM orders WHERE order_id = ?`, id).
		WithContext(ctx).Scan(&o.ID, &o.UserID, &items, &o.CreatedAt)
	if err != nil {
		return models.Order{}, notFound(err)
	}

	o.Products = []models.OrderItem{}
	if items != "" {
		if err := json.Unmarshal([]byte(items), &o.Products); err != nil {
			return models.Order{}, fmt.Errorf("decode items of order %s: %w", id, err)
		}
	}
	return o, nil
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID gocql.UUID) ([]models.Order, error) {
	iter := s.orders.Query(`SELECT order_id FROM orders_by_user WHERE user_id = ?`, userID).WithContext(ctx).Iter()

	var ids []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		o, err := s.GetOrder(ctx, id)
		if err == store.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *Store) DeleteOrder(ctx context.Context, id, userID gocql.UUID) (bool, error) {
	if !isOrderID(id) {
		return false, nil
	}
	applied, err := s.orders.Query(`DELETE FROM orders WHERE order_id = ? IF user_id = ?`, id, userID).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return false, fmt.Errorf("delete order: %w", err)
	}
	if !applied {
		return false, nil
	}

	if err := s.orders.Query(`DELETE FROM orders_by_user WHERE user_id = ? AND order_id = ?`, userID, id).
		WithContext(ctx).Exec(); err != nil {
		return true, fmt.Errorf("unindex order: %w", err)
	}
	return true, nil
}
