package shop

import (
	"context"
	"fmt"
	"log"

	"github.com/gocql/gocql"

	"boutique/internal/authz"
	"boutique/internal/events"
	"boutique/internal/models"
)

// Checkout turns the cart into an order. The cart is emptied only once the order is saved;
// a failure while emptying it leaves both the order and the old cart in place.
func (s *Service) Checkout(ctx context.Context, userID gocql.UUID) (models.Order, error) {
	lines, err := s.Cart(ctx, userID)
	if err != nil {
		return models.Order{}, err
	}
	if len(lines) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	order := models.Order{
		UserID:   userID,
		Products: make([]models.OrderItem, 0, len(lines)),
	}
	for _, l := range lines {
		order.Products = append(order.Products, models.OrderItem{
			Quantity: l.Quantity,
			Product:  l.Product.Snapshot(),
		})
	}

	if err := s.orders.CreateOrder(ctx, &order); err != nil {
		return models.Order{}, fmt.Errorf("create order: %w", err)
	}
	if err := s.ClearCart(ctx, userID); err != nil {
		return order, err
	}

	ev := events.OrderCreated{
		OrderID:   order.ID,
		UserID:    userID,
		Items:     len(order.Products),
		Total:     order.Total(),
		CreatedAt: order.CreatedAt,
	}
	if err := s.events.OrderCreated(ctx, ev); err != nil {
		log.Printf("⚠️ order-created event for %s not published: %v", order.ID, err)
	}
	log.Printf("✅ Order %s created for user %s", order.ID, userID)
	return order, nil
}

func (s *Service) Orders(ctx context.Context, userID gocql.UUID) ([]models.Order, error) {
	orders, err := s.orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// Invoice loads an order for its owner only.
func (s *Service) Invoice(ctx context.Context, userID, orderID gocql.UUID) (models.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if !authz.Allow(userID, order) {
		return models.Order{}, ErrForbidden
	}
	return order, nil
}

// DeleteOrder removes an order if userID owns it. Someone else's order is left alone.
func (s *Service) DeleteOrder(ctx context.Context, userID, orderID gocql.UUID) error {
	if _, err := s.orders.GetOrder(ctx, orderID); err != nil {
		return err
	}
	if _, err := s.orders.DeleteOrder(ctx, orderID, userID); err != nil {
		return fmt.Errorf("delete order %s: %w", orderID, err)
	}
	return nil
}
