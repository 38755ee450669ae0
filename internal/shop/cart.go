package shop

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gocql/gocql"

	"boutique/internal/events"
	"boutique/internal/models"
	"boutique/internal/store"
)

// Cart returns the user's cart with products resolved. Entries whose product has since been
// deleted are left out.
func (s *Service) Cart(ctx context.Context, userID gocql.UUID) ([]models.CartLine, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, user.Cart)
}

func (s *Service) resolve(ctx context.Context, items []models.CartItem) ([]models.CartLine, error) {
	lines := make([]models.CartLine, 0, len(items))
	for _, it := range items {
		p, err := s.products.GetProduct(ctx, it.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve cart product %s: %w", it.ProductID, err)
		}
		lines = append(lines, models.CartLine{Product: p, Quantity: it.Quantity})
	}
	return lines, nil
}

// AddToCart puts one more unit of productID in the cart.
func (s *Service) AddToCart(ctx context.Context, userID, productID gocql.UUID) error {
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return err
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	found := false
	for i := range user.Cart {
		if user.Cart[i].ProductID == productID {
			user.Cart[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		user.Cart = append(user.Cart, models.CartItem{ProductID: productID, Quantity: 1})
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	s.notifyCart(ctx, userID, events.CartUpdated)
	return nil
}

// RemoveFromCart drops the whole entry for productID. Missing entries are ignored.
func (s *Service) RemoveFromCart(ctx context.Context, userID, productID gocql.UUID) error {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	kept := make([]models.CartItem, 0, len(user.Cart))
	for _, it := range user.Cart {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(user.Cart) {
		return nil
	}
	user.Cart = kept

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	s.notifyCart(ctx, userID, events.CartUpdated)
	return nil
}

func (s *Service) ClearCart(ctx context.Context, userID gocql.UUID) error {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	user.Cart = []models.CartItem{}
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.notifyCart(ctx, userID, events.CartCleared)
	return nil
}

func (s *Service) notifyCart(ctx context.Context, userID gocql.UUID, change string) {
	if err := s.carts.CartChanged(ctx, userID, change); err != nil {
		log.Printf("⚠️ cart notification for %s failed: %v", userID, err)
	}
}
