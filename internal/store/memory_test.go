package store

import (
	"context"
	"errors"
	"testing"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"

	"boutique/internal/models"
)

func TestMemoryListProductsWindow(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for i := 0; i < 8; i++ {
		if err := m.CreateProduct(ctx, &models.Product{Title: "p", Price: decimal.NewFromInt(int64(i + 1))}); err != nil {
			t.Fatalf("CreateProduct returned error: %v", err)
		}
	}

	page, err := m.ListProducts(ctx, 6, 6)
	if err != nil {
		t.Fatalf("ListProducts returned error: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 products, got %d", len(page))
	}
	if !page[0].Price.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("expected insertion order, got price %s", page[0].Price)
	}

	empty, err := m.ListProducts(ctx, 40, 6)
	if err != nil {
		t.Fatalf("ListProducts past the end returned error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty slice, got %d", len(empty))
	}

	all, _ := m.ListProducts(ctx, 0, 0)
	if len(all) != 8 {
		t.Fatalf("limit 0 should return everything, got %d", len(all))
	}
}

func TestMemoryDeleteProductScopedByOwner(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	owner, stranger := gocql.TimeUUID(), gocql.TimeUUID()
	p := models.Product{Title: "lamp", UserID: owner}
	_ = m.CreateProduct(ctx, &p)

	deleted, err := m.DeleteProduct(ctx, p.ID, stranger)
	if err != nil || deleted {
		t.Fatalf("stranger delete: deleted=%v err=%v", deleted, err)
	}
	if _, err := m.GetProduct(ctx, p.ID); err != nil {
		t.Fatalf("product should survive a stranger delete: %v", err)
	}

	deleted, err = m.DeleteProduct(ctx, p.ID, owner)
	if err != nil || !deleted {
		t.Fatalf("owner delete: deleted=%v err=%v", deleted, err)
	}
	if _, err := m.GetProduct(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.CreateUser(ctx, &models.User{Email: "a@example.com"}); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if err := m.CreateUser(ctx, &models.User{Email: "A@example.com"}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestMemoryUserCartIsCopied(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	u := models.User{Email: "c@example.com"}
	_ = m.CreateUser(ctx, &u)

	u.Cart = append(u.Cart, models.CartItem{ProductID: gocql.TimeUUID(), Quantity: 1})
	stored, _ := m.GetUser(ctx, u.ID)
	if len(stored.Cart) != 0 {
		t.Fatalf("caller mutation leaked into the store: %v", stored.Cart)
	}

	if err := m.UpdateUser(ctx, u); err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	stored, _ = m.GetUser(ctx, u.ID)
	if len(stored.Cart) != 1 {
		t.Fatalf("expected persisted cart of 1, got %d", len(stored.Cart))
	}
}

func TestMemoryOrdersNewestFirstAndScopedDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	owner := gocql.TimeUUID()
	first := models.Order{UserID: owner}
	second := models.Order{UserID: owner}
	_ = m.CreateOrder(ctx, &first)
	_ = m.CreateOrder(ctx, &second)
	_ = m.CreateOrder(ctx, &models.Order{UserID: gocql.TimeUUID()})

	orders, err := m.ListOrdersByUser(ctx, owner)
	if err != nil {
		t.Fatalf("ListOrdersByUser returned error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID != second.ID {
		t.Fatal("expected newest order first")
	}

	if deleted, _ := m.DeleteOrder(ctx, first.ID, gocql.TimeUUID()); deleted {
		t.Fatal("stranger should not delete the order")
	}
	if deleted, _ := m.DeleteOrder(ctx, first.ID, owner); !deleted {
		t.Fatal("owner should delete the order")
	}
}
