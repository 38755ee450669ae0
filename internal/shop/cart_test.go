package shop

import (
	"context"
	"errors"
	"testing"

	"github.com/gocql/gocql"

	"boutique/internal/events"
	"boutique/internal/store"
)

func TestAddSameProductTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "buyer@example.com")
	p := f.product(t, gocql.TimeUUID(), "mug", 8)

	for i := 0; i < 2; i++ {
		if err := f.svc.AddToCart(ctx, u.ID, p.ID); err != nil {
			t.Fatalf("AddToCart: %v", err)
		}
	}

	lines, err := f.svc.Cart(ctx, u.ID)
	if err != nil {
		t.Fatalf("Cart: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", lines)
	}
	if len(f.events.carts) != 2 || f.events.carts[0] != events.CartUpdated {
		t.Fatalf("expected two update notifications, got %v", f.events.carts)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "buyer@example.com")
	err := f.svc.AddToCart(context.Background(), u.ID, gocql.TimeUUID())
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveFromCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "buyer@example.com")
	a := f.product(t, gocql.TimeUUID(), "a", 1)
	b := f.product(t, gocql.TimeUUID(), "b", 1)

	_ = f.svc.AddToCart(ctx, u.ID, a.ID)
	_ = f.svc.AddToCart(ctx, u.ID, a.ID)
	_ = f.svc.AddToCart(ctx, u.ID, b.ID)

	if err := f.svc.RemoveFromCart(ctx, u.ID, a.ID); err != nil {
		t.Fatalf("RemoveFromCart: %v", err)
	}
	lines, _ := f.svc.Cart(ctx, u.ID)
	if len(lines) != 1 || lines[0].Product.ID != b.ID {
		t.Fatalf("expected only b left, got %+v", lines)
	}

	before := len(f.events.carts)
	if err := f.svc.RemoveFromCart(ctx, u.ID, gocql.TimeUUID()); err != nil {
		t.Fatalf("removing a missing product should be a no-op, got %v", err)
	}
	if len(f.events.carts) != before {
		t.Fatal("no-op removal should not notify")
	}
}

func TestCartSkipsDeletedProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "buyer@example.com")
	owner := gocql.TimeUUID()
	gone := f.product(t, owner, "gone", 3)
	kept := f.product(t, owner, "kept", 4)

	_ = f.svc.AddToCart(ctx, u.ID, gone.ID)
	_ = f.svc.AddToCart(ctx, u.ID, kept.ID)
	if _, err := f.mem.DeleteProduct(ctx, gone.ID, owner); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}

	lines, err := f.svc.Cart(ctx, u.ID)
	if err != nil {
		t.Fatalf("Cart: %v", err)
	}
	if len(lines) != 1 || lines[0].Product.ID != kept.ID {
		t.Fatalf("expected only the kept product, got %+v", lines)
	}
}
