package shop

import (
	"context"
	"errors"
	"testing"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"

	"boutique/internal/events"
	"boutique/internal/models"
	"boutique/internal/store"
)

func TestCheckoutSnapshotsAndClearsCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "buyer@example.com")
	owner := gocql.TimeUUID()
	a := f.product(t, owner, "A", 10)
	b := f.product(t, owner, "B", 5)

	_ = f.svc.AddToCart(ctx, u.ID, a.ID)
	_ = f.svc.AddToCart(ctx, u.ID, a.ID)
	_ = f.svc.AddToCart(ctx, u.ID, b.ID)

	order, err := f.svc.Checkout(ctx, u.ID)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if !order.Total().Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected total 25, got %s", order.Total())
	}

	lines, _ := f.svc.Cart(ctx, u.ID)
	if len(lines) != 0 {
		t.Fatalf("expected empty cart after checkout, got %+v", lines)
	}
	if last := f.events.carts[len(f.events.carts)-1]; last != events.CartCleared {
		t.Fatalf("expected a cleared notification, got %q", last)
	}
	if len(f.events.orders) != 1 || f.events.orders[0].OrderID != order.ID {
		t.Fatalf("expected one order-created event, got %+v", f.events.orders)
	}

	// editing the product afterwards must not reach the order
	a.Title = "A renamed"
	a.Price = decimal.NewFromInt(99)
	if err := f.mem.UpdateProduct(ctx, a); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	saved, err := f.svc.Invoice(ctx, u.ID, order.ID)
	if err != nil {
		t.Fatalf("Invoice: %v", err)
	}
	if saved.Products[0].Product.Title != "A" || !saved.Total().Equal(decimal.NewFromInt(25)) {
		t.Fatalf("order snapshot changed: %+v", saved.Products[0])
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "buyer@example.com")
	if _, err := f.svc.Checkout(context.Background(), u.ID); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

type failingOrders struct {
	store.OrderStore
}

func (failingOrders) CreateOrder(context.Context, *models.Order) error {
	return errors.New("disk full")
}

func TestCheckoutKeepsCartWhenOrderFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.mem.Stores()
	st.Orders = failingOrders{OrderStore: st.Orders}
	svc := New(st, f.disk, nil, nil, nil)

	u := f.user(t, "buyer@example.com")
	p := f.product(t, gocql.TimeUUID(), "mug", 8)
	_ = svc.AddToCart(ctx, u.ID, p.ID)

	if _, err := svc.Checkout(ctx, u.ID); err == nil {
		t.Fatal("expected checkout to fail")
	}
	lines, _ := svc.Cart(ctx, u.ID)
	if len(lines) != 1 {
		t.Fatalf("cart should be untouched, got %+v", lines)
	}
}

func TestInvoiceAndDeleteOrderOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	buyer := f.user(t, "buyer@example.com")
	other := f.user(t, "other@example.com")
	p := f.product(t, gocql.TimeUUID(), "mug", 8)

	_ = f.svc.AddToCart(ctx, buyer.ID, p.ID)
	order, err := f.svc.Checkout(ctx, buyer.ID)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if _, err := f.svc.Invoice(ctx, other.ID, order.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.Invoice(ctx, buyer.ID, gocql.TimeUUID()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := f.svc.DeleteOrder(ctx, other.ID, order.ID); err != nil {
		t.Fatalf("DeleteOrder by non-owner: %v", err)
	}
	orders, _ := f.svc.Orders(ctx, buyer.ID)
	if len(orders) != 1 {
		t.Fatalf("non-owner delete should be a no-op, got %d orders", len(orders))
	}

	if err := f.svc.DeleteOrder(ctx, buyer.ID, order.ID); err != nil {
		t.Fatalf("DeleteOrder: %v", err)
	}
	orders, _ = f.svc.Orders(ctx, buyer.ID)
	if len(orders) != 0 {
		t.Fatalf("expected no orders, got %d", len(orders))
	}
	if err := f.svc.DeleteOrder(ctx, buyer.ID, order.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a deleted order, got %v", err)
	}
}
