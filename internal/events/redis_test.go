package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"
)

func TestRedisCartDeliversToSubscriber(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	carts := NewRedisCart(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	user := gocql.TimeUUID()
	changes := carts.Subscribe(ctx, user)

	deadline := time.Now().Add(5 * time.Second)
	for mr.PubSubNumSub(CartChannel(user))[CartChannel(user)] == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := carts.CartChanged(ctx, gocql.TimeUUID(), CartUpdated); err != nil {
		t.Fatalf("CartChanged other user: %v", err)
	}
	if err := carts.CartChanged(ctx, user, CartCleared); err != nil {
		t.Fatalf("CartChanged: %v", err)
	}

	select {
	case got := <-changes:
		if got != CartCleared {
			t.Fatalf("expected %q, got %q", CartCleared, got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change delivered")
	}

	cancel()
	select {
	case _, ok := <-changes:
		if ok {
			t.Fatal("expected channel to close after cancel")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
