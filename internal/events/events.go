// Package events announces cart and order changes to whoever listens: websocket clients
// over Redis pub/sub and downstream services over Kafka.
package events

import (
	"context"
	"time"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"
)

const (
	TopicOrderCreated = "order-created"

	CartUpdated = "updated"
	CartCleared = "cleared"
)

// OrderCreated is the payload published once an order is saved and the cart emptied.
type OrderCreated struct {
	OrderID   gocql.UUID      `json:"orderId"`
	UserID    gocql.UUID      `json:"userId"`
	Items     int             `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Publisher delivers domain events. Implementations must be safe for concurrent use.
type Publisher interface {
	OrderCreated(ctx context.Context, e OrderCreated) error
}

// CartNotifier tells listeners a user's cart changed.
type CartNotifier interface {
	CartChanged(ctx context.Context, userID gocql.UUID, change string) error
}

// Nop drops everything. Used when Kafka or Redis is not configured.
type Nop struct{}

func (Nop) OrderCreated(context.Context, OrderCreated) error { return nil }

func (Nop) CartChanged(context.Context, gocql.UUID, string) error { return nil }
