// Package store defines persistence for products, users (with their embedded cart) and orders.
package store

import (
	"context"
	"errors"

	"github.com/gocql/gocql"

	"boutique/internal/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type ProductStore interface {
	// CreateProduct assigns ID and timestamps before persisting.
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id gocql.UUID) (models.Product, error)
	UpdateProduct(ctx context.Context, p models.Product) error
	// DeleteProduct removes the product only when ownerID matches. It reports whether a row was deleted.
	DeleteProduct(ctx context.Context, id, ownerID gocql.UUID) (bool, error)
	CountProducts(ctx context.Context) (int, error)
	// ListProducts returns products in a stable order starting at offset. limit <= 0 means no limit.
	ListProducts(ctx context.Context, offset, limit int) ([]models.Product, error)
	ListProductsByOwner(ctx context.Context, ownerID gocql.UUID) ([]models.Product, error)
	ImageURLs(ctx context.Context) ([]string, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id gocql.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	// UpdateUser persists the whole aggregate, cart included.
	UpdateUser(ctx context.Context, u models.User) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id gocql.UUID) (models.Order, error)
	// ListOrdersByUser returns the user's orders, newest first.
	ListOrdersByUser(ctx context.Context, userID gocql.UUID) ([]models.Order, error)
	DeleteOrder(ctx context.Context, id, userID gocql.UUID) (bool, error)
}

// Stores bundles the three stores so they can be handed around together.
type Stores struct {
	Products ProductStore
	Users    UserStore
	Orders   OrderStore
}
