// Package scylla implements the store interfaces on ScyllaDB (Cassandra protocol) via gocql.
package scylla

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"
	"gopkg.in/inf.v0"

	"boutique/internal/config"
	"boutique/internal/database"
	"boutique/internal/store"
)

type Store struct {
	products *gocql.Session
	users    *gocql.Session
	orders   *gocql.Session
}

// New opens (or reuses) the sessions for the configured keyspaces.
func New(sm *database.ScyllaManager, ks config.Keyspaces) (*Store, error) {
	products, err := sm.Session(ks.Products)
	if err != nil {
		return nil, err
	}
	users, err := sm.Session(ks.Users)
	if err != nil {
		return nil, err
	}
	orders, err := sm.Session(ks.Orders)
	if err != nil {
		return nil, err
	}
	return &Store{products: products, users: users, orders: orders}, nil
}

func (s *Store) Stores() store.Stores {
	return store.Stores{Products: s, Users: s, Orders: s}
}

var schema = []struct {
	keyspace func(*Store) *gocql.Session
	stmt     string
}{
	{func(s *Store) *gocql.Session { return s.products }, `CREATE TABLE IF NOT EXISTS products (
		product_id uuid PRIMARY KEY,
		title text,
		price decimal,
		description text,
		image_url text,
		user_id uuid,
		created_at timestamp,
		updated_at timestamp)`},
	{func(s *Store) *gocql.Session { return s.products }, `CREATE TABLE IF NOT EXISTS products_by_owner (
		user_id uuid,
		product_id uuid,
		PRIMARY KEY (user_id, product_id))`},
	{func(s *Store) *gocql.Session { return s.users }, `CREATE TABLE IF NOT EXISTS users (
		user_id uuid PRIMARY KEY,
		email text,
		password text,
		provider text,
		provider_id text,
		cart text,
		created_at timestamp)`},
	{func(s *Store) *gocql.Session { return s.users }, `CREATE TABLE IF NOT EXISTS users_by_email (
		email text PRIMARY KEY,
		user_id uuid)`},
	{func(s *Store) *gocql.Session { return s.orders }, `CREATE TABLE IF NOT EXISTS orders (
		order_id timeuuid PRIMARY KEY,
		user_id uuid,
		items text,
		created_at timestamp)`},
	{func(s *Store) *gocql.Session { return s.orders }, `CREATE TABLE IF NOT EXISTS orders_by_user (
		user_id uuid,
		order_id timeuuid,
		PRIMARY KEY (user_id, order_id))
		WITH CLUSTERING ORDER BY (order_id DESC)`},
}

// EnsureSchema creates the tables when they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, t := range schema {
		if err := t.keyspace(s).Query(t.stmt).WithContext(ctx).Exec(); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gocql.ErrNotFound) {
		return store.ErrNotFound
	}
	return err
}

func toInf(d decimal.Decimal) *inf.Dec {
	return inf.NewDecBig(d.Coefficient(), inf.Scale(-d.Exponent()))
}

func fromInf(d *inf.Dec) decimal.Decimal {
	if d == nil || d.UnscaledBig() == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(d.UnscaledBig(), -int32(d.Scale()))
}
