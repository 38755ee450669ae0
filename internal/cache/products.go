// Package cache puts Redis in front of the stores: a read-through product cache and
// request counters for rate limiting.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"

	"boutique/internal/models"
	"boutique/internal/store"
)

const ProductCacheTTL = 10 * time.Minute

// Products caches single-product reads. Writes go to the wrapped store first, then drop the key.
type Products struct {
	store.ProductStore
	rdb *redis.Client
	ttl time.Duration
}

func NewProducts(next store.ProductStore, rdb *redis.Client) *Products {
	return &Products{ProductStore: next, rdb: rdb, ttl: ProductCacheTTL}
}

func productKey(id gocql.UUID) string {
	return "product:" + id.String()
}

func (c *Products) GetProduct(ctx context.Context, id gocql.UUID) (models.Product, error) {
	key := productKey(id)
	if data, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var p models.Product
		if json.Unmarshal(data, &p) == nil {
			return p, nil
		}
	} else if err != redis.Nil {
		log.Printf("⚠️ Redis read failed for %s: %v", key, err)
	}

	p, err := c.ProductStore.GetProduct(ctx, id)
	if err != nil {
		return p, err
	}

	if data, err := json.Marshal(p); err == nil {
		c.rdb.Set(ctx, key, data, c.ttl)
	}
	return p, nil
}

func (c *Products) UpdateProduct(ctx context.Context, p models.Product) error {
	err := c.ProductStore.UpdateProduct(ctx, p)
	c.invalidate(ctx, p.ID)
	return err
}

func (c *Products) DeleteProduct(ctx context.Context, id, ownerID gocql.UUID) (bool, error) {
	deleted, err := c.ProductStore.DeleteProduct(ctx, id, ownerID)
	if deleted {
		c.invalidate(ctx, id)
	}
	return deleted, err
}

func (c *Products) invalidate(ctx context.Context, id gocql.UUID) {
	if err := c.rdb.Del(ctx, productKey(id)).Err(); err != nil {
		log.Printf("⚠️ Redis invalidation failed for product %s: %v", id, err)
	}
}
