package scylla

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"gopkg.in/inf.v0"

	"boutique/internal/models"
	"boutique/internal/store"
)

const productColumns = `product_id, title, price, description, image_url, user_id, created_at, updated_at`

type productRow struct {
	p     models.Product
	price inf.Dec
}

func (r *productRow) dest() []interface{} {
	return []interface{}{&r.p.ID, &r.p.Title, &r.price, &r.p.Description, &r.p.ImageURL, &r.p.UserID, &r.p.CreatedAt, &r.p.UpdatedAt}
}

func (r *productRow) product() models.Product {
	p := r.p
	p.Price = fromInf(&r.price)
	return p
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	p.ID = gocql.TimeUUID()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt

	err := s.products.Query(`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, toInf(p.Price), p.Description, p.ImageURL, p.UserID, p.CreatedAt, p.UpdatedAt).
		WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	if err := s.products.Query(`INSERT INTO products_by_owner (user_id, product_id) VALUES (?, ?)`, p.UserID, p.ID).
		WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("index product by owner: %w", err)
	}
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id gocql.UUID) (models.Product, error) {
	var row productRow
	err := s.products.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, id).
		WithContext(ctx).Scan(row.dest()...)
	if err != nil {
		return models.Product{}, notFound(err)
	}
	return row.product(), nil
}

func (s *Store) UpdateProduct(ctx context.Context, p models.Product) error {
	applied, err := s.products.Query(`UPDATE products SET title = ?, price = ?, description = ?, image_url = ?, updated_at = ?
		WHERE product_id = ? IF EXISTS`,
		p.Title, toInf(p.Price), p.Description, p.ImageURL, time.Now().UTC(), p.ID).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if !applied {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id, ownerID gocql.UUID) (bool, error) {
	applied, err := s.products.Query(`DELETE FROM products WHERE product_id = ? IF user_id = ?`, id, ownerID).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	if !applied {
		return false, nil
	}

	if err := s.products.Query(`DELETE FROM products_by_owner WHERE user_id = ? AND product_id = ?`, ownerID, id).
		WithContext(ctx).Exec(); err != nil {
		return true, fmt.Errorf("unindex product by owner: %w", err)
	}
	return true, nil
}

func (s *Store) CountProducts(ctx context.Context) (int, error) {
	var count int64
	if err := s.products.Query(`SELECT COUNT(*) FROM products`).WithContext(ctx).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return int(count), nil
}

// ListProducts walks the table in token order, which is stable while the data is unchanged.
// Scylla has no OFFSET, so the first offset rows are skipped client side.
func (s *Store) ListProducts(ctx context.Context, offset, limit int) ([]models.Product, error) {
	iter := s.products.Query(`SELECT ` + productColumns + ` FROM products`).
		WithContext(ctx).PageSize(100).Iter()

	products := []models.Product{}
	var row productRow
	for seen := 0; iter.Scan(row.dest()...); seen++ {
		if seen < offset {
			continue
		}
		products = append(products, row.product())
		if limit > 0 && len(products) == limit {
			break
		}
		row = productRow{}
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *Store) ListProductsByOwner(ctx context.Context, ownerID gocql.UUID) ([]models.Product, error) {
	iter := s.products.Query(`SELECT product_id FROM products_by_owner WHERE user_id = ?`, ownerID).
		WithContext(ctx).Iter()

	var ids []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("list products by owner: %w", err)
	}

	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetProduct(ctx, id)
		if err == store.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *Store) ImageURLs(ctx context.Context) ([]string, error) {
	iter := s.products.Query(`SELECT image_url FROM products`).WithContext(ctx).PageSize(500).Iter()

	var urls []string
	var url string
	for iter.Scan(&url) {
		urls = append(urls, url)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("list image urls: %w", err)
	}
	return urls, nil
}
