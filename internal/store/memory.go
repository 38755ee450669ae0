package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gocql/gocql"

	"boutique/internal/models"
)

// Memory keeps everything in process. It is used when no database is configured and in tests.
type Memory struct {
	mu       sync.RWMutex
	products []models.Product
	users    map[gocql.UUID]models.User
	orders   []models.Order
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		users: make(map[gocql.UUID]models.User),
		now:   time.Now,
	}
}

// Stores exposes m through every store interface.
func (m *Memory) Stores() Stores {
	return Stores{Products: m, Users: m, Orders: m}
}

// --- products ---

func (m *Memory) CreateProduct(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = gocql.TimeUUID()
	p.CreatedAt = m.now()
	p.UpdatedAt = p.CreatedAt
	m.products = append(m.products, *p)
	return nil
}

func (m *Memory) GetProduct(_ context.Context, id gocql.UUID) (models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.productIndex(id); i >= 0 {
		return m.products[i], nil
	}
	return models.Product{}, ErrNotFound
}

func (m *Memory) UpdateProduct(_ context.Context, p models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.productIndex(p.ID)
	if i < 0 {
		return ErrNotFound
	}
	p.CreatedAt = m.products[i].CreatedAt
	p.UpdatedAt = m.now()
	m.products[i] = p
	return nil
}

func (m *Memory) DeleteProduct(_ context.Context, id, ownerID gocql.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.productIndex(id)
	if i < 0 || m.products[i].UserID != ownerID {
		return false, nil
	}
	m.products = append(m.products[:i], m.products[i+1:]...)
	return true, nil
}

func (m *Memory) CountProducts(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.products), nil
}

func (m *Memory) ListProducts(_ context.Context, offset, limit int) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if offset < 0 {
		offset = 0
	}
	if offset >= len(m.products) {
		return []models.Product{}, nil
	}
	end := len(m.products)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]models.Product, end-offset)
	copy(out, m.products[offset:end])
	return out, nil
}

func (m *Memory) ListProductsByOwner(_ context.Context, ownerID gocql.UUID) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Product{}
	for _, p := range m.products {
		if p.UserID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Memory) ImageURLs(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	urls := make([]string, 0, len(m.products))
	for _, p := range m.products {
		urls = append(urls, p.ImageURL)
	}
	return urls, nil
}

func (m *Memory) productIndex(id gocql.UUID) int {
	for i := range m.products {
		if m.products[i].ID == id {
			return i
		}
	}
	return -1
}

// --- users ---

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrDuplicateEmail
		}
	}
	u.ID = gocql.TimeUUID()
	u.CreatedAt = m.now()
	if u.Cart == nil {
		u.Cart = []models.CartItem{}
	}
	m.users[u.ID] = cloneUser(*u)
	return nil
}

func (m *Memory) GetUser(_ context.Context, id gocql.UUID) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return cloneUser(u), nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *Memory) UpdateUser(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}
	m.users[u.ID] = cloneUser(u)
	return nil
}

func cloneUser(u models.User) models.User {
	cart := make([]models.CartItem, len(u.Cart))
	copy(cart, u.Cart)
	u.Cart = cart
	return u
}

// --- orders ---

func (m *Memory) CreateOrder(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o.ID = gocql.TimeUUID()
	o.CreatedAt = m.now()
	m.orders = append(m.orders, cloneOrder(*o))
	return nil
}

func (m *Memory) GetOrder(_ context.Context, id gocql.UUID) (models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.orderIndex(id); i >= 0 {
		return cloneOrder(m.orders[i]), nil
	}
	return models.Order{}, ErrNotFound
}

func (m *Memory) ListOrdersByUser(_ context.Context, userID gocql.UUID) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Order{}
	for i := len(m.orders) - 1; i >= 0; i-- {
		if m.orders[i].UserID == userID {
			out = append(out, cloneOrder(m.orders[i]))
		}
	}
	return out, nil
}

func (m *Memory) DeleteOrder(_ context.Context, id, userID gocql.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.orderIndex(id)
	if i < 0 || m.orders[i].UserID != userID {
		return false, nil
	}
	m.orders = append(m.orders[:i], m.orders[i+1:]...)
	return true, nil
}

func (m *Memory) orderIndex(id gocql.UUID) int {
	for i := range m.orders {
		if m.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneOrder(o models.Order) models.Order {
	items := make([]models.OrderItem, len(o.Products))
	copy(items, o.Products)
	o.Products = items
	return o
}
