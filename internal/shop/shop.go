// Package shop implements the storefront: catalog pages, the cart embedded in each user,
// checkout into immutable orders, and the owner-only product administration.
package shop

import (
	"errors"

	"boutique/internal/events"
	"boutique/internal/search"
	"boutique/internal/storage"
	"boutique/internal/store"
)

var (
	ErrForbidden = errors.New("forbidden")
	ErrEmptyCart = errors.New("cart is empty")
)

type Service struct {
	products store.ProductStore
	users    store.UserStore
	orders   store.OrderStore
	images   storage.ImageStore
	index    search.Searcher
	carts    events.CartNotifier
	events   events.Publisher
}

// New wires the service. idx, carts and pub may be nil, in which case indexing falls back to a
// catalog scan and notifications are dropped.
func New(st store.Stores, images storage.ImageStore, idx search.Searcher, carts events.CartNotifier, pub events.Publisher) *Service {
	if idx == nil {
		idx = search.Scan{Products: st.Products}
	}
	if carts == nil {
		carts = events.Nop{}
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{
		products: st.Products,
		users:    st.Users,
		orders:   st.Orders,
		images:   images,
		index:    idx,
		carts:    carts,
		events:   pub,
	}
}
