package models

import "github.com/gocql/gocql"

// CartItem is one entry of the cart embedded in a User. ProductID is unique within a cart.
type CartItem struct {
	ProductID gocql.UUID `json:"productId"`
	Quantity  int        `json:"quantity"`
}

// CartLine is a CartItem with its product resolved, as shown on the cart page.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}
