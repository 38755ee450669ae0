package models

import (
	"time"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID        gocql.UUID  `json:"id"`
	UserID    gocql.UUID  `json:"userId"`
	Products  []OrderItem `json:"products"`
	CreatedAt time.Time   `json:"createdAt"`
}

type OrderItem struct {
	Quantity int             `json:"quantity"`
	Product  ProductSnapshot `json:"product"`
}

// ProductSnapshot is a frozen copy of a Product taken at checkout.
type ProductSnapshot struct {
	ID          gocql.UUID      `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	UserID      gocql.UUID      `json:"userId"`
}

// Subtotal is quantity × unit price for the line.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total sums every line subtotal.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Products {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (o Order) OwnerID() gocql.UUID {
	return o.UserID
}
