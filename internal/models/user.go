package models

import (
	"time"

	"github.com/gocql/gocql"
)

const ProviderLocal = "local"

type User struct {
	ID         gocql.UUID `json:"id"`
	Email      string     `json:"email"`
	Password   string     `json:"-"`
	Provider   string     `json:"provider,omitempty"`
	ProviderID string     `json:"-"`
	Cart       []CartItem `json:"cart"`
	CreatedAt  time.Time  `json:"createdAt"`
}
