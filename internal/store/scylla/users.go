package scylla

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gocql/gocql"

	"boutique/internal/models"
	"boutique/internal/store"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.ID = gocql.TimeUUID()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = time.Now().UTC()
	if u.Cart == nil {
		u.Cart = []models.CartItem{}
	}

	// users_by_email is the uniqueness guard.
	applied, err := s.users.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS`, u.Email, u.ID).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("reserve email: %w", err)
	}
	if !applied {
		return store.ErrDuplicateEmail
	}

	cart, err := json.Marshal(u.Cart)
	if err != nil {
		return err
	}
	err = s.users.Query(`INSERT INTO users (user_id, email, password, provider, provider_id, cart, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Password, u.Provider, u.ProviderID, string(cart), u.CreatedAt).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id gocql.UUID) (models.User, error) {
	var (
		u    models.User
		cart string
	)
	err := s.users.Query(`SELECT user_id, email, password, provider, provider_id, cart, created_at FROM users WHERE user_id = ?`, id).
		WithContext(ctx).Scan(&u.ID, &u.Email, &u.Password, &u.Provider, &u.ProviderID, &cart, &u.CreatedAt)
	if err != nil {
		return models.User{}, notFound(err)
	}

	u.Cart = []models.CartItem{}
	if cart != "" {
		if err := json.Unmarshal([]byte(cart), &u.Cart); err != nil {
			return models.User{}, fmt.Errorf("decode cart of user %s: %w", id, err)
		}
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var id gocql.UUID
	err := s.users.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, strings.ToLower(strings.TrimSpace(email))).
		WithContext(ctx).Scan(&id)
	if err != nil {
		return models.User{}, notFound(err)
	}
	return s.GetUser(ctx, id)
}

func (s *Store) UpdateUser(ctx context.Context, u models.User) error {
	if u.Cart == nil {
		u.Cart = []models.CartItem{}
	}
	cart, err := json.Marshal(u.Cart)
	if err != nil {
		return err
	}

	applied, err := s.users.Query(`UPDATE users SET password = ?, provider = ?, provider_id = ?, cart = ? WHERE user_id = ? IF EXISTS`,
		u.Password, u.Provider, u.ProviderID, string(cart), u.ID).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if !applied {
		return store.ErrNotFound
	}
	return nil
}
