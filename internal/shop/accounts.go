package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gocql/gocql"

	"boutique/internal/auth"
	"boutique/internal/models"
	"boutique/internal/store"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type SignupInput struct {
	Email           string `form:"email" json:"email" validate:"required,email"`
	Password        string `form:"password" json:"password" validate:"min=5"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword" validate:"eqfield=Password"`
}

type LoginInput struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := check(in); err != nil {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := models.User{
		Email:    in.Email,
		Password: hash,
		Provider: models.ProviderLocal,
		Cart:     []models.CartItem{},
	}
	err = s.users.CreateUser(ctx, &u)
	if errors.Is(err, store.ErrDuplicateEmail) {
		return models.User{}, invalid("email", in.Email, "E-Mail exists already, please pick a different one.")
	}
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := check(in); err != nil {
		return models.User{}, err
	}

	u, err := s.users.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if u.Password == "" {
		// account created through an OAuth provider
		return models.User{}, ErrInvalidCredentials
	}
	ok, err := auth.VerifyPassword(in.Password, u.Password)
	if err != nil || !ok {
		return models.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// OAuthUser finds the account for an OAuth identity by email, creating it on first sign-in.
func (s *Service) OAuthUser(ctx context.Context, provider, providerID, email string) (models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return models.User{}, invalid("email", "", messages["email"])
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, err
	}

	u = models.User{
		Email:      email,
		Provider:   provider,
		ProviderID: providerID,
		Cart:       []models.CartItem{},
	}
	if err := s.users.CreateUser(ctx, &u); err != nil {
		return models.User{}, fmt.Errorf("create oauth user: %w", err)
	}
	return u, nil
}

func (s *Service) User(ctx context.Context, id gocql.UUID) (models.User, error) {
	return s.users.GetUser(ctx, id)
}
