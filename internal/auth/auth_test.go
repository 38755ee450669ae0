package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"golang.org/x/crypto/bcrypt"

	"boutique/internal/models"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !IsArgon2Hash(hash) {
		t.Fatalf("expected argon2id hash, got %q", hash)
	}

	ok, err := VerifyPassword("s3cret", hash)
	if err != nil || !ok {
		t.Fatalf("expected match, got %v %v", ok, err)
	}
	ok, err = VerifyPassword("wrong", hash)
	if err != nil || ok {
		t.Fatalf("expected mismatch, got %v %v", ok, err)
	}
}

func TestVerifyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	if ok, err := VerifyPassword("legacy", string(legacy)); err != nil || !ok {
		t.Fatalf("expected bcrypt match, got %v %v", ok, err)
	}
	if ok, err := VerifyPassword("nope", string(legacy)); err != nil || ok {
		t.Fatalf("expected bcrypt mismatch, got %v %v", ok, err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	if _, err := VerifyPassword("x", "plain"); !errors.Is(err, ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret")
	user := models.User{ID: gocql.TimeUUID(), Email: "a@b.c"}

	raw, err := tokens.Generate(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	id, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id != user.ID {
		t.Fatalf("expected %s, got %s", user.ID, id)
	}

	if _, err := NewTokens("other").Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestTokensExpire(t *testing.T) {
	tokens := NewTokens("test-secret")
	raw, err := tokens.Generate(models.User{ID: gocql.TimeUUID()})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	tokens.now = func() time.Time { return time.Now().Add(TokenTTL + time.Minute) }
	if _, err := tokens.Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
}
