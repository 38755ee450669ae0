package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"boutique/internal/auth"
	"boutique/internal/models"
	"boutique/internal/shop"
	"boutique/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type countingLimiter struct {
	hits map[string]int64
}

func (l *countingLimiter) Hit(_ context.Context, key string, _ time.Duration) (int64, error) {
	l.hits[key]++
	return l.hits[key], nil
}

func TestRequireAuthRedirects(t *testing.T) {
	r := gin.New()
	r.GET("/orders", RequireAuth(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestRateLimitBlocksAfterMax(t *testing.T) {
	l := &countingLimiter{hits: map[string]int64{}}
	rule := LoginRule
	rule.Max = 2

	r := gin.New()
	r.POST("/login", RateLimit(l, rule), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	post := func(email string) int {
		form := url.Values{"email": {email}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := post("a@b.c"); code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, code)
		}
	}
	if code := post("A@b.c "); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if code := post("other@b.c"); code != http.StatusOK {
		t.Fatalf("other email should not be limited, got %d", code)
	}
}

func TestRateLimitDisabledWithoutLimiter(t *testing.T) {
	r := gin.New()
	r.POST("/cart", RateLimit(nil, CartRule), func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cart", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestErrorResponderStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("load order: %w", store.ErrNotFound), http.StatusNotFound},
		{shop.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("%w: no multipart boundary", ErrBadRequest), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		r := gin.New()
		r.Use(ErrorResponder(JSONRenderer{}))
		r.GET("/x", func(c *gin.Context) { c.Error(tt.err) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		if w.Code != tt.want {
			t.Fatalf("%v: expected %d, got %d", tt.err, tt.want, w.Code)
		}
		var body struct {
			View string `json:"view"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.View != "err" {
			t.Fatalf("expected err view, got %s", w.Body.String())
		}
	}
}

func TestSessionFromBearerToken(t *testing.T) {
	mem := store.NewMemory()
	u := models.User{Email: "api@example.com"}
	if err := mem.CreateUser(context.Background(), &u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	tokens := auth.NewTokens("secret")
	raw, _ := tokens.Generate(u)

	r := gin.New()
	r.Use(Session(NewSessionStore("session-secret", false), mem, tokens))
	r.GET("/me", func(c *gin.Context) {
		s := State(c)
		c.JSON(http.StatusOK, gin.H{"auth": s.IsAuthenticated, "id": s.UserID().String()})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), u.ID.String()) || !strings.Contains(w.Body.String(), `"auth":true`) {
		t.Fatalf("expected authenticated state, got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if !strings.Contains(w.Body.String(), `"auth":false`) {
		t.Fatalf("expected anonymous state, got %s", w.Body.String())
	}
}

func TestSessionCookieRoundTrip(t *testing.T) {
	mem := store.NewMemory()
	u := models.User{Email: "web@example.com"}
	_ = mem.CreateUser(context.Background(), &u)
	st := NewSessionStore("session-secret", false)

	r := gin.New()
	r.Use(Session(st, mem, nil))
	r.POST("/login", func(c *gin.Context) {
		if err := StartSession(c, st, u); err != nil {
			t.Fatalf("StartSession: %v", err)
		}
		c.Status(http.StatusNoContent)
	})
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, State(c).UserID().String())
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie set")
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != u.ID.String() {
		t.Fatalf("expected %s, got %q", u.ID, w.Body.String())
	}
}

func TestInvalidBearerIgnoresSessionCookie(t *testing.T) {
	mem := store.NewMemory()
	u := models.User{Email: "web@example.com"}
	_ = mem.CreateUser(context.Background(), &u)
	st := NewSessionStore("session-secret", false)

	r := gin.New()
	r.Use(Session(st, mem, auth.NewTokens("secret")))
	r.POST("/login", func(c *gin.Context) {
		if err := StartSession(c, st, u); err != nil {
			t.Fatalf("StartSession: %v", err)
		}
		c.Status(http.StatusNoContent)
	})
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, fmt.Sprint(State(c).IsAuthenticated))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookies := w.Result().Cookies()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "false" {
		t.Fatalf("bogus bearer with a session cookie should be anonymous, got %q", w.Body.String())
	}
}
