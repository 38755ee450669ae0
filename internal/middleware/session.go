package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"boutique/internal/auth"
	"boutique/internal/models"
	"boutique/internal/store"
)

const (
	SessionName   = "boutique-session"
	sessionUserID = "user_id"
	sessionMaxAge = 500 // seconds
)

// NewSessionStore builds the cookie store used for the login session and by gothic.
func NewSessionStore(secret string, secure bool) *sessions.CookieStore {
	st := sessions.NewCookieStore([]byte(secret))
	st.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return st
}

// Session resolves the caller from a Bearer token for API clients, or from the session cookie
// when no Authorization header is sent, and records the result in the RequestState.
func Session(st sessions.Store, users store.UserStore, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := State(c)
		state.CSRFToken = csrf.Token(c.Request)

		// a request that carries Authorization is judged on it alone and never on the cookie
		var (
			id gocql.UUID
			ok bool
		)
		if c.GetHeader("Authorization") != "" {
			id, ok = bearerUser(c, tokens)
		} else {
			id, ok = sessionUser(c, st)
		}
		if !ok {
			c.Next()
			return
		}

		user, err := users.GetUser(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			c.Next()
			return
		}
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}
		state.User = &user
		state.IsAuthenticated = true
		c.Next()
	}
}

func bearerUser(c *gin.Context, tokens *auth.Tokens) (gocql.UUID, bool) {
	header := c.GetHeader("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || tokens == nil {
		return gocql.UUID{}, false
	}
	id, err := tokens.Parse(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("⚠️ rejected bearer token: %v", err)
		return gocql.UUID{}, false
	}
	return id, true
}

func sessionUser(c *gin.Context, st sessions.Store) (gocql.UUID, bool) {
	sess, err := st.Get(c.Request, SessionName)
	if err != nil {
		// tampered or expired cookie, treat as anonymous
		return gocql.UUID{}, false
	}
	raw, _ := sess.Values[sessionUserID].(string)
	id, err := gocql.ParseUUID(raw)
	if err != nil {
		return gocql.UUID{}, false
	}
	return id, true
}

// StartSession remembers user in the session cookie.
func StartSession(c *gin.Context, st sessions.Store, user models.User) error {
	sess, _ := st.Get(c.Request, SessionName)
	sess.Values[sessionUserID] = user.ID.String()
	return sess.Save(c.Request, c.Writer)
}

// EndSession drops the session cookie.
func EndSession(c *gin.Context, st sessions.Store) error {
	sess, _ := st.Get(c.Request, SessionName)
	delete(sess.Values, sessionUserID)
	sess.Options.MaxAge = -1
	return sess.Save(c.Request, c.Writer)
}

// RequireAuth sends anonymous callers to the login page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !State(c).IsAuthenticated {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
