// Package middleware holds the gin middleware shared by every route: who is calling,
// whether they may, and how failures are rendered.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"boutique/internal/models"
)

const stateKey = "request_state"

// RequestState is what a handler knows about the caller. It is set once per request by Session.
type RequestState struct {
	User            *models.User
	IsAuthenticated bool
	CSRFToken       string
}

// UserID is the zero UUID for anonymous callers.
func (s *RequestState) UserID() gocql.UUID {
	if s == nil || s.User == nil {
		return gocql.UUID{}
	}
	return s.User.ID
}

// State returns the request state, never nil.
func State(c *gin.Context) *RequestState {
	if v, ok := c.Get(stateKey); ok {
		if s, ok := v.(*RequestState); ok {
			return s
		}
	}
	s := &RequestState{}
	c.Set(stateKey, s)
	return s
}
