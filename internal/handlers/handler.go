// Package handlers maps HTTP requests onto the shop service and renders view payloads.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"boutique/internal/auth"
	"boutique/internal/middleware"
	"boutique/internal/shop"
)

// CartSubscriber streams cart change notifications for one user until ctx ends.
type CartSubscriber interface {
	Subscribe(ctx context.Context, userID gocql.UUID) <-chan string
}

// ImageLinker hands out temporary links to stored images. Only the MinIO backend has one.
type ImageLinker interface {
	PresignedURL(ctx context.Context, name string, ttl time.Duration) (*url.URL, error)
}

type Deps struct {
	Shop     *shop.Service
	View     middleware.Renderer
	Sessions sessions.Store
	Tokens   *auth.Tokens
	Carts    CartSubscriber
	Images   ImageLinker
}

type Handler struct {
	shop     *shop.Service
	view     middleware.Renderer
	sessions sessions.Store
	tokens   *auth.Tokens
	carts    CartSubscriber
	images   ImageLinker
}

func New(d Deps) *Handler {
	if d.View == nil {
		d.View = middleware.JSONRenderer{}
	}
	return &Handler{
		shop:     d.Shop,
		view:     d.View,
		sessions: d.Sessions,
		tokens:   d.Tokens,
		carts:    d.Carts,
		images:   d.Images,
	}
}

func (h *Handler) render(c *gin.Context, status int, view string, data gin.H) {
	h.view.Render(c, status, view, middleware.WithLocals(c, data))
}

// bind decodes the form into obj. Field rules are checked later by the shop service, so only a
// body that cannot be decoded is an error here; it is attached to c and bind reports false.
func bind(c *gin.Context, obj any) bool {
	err := c.ShouldBind(obj)
	var verrs validator.ValidationErrors
	if err == nil || errors.As(err, &verrs) {
		return true
	}
	c.Error(fmt.Errorf("%w: %v", middleware.ErrBadRequest, err))
	return false
}

func userID(c *gin.Context) gocql.UUID {
	return middleware.State(c).UserID()
}

func parseID(raw string) (gocql.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return gocql.UUID{}, false
	}
	return gocql.UUID(id), true
}
