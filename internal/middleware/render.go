package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"boutique/internal/shop"
	"boutique/internal/store"
)

// ErrBadRequest marks a request body that could not be read at all.
var ErrBadRequest = errors.New("bad request")

// Renderer turns a view name and its data into a response.
type Renderer interface {
	Render(c *gin.Context, status int, view string, data gin.H)
}

// JSONRenderer writes {"view": ..., "data": ...}.
type JSONRenderer struct{}

func (JSONRenderer) Render(c *gin.Context, status int, view string, data gin.H) {
	c.JSON(status, gin.H{"view": view, "data": data})
}

// WithLocals adds the fields every view receives.
func WithLocals(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	s := State(c)
	data["isAuthenticated"] = s.IsAuthenticated
	data["csrfToken"] = s.CSRFToken
	return data
}

// ErrorResponder renders the first error a handler attached with c.Error, unless a response
// was already written.
func ErrorResponder(r Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors[0].Err

		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, store.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, shop.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, ErrBadRequest):
			status = http.StatusBadRequest
		}
		if status == http.StatusInternalServerError {
			log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}

		r.Render(c, status, "err", WithLocals(c, gin.H{
			"pageTitle": "Error!",
			"path":      "/500",
			"status":    status,
			"message":   http.StatusText(status),
		}))
	}
}

// NotFound handles unknown routes.
func NotFound(r Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		r.Render(c, http.StatusNotFound, "err", WithLocals(c, gin.H{
			"pageTitle": "Page Not Found",
			"path":      "/404",
			"status":    http.StatusNotFound,
			"message":   http.StatusText(http.StatusNotFound),
		}))
	}
}
