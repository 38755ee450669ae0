package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"boutique/internal/store"
)

// GET /cart
func (h *Handler) GetCart(c *gin.Context) {
	lines, err := h.shop.Cart(c.Request.Context(), userID(c))
	if err != nil {
		c.Error(err)
		return
	}
	h.render(c, http.StatusOK, "shop/cart", gin.H{
		"path":      "/cart",
		"pageTitle": "Your Cart",
		"products":  lines,
	})
}

// POST /cart
func (h *Handler) PostCart(c *gin.Context) {
	id, ok := parseID(c.PostForm("productId"))
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	err := h.shop.AddToCart(c.Request.Context(), userID(c), id)
	if errors.Is(err, store.ErrNotFound) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, "/cart")
}

// POST /cart-delete-item
func (h *Handler) PostCartDeleteProduct(c *gin.Context) {
	if id, ok := parseID(c.PostForm("productId")); ok {
		if err := h.shop.RemoveFromCart(c.Request.Context(), userID(c), id); err != nil {
			c.Error(err)
			return
		}
	}
	c.Redirect(http.StatusFound, "/cart")
}
