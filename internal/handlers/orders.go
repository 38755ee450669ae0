package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"boutique/internal/invoice"
	"boutique/internal/models"
	"boutique/internal/shop"
	"boutique/internal/store"
)

// POST /create-order
func (h *Handler) PostOrder(c *gin.Context) {
	_, err := h.shop.Checkout(c.Request.Context(), userID(c))
	if errors.Is(err, shop.ErrEmptyCart) {
		h.render(c, http.StatusUnprocessableEntity, "shop/cart", gin.H{
			"path":         "/cart",
			"pageTitle":    "Your Cart",
			"products":     []models.CartLine{},
			"errorMessage": "Your cart is empty.",
		})
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, "/orders")
}

// GET /orders
func (h *Handler) GetOrders(c *gin.Context) {
	orders, err := h.shop.Orders(c.Request.Context(), userID(c))
	if err != nil {
		c.Error(err)
		return
	}
	h.render(c, http.StatusOK, "shop/orders", gin.H{
		"path":      "/orders",
		"pageTitle": "Your Orders",
		"orders":    orders,
	})
}

// GET /orders/:orderId
func (h *Handler) GetInvoice(c *gin.Context) {
	id, ok := parseID(c.Param("orderId"))
	if !ok {
		c.Error(store.ErrNotFound)
		return
	}
	order, err := h.shop.Invoice(c.Request.Context(), userID(c), id)
	if err != nil {
		c.Error(err)
		return
	}

	var buf bytes.Buffer
	if err := invoice.Write(&buf, order); err != nil {
		c.Error(err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", invoice.Filename(order)))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// POST /delete-order
func (h *Handler) PostDeleteOrder(c *gin.Context) {
	id, ok := parseID(c.PostForm("orderId"))
	if !ok {
		c.Error(store.ErrNotFound)
		return
	}
	if err := h.shop.DeleteOrder(c.Request.Context(), userID(c), id); err != nil {
		c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, "/orders")
}
