package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"boutique/internal/shop"
	"boutique/internal/store"
)

func productForm(title, path string, editing bool) gin.H {
	return gin.H{
		"pageTitle":        title,
		"path":             path,
		"editing":          editing,
		"hasError":         false,
		"errorMessage":     nil,
		"validationErrors": []shop.FieldError{},
	}
}

// invalidForm fills data for a 422 re-render of the product form.
func invalidForm(data gin.H, product gin.H, verr *shop.ValidationError) gin.H {
	data["hasError"] = true
	data["product"] = product
	data["errorMessage"] = verr.Error()
	data["validationErrors"] = verr.Errors
	return data
}

// GET /admin/products
func (h *Handler) GetAdminProducts(c *gin.Context) {
	prods, err := h.shop.OwnerProducts(c.Request.Context(), userID(c))
	if err != nil {
		c.Error(err)
		return
	}
	h.render(c, http.StatusOK, "admin/products", gin.H{
		"prods":     prods,
		"pageTitle": "Admin Products",
		"path":      "/admin/products",
	})
}

// GET /admin/add-product
func (h *Handler) GetAddProduct(c *gin.Context) {
	h.render(c, http.StatusOK, "admin/product-form", productForm("Add Product", "/admin/add-product", false))
}

// POST /admin/add-product
func (h *Handler) PostAddProduct(c *gin.Context) {
	var in shop.ProductInput
	if !bind(c, &in) {
		return
	}
	image, _ := c.FormFile("image")

	_, err := h.shop.CreateProduct(c.Request.Context(), userID(c), in, image)
	var verr *shop.ValidationError
	if errors.As(err, &verr) {
		data := productForm("Add Product", "/admin/add-product", false)
		h.render(c, http.StatusUnprocessableEntity, "admin/product-form", invalidForm(data, gin.H{
			"title":       in.Title,
			"price":       in.Price,
			"description": in.Description,
		}, verr))
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// GET /admin/edit-product/:productId
func (h *Handler) GetEditProduct(c *gin.Context) {
	id, ok := parseID(c.Param("productId"))
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	p, err := h.shop.EditableProduct(c.Request.Context(), userID(c), id)
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, shop.ErrForbidden) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	data := productForm("Edit Product", "/admin/edit-product", true)
	data["product"] = p
	h.render(c, http.StatusOK, "admin/product-form", data)
}

// POST /admin/edit-product
func (h *Handler) PostEditProduct(c *gin.Context) {
	id, ok := parseID(c.PostForm("productId"))
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	var in shop.ProductInput
	if !bind(c, &in) {
		return
	}
	image, _ := c.FormFile("image")

	cur, err := h.shop.UpdateProduct(c.Request.Context(), userID(c), id, in, image)
	var verr *shop.ValidationError
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, "/admin/products")
	case errors.As(err, &verr):
		data := productForm("Edit Product", "/admin/edit-product", true)
		h.render(c, http.StatusUnprocessableEntity, "admin/product-form", invalidForm(data, gin.H{
			"id":          id,
			"title":       in.Title,
			"price":       in.Price,
			"description": in.Description,
			"imageUrl":    cur.ImageURL,
		}, verr))
	case errors.Is(err, store.ErrNotFound), errors.Is(err, shop.ErrForbidden):
		c.Redirect(http.StatusFound, "/")
	default:
		c.Error(err)
	}
}

// POST /admin/delete-product
func (h *Handler) PostDeleteProduct(c *gin.Context) {
	id, ok := parseID(c.PostForm("productId"))
	if !ok {
		c.Error(store.ErrNotFound)
		return
	}
	if _, err := h.shop.DeleteProduct(c.Request.Context(), userID(c), id); err != nil {
		c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, "/admin/products")
}
