package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boutique/internal/shop"
)

func pageData(p shop.Page, title, path string) gin.H {
	return gin.H{
		"prods":           p.Products,
		"pageTitle":       title,
		"path":            path,
		"totalProducts":   p.TotalProducts,
		"currentPage":     p.CurrentPage,
		"hasNextPage":     p.HasNextPage,
		"hasPreviousPage": p.HasPreviousPage,
		"nextPage":        p.NextPage,
		"previousPage":    p.PreviousPage,
		"lastPage":        p.LastPage,
	}
}

// GET /
func (h *Handler) GetIndex(c *gin.Context) {
	page, err := h.shop.CatalogPage(c.Request.Context(), shop.ParsePage(c.Query("page")))
	if err != nil {
		c.Error(err)
		return
	}
	h.render(c, http.StatusOK, "shop/index", pageData(page, "Shop", "/"))
}

// GET /products
func (h *Handler) GetProducts(c *gin.Context) {
	page, err := h.shop.CatalogPage(c.Request.Context(), shop.ParsePage(c.Query("page")))
	if err != nil {
		c.Error(err)
		return
	}
	h.render(c, http.StatusOK, "shop/product-list", pageData(page, "Products", "/products"))
}

// GET /products/:productId
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseID(c.Param("productId"))
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	p, err := h.shop.Product(c.Request.Context(), id)
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, "shop/product-details", gin.H{
		"product":   p,
		"pageTitle": p.Title,
		"path":      "/products",
	})
}

// GET /search?q=
func (h *Handler) GetSearch(c *gin.Context) {
	q := c.Query("q")
	prods, err := h.shop.Search(c.Request.Context(), q)
	if err != nil {
		c.Error(err)
		return
	}
	h.render(c, http.StatusOK, "shop/search", gin.H{
		"prods":     prods,
		"query":     q,
		"pageTitle": "Search",
		"path":      "/search",
	})
}
