package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"boutique/internal/auth"
	"boutique/internal/handlers"
	"boutique/internal/middleware"
	"boutique/internal/store"
)

type Options struct {
	Sessions sessions.Store
	Users    store.UserStore
	Tokens   *auth.Tokens
	View     middleware.Renderer
	// Limiter is nil when Redis is not configured, which turns rate limiting off.
	Limiter middleware.Limiter
	// ImageDir is served under /images. Leave empty when images live in MinIO.
	ImageDir string
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	view := opts.View
	if view == nil {
		view = middleware.JSONRenderer{}
	}

	if opts.ImageDir != "" {
		r.Static("/images", opts.ImageDir)
	} else {
		r.GET("/images/:name", h.GetImage)
	}

	r.Use(middleware.ErrorResponder(view))
	r.Use(middleware.Session(opts.Sessions, opts.Users, opts.Tokens))
	r.NoRoute(middleware.NotFound(view))

	// Shop
	r.GET("/", h.GetIndex)
	r.GET("/products", h.GetProducts)
	r.GET("/products/:productId", h.GetProduct)
	r.GET("/search", h.GetSearch)

	// Auth
	r.GET("/login", h.GetLogin)
	r.POST("/login", middleware.RateLimit(opts.Limiter, middleware.LoginRule), h.PostLogin)
	r.GET("/signup", h.GetSignup)
	r.POST("/signup", h.PostSignup)
	r.POST("/logout", h.PostLogout)
	r.GET("/auth/:provider", h.BeginOAuth)
	r.GET("/auth/:provider/callback", h.OAuthCallback)

	// Cart and orders
	user := r.Group("/", middleware.RequireAuth())
	{
		user.GET("/cart", h.GetCart)
		user.POST("/cart", middleware.RateLimit(opts.Limiter, middleware.CartRule), h.PostCart)
		user.POST("/cart-delete-item", h.PostCartDeleteProduct)
		user.GET("/cart/ws", h.CartWebSocket)
		user.POST("/create-order", h.PostOrder)
		user.GET("/orders", h.GetOrders)
		user.GET("/orders/:orderId", h.GetInvoice)
		user.POST("/delete-order", h.PostDeleteOrder)
	}

	// Admin
	admin := r.Group("/admin", middleware.RequireAuth())
	{
		admin.GET("/products", h.GetAdminProducts)
		admin.GET("/add-product", h.GetAddProduct)
		admin.POST("/add-product", h.PostAddProduct)
		admin.GET("/edit-product/:productId", h.GetEditProduct)
		admin.POST("/edit-product", h.PostEditProduct)
		admin.POST("/delete-product", h.PostDeleteProduct)
	}
}
