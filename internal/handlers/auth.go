package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"

	"boutique/internal/middleware"
	"boutique/internal/models"
	"boutique/internal/shop"
)

func authForm(title, path string) gin.H {
	return gin.H{
		"pageTitle":        title,
		"path":             path,
		"errorMessage":     nil,
		"oldInput":         gin.H{"email": ""},
		"validationErrors": []shop.FieldError{},
	}
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), gin.MIMEJSON)
}

// GET /login
func (h *Handler) GetLogin(c *gin.Context) {
	h.render(c, http.StatusOK, "auth/login", authForm("Login", "/login"))
}

// POST /login
func (h *Handler) PostLogin(c *gin.Context) {
	var in shop.LoginInput
	if !bind(c, &in) {
		return
	}

	user, err := h.shop.Login(c.Request.Context(), in)
	if err != nil {
		var verr *shop.ValidationError
		data := authForm("Login", "/login")
		data["oldInput"] = gin.H{"email": in.Email}
		switch {
		case errors.As(err, &verr):
			data["errorMessage"] = verr.Error()
			data["validationErrors"] = verr.Errors
		case errors.Is(err, shop.ErrInvalidCredentials):
			data["errorMessage"] = "Invalid email or password."
		default:
			c.Error(err)
			return
		}
		h.render(c, http.StatusUnprocessableEntity, "auth/login", data)
		return
	}

	h.signIn(c, user)
}

func (h *Handler) signIn(c *gin.Context, user models.User) {
	if err := middleware.StartSession(c, h.sessions, user); err != nil {
		c.Error(err)
		return
	}
	if wantsJSON(c) && h.tokens != nil {
		token, err := h.tokens.Generate(user)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// GET /signup
func (h *Handler) GetSignup(c *gin.Context) {
	h.render(c, http.StatusOK, "auth/signup", authForm("Signup", "/signup"))
}

// POST /signup
func (h *Handler) PostSignup(c *gin.Context) {
	var in shop.SignupInput
	if !bind(c, &in) {
		return
	}

	_, err := h.shop.Signup(c.Request.Context(), in)
	var verr *shop.ValidationError
	if errors.As(err, &verr) {
		data := authForm("Signup", "/signup")
		data["oldInput"] = gin.H{"email": in.Email}
		data["errorMessage"] = verr.Error()
		data["validationErrors"] = verr.Errors
		h.render(c, http.StatusUnprocessableEntity, "auth/signup", data)
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// POST /logout
func (h *Handler) PostLogout(c *gin.Context) {
	if err := middleware.EndSession(c, h.sessions); err != nil {
		log.Printf("⚠️ could not end session: %v", err)
	}
	c.Redirect(http.StatusFound, "/")
}

// gothic reads the provider name from the query string.
func withProvider(c *gin.Context) {
	q := c.Request.URL.Query()
	q.Set("provider", c.Param("provider"))
	c.Request.URL.RawQuery = q.Encode()
}

// GET /auth/:provider
func (h *Handler) BeginOAuth(c *gin.Context) {
	withProvider(c)
	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// GET /auth/:provider/callback
func (h *Handler) OAuthCallback(c *gin.Context) {
	withProvider(c)
	gu, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		log.Printf("⚠️ %s sign-in failed: %v", c.Param("provider"), err)
		data := authForm("Login", "/login")
		data["errorMessage"] = "Could not sign in with " + c.Param("provider") + "."
		h.render(c, http.StatusUnauthorized, "auth/login", data)
		return
	}

	user, err := h.shop.OAuthUser(c.Request.Context(), gu.Provider, gu.UserID, gu.Email)
	var verr *shop.ValidationError
	if errors.As(err, &verr) {
		data := authForm("Login", "/login")
		data["errorMessage"] = "Your " + gu.Provider + " account has no email address."
		h.render(c, http.StatusUnprocessableEntity, "auth/login", data)
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	h.signIn(c, user)
}
