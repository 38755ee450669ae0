package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"boutique/internal/storage"
)

const imageLinkTTL = 15 * time.Minute

// GET /images/:name redirects to a short-lived link into the bucket.
func (h *Handler) GetImage(c *gin.Context) {
	name, err := storage.NameFromURL(storage.URLPrefix + c.Param("name"))
	if err != nil || h.images == nil {
		c.Status(http.StatusNotFound)
		return
	}
	u, err := h.images.PresignedURL(c.Request.Context(), name, imageLinkTTL)
	if err != nil {
		c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, u.String())
}
