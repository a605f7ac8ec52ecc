package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/httpresp"
	"github.com/BruksfildServices01/fieldops/internal/middleware"
)

type MeHandler struct {
	vapidPublicKey string
}

func NewMeHandler(vapidPublicKey string) *MeHandler {
	return &MeHandler{vapidPublicKey: vapidPublicKey}
}

// GetMe returns the authenticated user plus what the dashboard needs to
// subscribe to web push.
func (h *MeHandler) GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		httperr.Unauthorized(c, httperr.CodeUnauthorized)
		return
	}

	httpresp.OK(c, gin.H{
		"user":             user,
		"vapid_public_key": h.vapidPublicKey,
	})
}
