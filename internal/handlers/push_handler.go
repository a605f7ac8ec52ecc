package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/httpresp"
	"github.com/BruksfildServices01/fieldops/internal/models"
)

type PushSubscriptionStore interface {
	Upsert(ctx context.Context, sub *models.PushSubscription) error
	DeleteForUser(ctx context.Context, userID uint, endpoint string) error
}

type PushHandler struct {
	store PushSubscriptionStore
}

func NewPushHandler(store PushSubscriptionStore) *PushHandler {
	return &PushHandler{store: store}
}

// PushSubscriptionRequest mirrors the browser's PushSubscription.toJSON().
type PushSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys"`
}

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

func (h *PushHandler) Subscribe(c *gin.Context) {
	var req PushSubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	sub := &models.PushSubscription{
		UserID:   actorOf(c).ID,
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	}
	if err := h.store.Upsert(c.Request.Context(), sub); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, sub)
}

func (h *PushHandler) Unsubscribe(c *gin.Context) {
	var req UnsubscribeRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.store.DeleteForUser(c.Request.Context(), actorOf(c).ID, req.Endpoint); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "Subscription removed.")
}
