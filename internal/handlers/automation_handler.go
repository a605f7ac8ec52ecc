package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/fieldops/internal/audit"
	"github.com/BruksfildServices01/fieldops/internal/domain"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/httpresp"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/notify"
)

type AutomationRepository interface {
	List(ctx context.Context) ([]models.Automation, error)
	Get(ctx context.Context, id uint) (*models.Automation, error)
	Create(ctx context.Context, a *models.Automation) error
	Save(ctx context.Context, a *models.Automation) error
	Delete(ctx context.Context, id uint) error
}

type AutomationHandler struct {
	repo  AutomationRepository
	audit audit.Recorder
}

func NewAutomationHandler(repo AutomationRepository, rec audit.Recorder) *AutomationHandler {
	return &AutomationHandler{repo: repo, audit: rec}
}

// --------- Requests ---------

type CreateAutomationRequest struct {
	Name            string `json:"name" binding:"required"`
	TriggerEvent    string `json:"trigger_event"`
	Channel         string `json:"channel"`
	Subject         string `json:"subject"`
	MessageTemplate string `json:"message_template" binding:"required"`
	Enabled         *bool  `json:"enabled"`
}

type UpdateAutomationRequest struct {
	Name            *string `json:"name"`
	TriggerEvent    *string `json:"trigger_event"`
	Channel         *string `json:"channel"`
	Subject         *string `json:"subject"`
	MessageTemplate *string `json:"message_template"`
	Enabled         *bool   `json:"enabled"`
}

// --------- Handlers ---------

func (h *AutomationHandler) List(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, items, nil)
}

// Triggers lists the events and channels an automation may use.
func (h *AutomationHandler) Triggers(c *gin.Context) {
	httpresp.OK(c, gin.H{
		"triggers": notify.Triggers(),
		"channels": []notify.Channel{
			notify.ChannelEmail,
			notify.ChannelSMS,
			notify.ChannelWhatsApp,
			notify.ChannelPush,
		},
	})
}

func (h *AutomationHandler) Create(c *gin.Context) {
	var req CreateAutomationRequest
	if !bindJSON(c, &req) {
		return
	}

	trigger, err := notify.ParseTrigger(req.TriggerEvent)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	channel, err := notify.ParseChannel(req.Channel)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	a := &models.Automation{
		Name:            strings.TrimSpace(req.Name),
		TriggerEvent:    trigger,
		Channel:         string(channel),
		Subject:         req.Subject,
		MessageTemplate: req.MessageTemplate,
		Enabled:         req.Enabled == nil || *req.Enabled,
	}
	if err := h.repo.Create(c.Request.Context(), a); err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(c, h.audit, "automation_created", "automation", a.ID, gin.H{"trigger_event": trigger, "channel": channel})
	httpresp.Created(c, a)
}

func (h *AutomationHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	a, err := h.repo.Get(c.Request.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		httperr.NotFound(c)
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req UpdateAutomationRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.TriggerEvent != nil {
		trigger, err := notify.ParseTrigger(*req.TriggerEvent)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		a.TriggerEvent = trigger
	}
	if req.Channel != nil {
		channel, err := notify.ParseChannel(*req.Channel)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		a.Channel = string(channel)
	}
	if req.Name != nil {
		a.Name = strings.TrimSpace(*req.Name)
	}
	if req.Subject != nil {
		a.Subject = *req.Subject
	}
	if req.MessageTemplate != nil {
		if strings.TrimSpace(*req.MessageTemplate) == "" {
			httperr.BadRequest(c, httperr.CodeValidation, "message_template cannot be empty.")
			return
		}
		a.MessageTemplate = *req.MessageTemplate
	}
	if req.Enabled != nil {
		a.Enabled = *req.Enabled
	}

	if err := h.repo.Save(c.Request.Context(), a); err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(c, h.audit, "automation_updated", "automation", a.ID, nil)
	httpresp.OK(c, a)
}

func (h *AutomationHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	err := h.repo.Delete(c.Request.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		httperr.NotFound(c)
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(c, h.audit, "automation_deleted", "automation", id, nil)
	httpresp.Message(c, "Automation deleted.")
}
