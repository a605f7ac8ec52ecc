package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/fieldops/internal/audit"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/httpresp"
	"github.com/BruksfildServices01/fieldops/internal/models"
)

type ServiceHandler struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewServiceHandler(db *gorm.DB, rec audit.Recorder) *ServiceHandler {
	return &ServiceHandler{db: db, audit: rec}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"gte=0"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------

// List returns every service; ?active=true|false filters.
func (h *ServiceHandler) List(c *gin.Context) {
	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context())

	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, services, nil)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	service := models.Service{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Active:      true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(c, h.audit, "service_created", "service", service.ID, gin.H{"price": service.Price})
	httpresp.Created(c, service)
}

// Update never touches jobs already booked; they keep their price snapshot.
func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var service models.Service
	if err := h.db.WithContext(c.Request.Context()).First(&service, id).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			httperr.BadRequest(c, httperr.CodeValidation, "price cannot be negative.")
			return
		}
		service.Price = *req.Price
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&service).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(c, h.audit, "service_updated", "service", service.ID, req)
	httpresp.OK(c, service)
}
