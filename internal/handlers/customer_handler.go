package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/fieldops/internal/audit"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/httpresp"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
	"github.com/BruksfildServices01/fieldops/internal/validators"
)

type CustomerHandler struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewCustomerHandler(db *gorm.DB, rec audit.Recorder) *CustomerHandler {
	return &CustomerHandler{db: db, audit: rec}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

// ======================================================
// LIST
// ======================================================

func (h *CustomerHandler) List(c *gin.Context) {
	page, limit := usecase.Page(queryInt(c, "page"), queryInt(c, "limit"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Model(&models.Customer{})
	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var customers []models.Customer
	if err := q.
		Order("name ASC, id ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&customers).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, customers, httpresp.NewPagination(page, limit, total))
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var customer models.Customer
	if err := h.db.WithContext(c.Request.Context()).First(&customer, id).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, customer)
}

// ======================================================
// CREATE / UPDATE
// ======================================================

func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer := models.Customer{
		Name:    strings.TrimSpace(req.Name),
		Phone:   strings.TrimSpace(req.Phone),
		Email:   validators.NormalizeEmail(req.Email),
		Address: req.Address,
		Notes:   req.Notes,
	}
	if !h.validEmail(c, customer.Email, 0) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&customer).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(c, h.audit, "customer_created", "customer", customer.ID, nil)
	httpresp.Created(c, customer)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var customer models.Customer
	if err := h.db.WithContext(c.Request.Context()).First(&customer, id).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var req UpdateCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, httperr.CodeValidation, "name cannot be empty.")
			return
		}
		customer.Name = name
	}
	if req.Phone != nil {
		customer.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		customer.Email = validators.NormalizeEmail(*req.Email)
		if !h.validEmail(c, customer.Email, customer.ID) {
			return
		}
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&customer).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(c, h.audit, "customer_updated", "customer", customer.ID, nil)
	httpresp.OK(c, customer)
}

// validEmail rejects malformed addresses and addresses already used by
// another live customer.
func (h *CustomerHandler) validEmail(c *gin.Context, email string, self uint) bool {
	if email == "" {
		return true
	}
	if !validators.IsEmail(email) {
		httperr.BadRequest(c, httperr.CodeValidation, "email is not a valid address.")
		return false
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Customer{}).
		Where("email = ? AND id <> ?", email, self).
		Count(&count).Error; err != nil {
		httperr.Respond(c, err)
		return false
	}
	if count > 0 {
		httperr.BadRequest(c, httperr.CodeDuplicateEntry, "A customer with this email already exists.")
		return false
	}
	return true
}

// ======================================================
// DELETE
// ======================================================

// Delete is a soft delete; jobs and invoices keep resolving the customer.
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Customer{}, id)
	if res.Error != nil {
		httperr.Respond(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c)
		return
	}

	writeAudit(c, h.audit, "customer_deleted", "customer", id, nil)
	httpresp.Message(c, "Customer deleted.")
}
