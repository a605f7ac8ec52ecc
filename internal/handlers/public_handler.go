package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/httpresp"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/timezone"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
	ucJob "github.com/BruksfildServices01/fieldops/internal/usecase/job"
	"github.com/BruksfildServices01/fieldops/internal/validators"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db        *gorm.DB
	createJob *ucJob.CreateJob
	tz        string

	// checkDomain is swapped in tests to avoid DNS lookups.
	checkDomain func(email string) bool
}

func NewPublicHandler(db *gorm.DB, createJob *ucJob.CreateJob, tz string) *PublicHandler {
	return &PublicHandler{
		db:          db,
		createJob:   createJob,
		tz:          tz,
		checkDomain: validators.IsEmailDomainValid,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type BookingRequest struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Email     string `json:"email"`
	Address   string `json:"address" binding:"required"`
	ServiceID uint   `json:"service_id" binding:"required"`
	JobDate   string `json:"job_date" binding:"required"` // YYYY-MM-DD
	JobTime   string `json:"job_time"`                    // HH:MM
	Notes     string `json:"notes"`
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	var services []models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("active = ?", true).
		Order("name ASC").
		Find(&services).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, services, nil)
}

////////////////////////////////////////////////////////
// BOOKING (REUSES JOB CREATION)
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	var req BookingRequest
	if !bindJSON(c, &req) {
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if email != "" && (!validators.IsEmail(email) || !h.checkDomain(email)) {
		httperr.BadRequest(c, httperr.CodeValidation, "The email domain does not look valid.")
		return
	}

	date, err := timezone.ParseDate(strings.TrimSpace(req.JobDate))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "job_date must be YYYY-MM-DD.")
		return
	}
	if date.Before(timezone.DateOf(timezone.NowIn(h.tz))) {
		httperr.BadRequest(c, httperr.CodeValidation, "job_date cannot be in the past.")
		return
	}

	customer, err := h.findOrCreateCustomer(c, req, email)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	j, err := h.createJob.Execute(c.Request.Context(), usecase.Actor{}, ucJob.CreateJobInput{
		CustomerID: customer.ID,
		ServiceID:  req.ServiceID,
		JobDate:    req.JobDate,
		JobTime:    req.JobTime,
		Location:   req.Address,
		Notes:      req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"job_id":   j.ID,
		"status":   j.Status,
		"job_date": j.JobDate.Format(timezone.DateLayout),
		"job_time": j.JobTime,
		"service":  j.Service.Name,
		"price":    j.ServicePrice,
	})
}

// findOrCreateCustomer matches returning customers by email, then phone.
func (h *PublicHandler) findOrCreateCustomer(c *gin.Context, req BookingRequest, email string) (*models.Customer, error) {
	db := h.db.WithContext(c.Request.Context())
	phone := strings.TrimSpace(req.Phone)

	var customer models.Customer
	q := db.Where("phone = ?", phone)
	if email != "" {
		q = db.Where("email = ?", email).Or("phone = ?", phone)
	}
	err := q.Order("id ASC").First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer = models.Customer{
		Name:    strings.TrimSpace(req.Name),
		Phone:   phone,
		Email:   email,
		Address: req.Address,
	}
	if err := db.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}
