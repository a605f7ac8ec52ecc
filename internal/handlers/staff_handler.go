package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/fieldops/internal/audit"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/httpresp"
	"github.com/BruksfildServices01/fieldops/internal/middleware"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type StaffHandler struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewStaffHandler(db *gorm.DB, rec audit.Recorder) *StaffHandler {
	return &StaffHandler{db: db, audit: rec}
}

type CreateStaffRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// ======================================================
// LIST / CREATE
// ======================================================

// List returns staff and admins. ?include_terminated=true adds former staff.
func (h *StaffHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())
	if c.Query("include_terminated") != "true" {
		q = q.Where("terminated_at IS NULL")
	}

	var users []models.User
	if err := q.Order("name ASC").Find(&users).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, users, nil)
}

func (h *StaffHandler) Create(c *gin.Context) {
	var req CreateStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	switch role {
	case "":
		role = models.RoleStaff
	case models.RoleStaff, models.RoleAdmin:
	default:
		httperr.BadRequest(c, httperr.CodeValidation, "role must be staff or admin.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        validators.NormalizeEmail(req.Email),
		PasswordHash: string(hashed),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
		Active:       true,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(c, h.audit, "staff_onboarded", "user", user.ID, gin.H{"role": role})
	httpresp.Created(c, user)
}

// ======================================================
// LIFECYCLE
// ======================================================

func (h *StaffHandler) Suspend(c *gin.Context) {
	h.transition(c, "staff_suspended", func(u *models.User) error {
		if u.TerminatedAt != nil {
			return httperr.ErrBusinessMsg(httperr.CodeValidation, "Staff member is terminated.")
		}
		u.Active = false
		return nil
	})
}

func (h *StaffHandler) Reactivate(c *gin.Context) {
	h.transition(c, "staff_reactivated", func(u *models.User) error {
		if u.TerminatedAt != nil {
			return httperr.ErrBusinessMsg(httperr.CodeValidation, "Terminated staff cannot be reactivated.")
		}
		u.Active = true
		return nil
	})
}

// Terminate also unassigns the member's upcoming scheduled jobs so they show
// up as unassigned on the board.
func (h *StaffHandler) Terminate(c *gin.Context) {
	h.transition(c, "staff_terminated", func(u *models.User) error {
		if u.TerminatedAt != nil {
			return nil
		}
		now := time.Now().UTC()
		u.Active = false
		u.TerminatedAt = &now
		return nil
	}, func(tx *gorm.DB, u *models.User) error {
		return tx.Model(&models.Job{}).
			Where("assigned_to = ? AND status = ?", u.ID, "scheduled").
			Update("assigned_to", nil).Error
	})
}

func (h *StaffHandler) transition(
	c *gin.Context,
	action string,
	apply func(u *models.User) error,
	after ...func(tx *gorm.DB, u *models.User) error,
) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if me := middleware.CurrentUser(c); me != nil && me.ID == id {
		httperr.BadRequest(c, httperr.CodeValidation, "You cannot change your own account status.")
		return
	}

	var user models.User
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		if err := apply(&user); err != nil {
			return err
		}
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		for _, fn := range after {
			if err := fn(tx, &user); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(c, h.audit, action, "user", user.ID, nil)
	httpresp.OK(c, user)
}
