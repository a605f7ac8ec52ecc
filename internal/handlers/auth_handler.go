package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/fieldops/internal/domain"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/httpresp"
	"github.com/BruksfildServices01/fieldops/internal/middleware"
	"github.com/BruksfildServices01/fieldops/internal/models"
)

type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type AuthHandler struct {
	users     CredentialStore
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthHandler(users CredentialStore, jwtSecret string, jwtExpiry time.Duration) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret, jwtExpiry: jwtExpiry}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		httperr.Unauthorized(c, httperr.CodeInvalidCreds)
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, httperr.CodeInvalidCreds)
		return
	}
	if !user.CanWork() {
		httperr.Unauthorized(c, httperr.CodeAccountDisabled)
		return
	}

	token, err := middleware.SignToken(h.jwtSecret, h.jwtExpiry, user)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"token": token,
		"user":  user,
	})
}
