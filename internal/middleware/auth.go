package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/fieldops/internal/domain"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/logging"
	"github.com/BruksfildServices01/fieldops/internal/models"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextUser     = "user"
)

// UserLoader resolves the account behind a token on every request, so a
// suspension takes effect before the token expires.
type UserLoader interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// SignToken issues an HS256 token carrying sub, role, iat and exp.
func SignToken(secret string, ttl time.Duration, u *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(u.ID), 10),
		"role": strings.ToLower(u.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseToken(secret, raw string) (uint, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return 0, err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return 0, jwt.ErrTokenInvalidClaims
	}
	return uint(id), nil
}

// AuthMiddleware requires a bearer token. When allowQuery is set the token
// may also come from ?token=, which EventSource clients need.
func AuthMiddleware(secret string, users UserLoader, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c.GetHeader("Authorization"))
		if raw == "" && allowQuery {
			raw = c.Query("token")
		}
		if raw == "" {
			httperr.Unauthorized(c, httperr.CodeUnauthorized)
			return
		}

		userID, err := parseToken(secret, raw)
		if err != nil {
			httperr.Unauthorized(c, httperr.CodeUnauthorized)
			return
		}

		user, err := users.GetUser(c.Request.Context(), userID)
		if errors.Is(err, domain.ErrNotFound) {
			httperr.Unauthorized(c, httperr.CodeUnauthorized)
			return
		}
		if err != nil {
			logging.FromContext(c.Request.Context()).Error("load user failed", "user_id", userID, "error", err)
			httperr.Internal(c, httperr.MessageFor(httperr.CodeInternal))
			return
		}
		if !user.CanWork() {
			httperr.Unauthorized(c, httperr.CodeAccountDisabled)
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, strings.ToLower(user.Role))
		c.Set(ContextUser, user)

		c.Next()
	}
}

func bearer(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// CurrentUser returns the user loaded by AuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// RequireRole admits users holding any of roles, compared case-insensitively.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			httperr.Unauthorized(c, httperr.CodeUnauthorized)
			return
		}
		for _, r := range roles {
			if u.HasRole(r) {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c)
	}
}
