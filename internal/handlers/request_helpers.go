package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/middleware"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
)

func actorOf(c *gin.Context) usecase.Actor {
	return usecase.ActorFrom(middleware.CurrentUser(c))
}

// idParam parses a positive path id, writing NOT_FOUND when it is malformed.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.NotFound(c)
		return 0, false
	}
	return uint(id), true
}

// bindJSON writes VALIDATION_ERROR when the body does not decode.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, err.Error())
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string) int {
	v, _ := strconv.Atoi(c.Query(key))
	return v
}

func queryUint(c *gin.Context, key string) *uint {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	id := uint(v)
	return &id
}
