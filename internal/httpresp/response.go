package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/fieldops/internal/logging"
)

type Envelope struct {
	Success    bool        `json:"success"`
	RequestID  string      `json:"requestId"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Message    string      `json:"message,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(page, limit int, total int64) *Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

func write(c *gin.Context, status int, env Envelope) {
	env.Success = true
	env.RequestID = logging.RequestID(c.Request.Context())
	c.JSON(status, env)
}

func OK(c *gin.Context, data any) {
	write(c, http.StatusOK, Envelope{Data: data})
}

func Created(c *gin.Context, data any) {
	write(c, http.StatusCreated, Envelope{Data: data})
}

func Message(c *gin.Context, msg string) {
	write(c, http.StatusOK, Envelope{Message: msg})
}

func List[T any](c *gin.Context, data []T, p *Pagination) {
	if data == nil {
		data = []T{}
	}
	write(c, http.StatusOK, Envelope{Data: data, Pagination: p})
}
