package httperr

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/fieldops/internal/logging"
)

type HTTPError struct {
	Success       bool     `json:"success"`
	RequestID     string   `json:"requestId"`
	Message       string   `json:"error"`
	Code          string   `json:"code"`
	ValidStatuses []string `json:"validStatuses,omitempty"`
	Detail        string   `json:"detail,omitempty"`
}

// ExposeDetails controls whether raw store messages reach clients.
// It is switched off in production at startup.
var ExposeDetails = true

func Write(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		RequestID: logging.RequestID(c.Request.Context()),
		Message:   message,
		Code:      code,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, StatusFor(CodeValidation), code, message)
}

func NotFound(c *gin.Context) {
	Write(c, StatusFor(CodeNotFound), CodeNotFound, MessageFor(CodeNotFound))
}

func Internal(c *gin.Context, message string) {
	Write(c, StatusFor(CodeInternal), CodeInternal, message)
}

func Unauthorized(c *gin.Context, code string) {
	Write(c, StatusFor(code), code, MessageFor(code))
}

func Forbidden(c *gin.Context) {
	Write(c, StatusFor(CodeForbidden), CodeForbidden, MessageFor(CodeForbidden))
}

// Respond maps any error returned by a use case or the store onto the
// error envelope.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if errors.As(err, &be) {
		msg := be.Message
		if msg == "" {
			msg = MessageFor(be.Code)
		}
		c.AbortWithStatusJSON(StatusFor(be.Code), HTTPError{
			RequestID:     logging.RequestID(c.Request.Context()),
			Message:       msg,
			Code:          be.Code,
			ValidStatuses: be.ValidStatuses,
		})
		return
	}

	if se, ok := FromStore(err); ok {
		body := HTTPError{
			RequestID: logging.RequestID(c.Request.Context()),
			Message:   MessageFor(se.Code),
			Code:      se.Code,
		}
		if ExposeDetails {
			body.Detail = se.Raw
		}
		if se.Status >= 500 {
			logging.FromContext(c.Request.Context()).Error("store error", "code", se.Code, "error", err)
		}
		c.AbortWithStatusJSON(se.Status, body)
		return
	}

	logging.FromContext(c.Request.Context()).Error("unhandled error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.FullPath()),
		slog.Any("error", err),
	)
	_ = c.Error(err)
	Internal(c, MessageFor(CodeInternal))
}
