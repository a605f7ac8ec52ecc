package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/httpresp"
	"github.com/BruksfildServices01/fieldops/internal/logging"
	ucInvoice "github.com/BruksfildServices01/fieldops/internal/usecase/invoice"
)

type WebhookHandler struct {
	payments *ucInvoice.HandlePaymentNotification
}

func NewWebhookHandler(payments *ucInvoice.HandlePaymentNotification) *WebhookHandler {
	return &WebhookHandler{payments: payments}
}

type mercadoPagoNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// MercadoPago acknowledges every notification that is not about a payment.
// Lookup failures return 5xx so the provider retries.
func (h *WebhookHandler) MercadoPago(c *gin.Context) {
	var body mercadoPagoNotification
	_ = c.ShouldBindJSON(&body)

	kind := firstNonEmpty(body.Type, c.Query("type"), c.Query("topic"))
	rawID := firstNonEmpty(body.Data.ID, c.Query("data.id"), c.Query("id"))

	if kind != "payment" {
		httpresp.OK(c, gin.H{"processed": false})
		return
	}

	paymentID, err := strconv.Atoi(strings.TrimSpace(rawID))
	if err != nil || paymentID <= 0 {
		logging.FromContext(c.Request.Context()).Warn("payment notification without id", "raw_id", rawID)
		httpresp.OK(c, gin.H{"processed": false})
		return
	}

	paid, err := h.payments.Execute(c.Request.Context(), paymentID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, gin.H{"processed": paid})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
