package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/httpresp"
	"github.com/BruksfildServices01/fieldops/internal/timezone"
	ucInvoice "github.com/BruksfildServices01/fieldops/internal/usecase/invoice"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ======================================================
// HANDLER
// ======================================================

type InvoiceHandler struct {
	create       *ucInvoice.CreateInvoiceFromJob
	updateStatus *ucInvoice.UpdateInvoiceStatus
	markPaid     *ucInvoice.MarkInvoicePaid
	get          *ucInvoice.GetInvoice
	list         *ucInvoice.ListInvoices
	pdf          *ucInvoice.RenderInvoicePDF
	export       *ucInvoice.ExportInvoices
	paymentLink  *ucInvoice.CreatePaymentLink
	tz           string
}

type InvoiceUseCases struct {
	Create       *ucInvoice.CreateInvoiceFromJob
	UpdateStatus *ucInvoice.UpdateInvoiceStatus
	MarkPaid     *ucInvoice.MarkInvoicePaid
	Get          *ucInvoice.GetInvoice
	List         *ucInvoice.ListInvoices
	PDF          *ucInvoice.RenderInvoicePDF
	Export       *ucInvoice.ExportInvoices
	PaymentLink  *ucInvoice.CreatePaymentLink
}

func NewInvoiceHandler(uc InvoiceUseCases, tz string) *InvoiceHandler {
	return &InvoiceHandler{
		create:       uc.Create,
		updateStatus: uc.UpdateStatus,
		markPaid:     uc.MarkPaid,
		get:          uc.Get,
		list:         uc.List,
		pdf:          uc.PDF,
		export:       uc.Export,
		paymentLink:  uc.PaymentLink,
		tz:           tz,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateInvoiceRequest struct {
	JobID *uint `json:"job_id"`
}

type UpdateInvoiceStatusRequest struct {
	Status   string `json:"status"`
	PaidDate string `json:"paid_date"`
}

// ======================================================
// CREATE
// ======================================================

func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	_ = c.ShouldBindJSON(&req)

	if req.JobID == nil || *req.JobID == 0 {
		httperr.BadRequest(c, httperr.CodeMissingJobID, httperr.MessageFor(httperr.CodeMissingJobID))
		return
	}

	inv, err := h.create.Execute(c.Request.Context(), actorOf(c), *req.JobID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, inv)
}

// ======================================================
// READ
// ======================================================

func (h *InvoiceHandler) List(c *gin.Context) {
	res, err := h.list.Execute(c.Request.Context(), ucInvoice.ListInvoicesInput{
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
		Status:     c.Query("status"),
		CustomerID: queryUint(c, "customer_id"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, res.Invoices, httpresp.NewPagination(res.Page, res.Limit, res.Total))
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	inv, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, inv)
}

// ======================================================
// STATUS
// ======================================================

func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateInvoiceStatusRequest
	_ = c.ShouldBindJSON(&req)

	var paidDate *time.Time
	if raw := strings.TrimSpace(req.PaidDate); raw != "" {
		t, err := parsePaidDate(raw, h.tz)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeValidation, "paid_date must be YYYY-MM-DD or RFC 3339.")
			return
		}
		paidDate = &t
	}

	inv, err := h.updateStatus.Execute(c.Request.Context(), actorOf(c), id, req.Status, paidDate)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, inv)
}

func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	inv, err := h.markPaid.Execute(c.Request.Context(), actorOf(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, inv)
}

func parsePaidDate(raw, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation(timezone.DateLayout, raw, timezone.Location(tz))
}

// ======================================================
// DOCUMENTS
// ======================================================

func (h *InvoiceHandler) PDF(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	inv, pdf, err := h.pdf.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.pdf"`, inv.InvoiceNumber))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Export defaults to the last 30 days when no range is given.
func (h *InvoiceHandler) Export(c *gin.Context) {
	from, to, ok := dateRange(c, h.tz, 30)
	if !ok {
		httperr.BadRequest(c, httperr.CodeValidation, "from/to must be YYYY-MM-DD with from <= to.")
		return
	}

	data, err := h.export.Execute(c.Request.Context(), from, to)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	name := fmt.Sprintf("invoices_%s_%s.xlsx",
		from.Format(timezone.DateLayout),
		to.AddDate(0, 0, -1).Format(timezone.DateLayout),
	)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ======================================================
// PAYMENTS
// ======================================================

func (h *InvoiceHandler) PaymentLink(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	inv, err := h.paymentLink.Execute(c.Request.Context(), actorOf(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, gin.H{
		"invoice_id":   inv.ID,
		"payment_link": inv.PaymentLink,
	})
}
