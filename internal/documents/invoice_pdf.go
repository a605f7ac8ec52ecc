package documents

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/BruksfildServices01/fieldops/internal/config"
	"github.com/BruksfildServices01/fieldops/internal/models"
)

const dateLayout = "Jan 2, 2006"

// InvoicePDF renders a single-page A4 invoice. inv must have Customer and
// Job.Service preloaded for the line item to be descriptive.
func InvoicePDF(inv *models.Invoice, biz config.Business) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+inv.InvoiceNumber, true)
	pdf.SetAuthor(biz.Name, true)
	pdf.AddPage()

	// ---- header ----
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(110, 10, biz.Name, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "INVOICE", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{biz.Address, biz.Email, biz.Phone} {
		if line != "" {
			pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(6)

	// ---- meta ----
	meta := [][2]string{
		{"Invoice #", inv.InvoiceNumber},
		{"Issued", inv.IssuedAt.Format(dateLayout)},
		{"Due", inv.DueDate.Format(dateLayout)},
		{"Status", inv.Status},
	}
	if inv.PaidDate != nil {
		meta = append(meta, [2]string{"Paid", inv.PaidDate.Format(dateLayout)})
	}
	for _, kv := range meta {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(30, 6, kv[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, kv[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ---- bill to ----
	if c := inv.Customer; c != nil {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, "Bill to", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, line := range []string{c.Name, c.Address, c.Email, c.Phone} {
			if line != "" {
				pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
			}
		}
		pdf.Ln(6)
	}

	// ---- line item ----
	description := "Cleaning service"
	serviceDate := ""
	location := ""
	if j := inv.Job; j != nil {
		if j.Service.Name != "" {
			description = j.Service.Name
		}
		serviceDate = j.JobDate.Format(dateLayout)
		location = j.Location
	}

	pdf.SetFillColor(235, 235, 235)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 8, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(0, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(90, 8, description, "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 8, serviceDate, "1", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("%.2f", inv.Amount), "1", 1, "R", false, 0, "")

	if location != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 6, "Location: "+location, "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(125, 9, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(0, 9, fmt.Sprintf("%.2f", inv.Amount), "", 1, "R", false, 0, "")

	if inv.PaymentLink != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "U", 10)
		pdf.SetTextColor(30, 80, 200)
		pdf.CellFormat(0, 6, "Pay online", "", 1, "L", false, 0, inv.PaymentLink)
		pdf.SetTextColor(0, 0, 0)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
