package documents

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/BruksfildServices01/fieldops/internal/config"
	"github.com/BruksfildServices01/fieldops/internal/models"
)

func sampleInvoice() models.Invoice {
	issued := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	paid := issued.AddDate(0, 0, 3)
	return models.Invoice{
		ID:            1,
		InvoiceNumber: "INV-000001",
		Amount:        120,
		Status:        "paid",
		IssuedAt:      issued,
		DueDate:       issued.AddDate(0, 0, 14),
		PaidDate:      &paid,
		Customer:      &models.Customer{Name: "Rita", Email: "rita@example.com"},
		Job: &models.Job{
			JobDate: issued.AddDate(0, 0, -1),
			Service: models.Service{Name: "Deep clean", Price: 120},
		},
	}
}

func TestInvoicePDF(t *testing.T) {
	inv := sampleInvoice()
	out, err := InvoicePDF(&inv, config.Business{Name: "Sparkle Cleaning Co.", Email: "hi@sparkle.test"})
	if err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("expected a PDF document, got %q", out[:min(len(out), 8)])
	}
}

func TestInvoicePDFWithoutJoins(t *testing.T) {
	inv := sampleInvoice()
	inv.Customer, inv.Job, inv.PaidDate = nil, nil, nil
	if _, err := InvoicePDF(&inv, config.Business{Name: "Sparkle"}); err != nil {
		t.Fatalf("render pdf without joins: %v", err)
	}
}

func TestInvoicesXLSX(t *testing.T) {
	second := sampleInvoice()
	second.InvoiceNumber = "INV-000002"
	second.Status = "unpaid"
	second.PaidDate = nil
	second.Customer = nil

	out, err := InvoicesXLSX([]models.Invoice{sampleInvoice(), second})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Invoice #" {
		t.Fatalf("unexpected header %v", rows[0])
	}

	want := []string{"INV-000001", "Rita", "Deep clean", "2026-02-28", "120", "paid", "2026-03-01", "2026-03-15", "2026-03-04"}
	for i, v := range want {
		if rows[1][i] != v {
			t.Fatalf("column %d: expected %q, got %q (row %v)", i, v, rows[1][i], rows[1])
		}
	}
	if rows[2][1] != "" || rows[2][5] != "unpaid" {
		t.Fatalf("unexpected second row %v", rows[2])
	}
}
