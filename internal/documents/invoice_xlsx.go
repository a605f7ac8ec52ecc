package documents

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/BruksfildServices01/fieldops/internal/models"
)

const exportSheet = "Sheet1"

var exportHeader = []any{
	"Invoice #", "Customer", "Service", "Job date", "Amount", "Status", "Issued", "Due", "Paid",
}

// InvoicesXLSX writes one row per invoice under a header row.
func InvoicesXLSX(invoices []models.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}

	for i, inv := range invoices {
		customer, service, jobDate := "", "", ""
		if inv.Customer != nil {
			customer = inv.Customer.Name
		}
		if inv.Job != nil {
			service = inv.Job.Service.Name
			jobDate = inv.Job.JobDate.Format("2006-01-02")
		}
		paid := ""
		if inv.PaidDate != nil {
			paid = inv.PaidDate.Format("2006-01-02")
		}

		row := []any{
			inv.InvoiceNumber,
			customer,
			service,
			jobDate,
			inv.Amount,
			inv.Status,
			inv.IssuedAt.Format("2006-01-02"),
			inv.DueDate.Format("2006-01-02"),
			paid,
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
