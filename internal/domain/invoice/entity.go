package invoice

import (
	"fmt"
	"math"
	"time"

	"github.com/BruksfildServices01/fieldops/internal/models"
)

const numberPrefix = "INV-"

// FormatNumber renders the sequential invoice number, e.g. 1 → INV-000001.
func FormatNumber(seq uint) string {
	return fmt.Sprintf("%s%06d", numberPrefix, seq)
}

// NextNumber derives the next number from the highest invoice id ever issued.
func NextNumber(maxID uint) string {
	return FormatNumber(maxID + 1)
}

// AmountFor returns the billable amount of a job: the price captured when the
// job was booked, the current service price when no snapshot exists, or 0
// when the service is gone.
func AmountFor(j *models.Job, svc *models.Service) float64 {
	if j.ServicePrice > 0 {
		return round2(j.ServicePrice)
	}
	if svc != nil {
		return round2(svc.Price)
	}
	return 0
}

// ApplyStatus sets status and paid date. Amount is never touched.
// paidDate, when nil and status is paid, defaults to now.
func ApplyStatus(inv *models.Invoice, st Status, paidDate *time.Time, now time.Time) bool {
	prev := Status(inv.Status)

	inv.Status = string(st)
	switch {
	case paidDate != nil:
		pd := *paidDate
		inv.PaidDate = &pd
	case st == StatusPaid:
		if prev != StatusPaid || inv.PaidDate == nil {
			inv.PaidDate = &now
		}
	default:
		inv.PaidDate = nil
	}

	return prev != st
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
