package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/fieldops/internal/timezone"
)

// dateRange reads ?from=&to= as business-timezone dates. to is inclusive, so
// the returned upper bound is the start of the following day.
func dateRange(c *gin.Context, tz string, defaultDays int) (time.Time, time.Time, bool) {
	loc := timezone.Location(tz)
	y, m, d := timezone.NowIn(tz).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	from := today.AddDate(0, 0, -defaultDays)
	to := today

	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		d, err := time.ParseInLocation(timezone.DateLayout, raw, loc)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		from = d
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		d, err := time.ParseInLocation(timezone.DateLayout, raw, loc)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		to = d
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, false
	}
	return from, to.AddDate(0, 0, 1), true
}
