package chatlog

import (
	"time"

	"github.com/wechat-daily-report/internal/models"
)

// DefaultBoundaryHour anchors daily report windows at 05:00 instead of
// midnight, so late-night conversation lands in the day it belongs to.
const DefaultBoundaryHour = 5

// ResolveWindow maps a calendar report date to the half-open datetime
// interval the report covers: boundary hour on the report date up to the
// boundary hour of the following day.
func ResolveWindow(reportDate time.Time, boundaryHour int) models.ReportWindow {
	start := time.Date(
		reportDate.Year(), reportDate.Month(), reportDate.Day(),
		boundaryHour, 0, 0, 0, reportDate.Location(),
	)
	return models.ReportWindow{
		Start: start,
		End:   start.AddDate(0, 0, 1),
	}
}
