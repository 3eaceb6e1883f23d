package calculations

import (
	"time"

	apperrors "github.com/penwyp/ClawMeter/errors"
	"github.com/penwyp/ClawMeter/logging"
	"github.com/penwyp/ClawMeter/models"
	"github.com/samber/lo"
)

// Window returns the inclusive date window of period ending on today.
// today must be a calendar date as produced by models.CalendarDate.
func Window(period models.Period, today time.Time) (models.DateWindow, error) {
	var start time.Time

	switch period {
	case models.PeriodWeek:
		// trailing seven days, not an aligned calendar week
		start = today.AddDate(0, 0, -6)
	case models.PeriodMonth:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	default:
		start = today
	}

	if start.After(today) {
		return models.DateWindow{}, apperrors.InvalidDate(
			models.FormatDate(start) + " is after " + models.FormatDate(today))
	}

	days := uint(today.Sub(start).Hours()/24) + 1
	return models.DateWindow{Start: start, End: today, Days: days}, nil
}

// InWindow returns the entries whose date falls within w.
// Entries with unparseable dates are skipped.
func InWindow(entries []models.DailyEntry, w models.DateWindow) []models.DailyEntry {
	return lo.Filter(entries, func(e models.DailyEntry, _ int) bool {
		day, err := e.Day()
		if err != nil {
			logging.LogDebugf("Skipping daily entry with invalid date %q: %v", e.Date, err)
			return false
		}
		return w.Contains(day)
	})
}

// Summarize aggregates daily entries over the window selected by period.
// The raw period string is echoed back; unknown values use the day window.
func Summarize(period string, entries []models.DailyEntry, today time.Time) (models.UsagePeriodSummary, error) {
	w, err := Window(models.ParsePeriod(period), today)
	if err != nil {
		return models.UsagePeriodSummary{}, err
	}

	matched := InWindow(entries, w)
	totalTokens := lo.SumBy(matched, func(e models.DailyEntry) uint64 { return e.TotalTokens })
	totalCost := lo.SumBy(matched, func(e models.DailyEntry) float64 { return e.TotalCost })

	summary := models.UsagePeriodSummary{
		Period:      period,
		StartDate:   models.FormatDate(w.Start),
		EndDate:     models.FormatDate(w.End),
		Days:        w.Days,
		TotalTokens: totalTokens,
		TotalCost:   totalCost,
	}
	if w.Days > 0 {
		summary.AvgTokensPerDay = float64(totalTokens) / float64(w.Days)
		summary.AvgCostPerDay = totalCost / float64(w.Days)
	}
	return summary, nil
}

// DailyPoint is the usage of one date in a window
type DailyPoint struct {
	Date   time.Time `json:"date"`
	Tokens uint64    `json:"tokens"`
	Cost   float64   `json:"cost"`
}

// DailySeries returns one point per date of w in ascending order, zero-filled
// for dates without an entry. Duplicate dates are summed.
func DailySeries(entries []models.DailyEntry, w models.DateWindow) []DailyPoint {
	byDate := make(map[string]DailyPoint)
	for _, e := range InWindow(entries, w) {
		p := byDate[e.Date]
		p.Tokens += e.TotalTokens
		p.Cost += e.TotalCost
		byDate[e.Date] = p
	}

	return lo.Map(w.Dates(), func(d time.Time, _ int) DailyPoint {
		p := byDate[models.FormatDate(d)]
		p.Date = d
		return p
	})
}
