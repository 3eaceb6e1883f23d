package calculations

import (
	"time"

	"github.com/penwyp/ClawMeter/models"
	"github.com/samber/lo"
)

// ActiveBlock returns the first block flagged active, in ccusage's order
func ActiveBlock(blocks []models.UsageBlock) (models.UsageBlock, bool) {
	return lo.Find(blocks, func(b models.UsageBlock) bool { return b.IsActive })
}

// TodayEntry returns the daily entry dated today, if any
func TodayEntry(daily []models.DailyEntry, today time.Time) (models.DailyEntry, bool) {
	return lo.Find(daily, func(e models.DailyEntry) bool {
		day, err := e.Day()
		return err == nil && day.Equal(today)
	})
}

// Snapshot derives the current usage from one blocks and one daily report.
// Session figures come from the active block and are zero without one; daily
// figures come from today's entry and are zero without one.
func Snapshot(blocks []models.UsageBlock, daily []models.DailyEntry, today time.Time) models.UsageStats {
	var stats models.UsageStats

	if active, ok := ActiveBlock(blocks); ok {
		stats.ActiveSession = true
		stats.CurrentTokens = active.TotalTokens
		stats.SessionCost = active.CostUSD
		if active.BurnRate != nil {
			rate := active.BurnRate.TokensPerMinuteForIndicator
			stats.BurnRate = &rate
		}
		stats.Model = models.UnknownModel
		if m, ok := active.PrimaryModel(); ok {
			stats.Model = m
		}
	} else {
		// blocks[0] is taken as the latest; the order ccusage emits blocks in is unconfirmed
		stats.Model = models.DefaultModel
		if len(blocks) > 0 {
			if m, ok := blocks[0].PrimaryModel(); ok {
				stats.Model = m
			}
		}
	}

	if entry, ok := TodayEntry(daily, today); ok {
		stats.DailyTokens = entry.TotalTokens
		stats.Cost = entry.TotalCost
	}

	return stats
}
