package repository

import (
	"context"
	"sync"
	"time"

	"github.com/penwyp/ClawMeter/calculations"
	"github.com/penwyp/ClawMeter/models"
)

// Snapshot is the outcome of one monitor refresh
type Snapshot struct {
	Stats       models.UsageStats
	Summary     models.UsagePeriodSummary
	Err         error
	FetchedAt   time.Time
	LastSuccess time.Time
}

// Monitor refreshes usage on demand for long-running views and remembers the
// last successful figures so a failed refresh can still show them
type Monitor struct {
	repo   UsageRepository
	period string
	now    func() time.Time

	mu   sync.RWMutex
	last Snapshot
}

// NewMonitor creates a monitor summarizing period alongside the current usage
func NewMonitor(repo UsageRepository, period string) *Monitor {
	return &Monitor{repo: repo, period: period, now: time.Now}
}

// rawSource hands over parsed ccusage output so both figures can be built
// from a single `ccusage daily` run
type rawSource interface {
	Blocks(ctx context.Context) ([]models.UsageBlock, error)
	Daily(ctx context.Context) ([]models.DailyEntry, error)
	Today() time.Time
}

// Refresh queries the repository once. Failures are recorded on the returned
// snapshot; the previous figures are kept.
func (m *Monitor) Refresh(ctx context.Context) Snapshot {
	stats, summary, err := m.fetch(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if err != nil {
		m.last.Err = err
		m.last.FetchedAt = now
		return m.last
	}

	m.last = Snapshot{
		Stats:       stats,
		Summary:     summary,
		FetchedAt:   now,
		LastSuccess: now,
	}
	return m.last
}

func (m *Monitor) fetch(ctx context.Context) (models.UsageStats, models.UsagePeriodSummary, error) {
	src, ok := m.repo.(rawSource)
	if !ok {
		stats, err := m.repo.GetCurrentUsage(ctx)
		if err != nil {
			return models.UsageStats{}, models.UsagePeriodSummary{}, err
		}
		summary, err := m.repo.GetUsageSummary(ctx, m.period)
		return stats, summary, err
	}

	blocks, err := src.Blocks(ctx)
	if err != nil {
		return models.UsageStats{}, models.UsagePeriodSummary{}, err
	}
	daily, err := src.Daily(ctx)
	if err != nil {
		return models.UsageStats{}, models.UsagePeriodSummary{}, err
	}
	today := src.Today()
	summary, err := calculations.Summarize(m.period, daily, today)
	if err != nil {
		return models.UsageStats{}, models.UsagePeriodSummary{}, err
	}
	return calculations.Snapshot(blocks, daily, today), summary, nil
}

// Last returns the most recent snapshot without querying
func (m *Monitor) Last() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

// Period returns the summarized period
func (m *Monitor) Period() string {
	return m.period
}
