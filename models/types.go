package models

import (
	"time"
)

// UsageStats is a point-in-time snapshot of Claude usage as reported by ccusage
type UsageStats struct {
	ActiveSession bool     `json:"active_session"`
	CurrentTokens uint64   `json:"current_tokens"`
	DailyTokens   uint64   `json:"daily_tokens"`
	Cost          float64  `json:"cost"`
	Model         string   `json:"model"`
	SessionCost   float64  `json:"session_cost"`
	BurnRate      *float64 `json:"burn_rate"`
}

// HasBurnRate reports whether a burn rate indicator is present
func (s UsageStats) HasBurnRate() bool {
	return s.BurnRate != nil
}

// UsagePeriodSummary aggregates daily entries over a day, week or month window
type UsagePeriodSummary struct {
	Period          string  `json:"period"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	Days            uint    `json:"days"`
	TotalTokens     uint64  `json:"total_tokens"`
	TotalCost       float64 `json:"total_cost"`
	AvgTokensPerDay float64 `json:"avg_tokens_per_day"`
	AvgCostPerDay   float64 `json:"avg_cost_per_day"`
}

// TokenCounts breaks a block's tokens down by kind
type TokenCounts struct {
	InputTokens              uint64 `json:"input_tokens"`
	OutputTokens             uint64 `json:"output_tokens"`
	CacheCreationInputTokens uint64 `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     uint64 `json:"cache_read_input_tokens"`
}

// Total returns the sum of all token kinds
func (tc TokenCounts) Total() uint64 {
	return tc.InputTokens + tc.OutputTokens + tc.CacheCreationInputTokens + tc.CacheReadInputTokens
}

// BurnRate is the consumption rate of an active block
type BurnRate struct {
	TokensPerMinute             float64 `json:"tokens_per_minute"`
	TokensPerMinuteForIndicator float64 `json:"tokens_per_minute_for_indicator"`
	CostPerHour                 float64 `json:"cost_per_hour"`
}

// Projection is ccusage's estimate for the remainder of an active block
type Projection struct {
	TotalTokens      uint64  `json:"total_tokens"`
	TotalCost        float64 `json:"total_cost"`
	RemainingMinutes float64 `json:"remaining_minutes"`
}

// UsageBlock represents one ccusage reporting block (a 5-hour session window).
// Values only live for the duration of a single invocation.
type UsageBlock struct {
	ID            string      `json:"id"`
	StartTime     string      `json:"start_time"`
	EndTime       string      `json:"end_time"`
	ActualEndTime *string     `json:"actual_end_time,omitempty"`
	IsActive      bool        `json:"is_active"`
	IsGap         bool        `json:"is_gap"`
	Entries       uint64      `json:"entries"`
	TokenCounts   TokenCounts `json:"token_counts"`
	TotalTokens   uint64      `json:"total_tokens"`
	CostUSD       float64     `json:"cost_usd"`
	Models        []string    `json:"models"`
	BurnRate      *BurnRate   `json:"burn_rate,omitempty"`
	Projection    *Projection `json:"projection,omitempty"`
}

// PrimaryModel returns the first listed model, if any
func (b UsageBlock) PrimaryModel() (string, bool) {
	if len(b.Models) == 0 {
		return "", false
	}
	return b.Models[0], true
}

// DailyEntry is one calendar day of usage as reported by ccusage
type DailyEntry struct {
	Date        string   `json:"date"`
	TotalTokens uint64   `json:"total_tokens"`
	TotalCost   float64  `json:"total_cost"`
	ModelsUsed  []string `json:"models_used"`
}

// Day parses the entry date as a calendar date
func (d DailyEntry) Day() (time.Time, error) {
	return ParseDate(d.Date)
}
