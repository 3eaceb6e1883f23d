// Package parser decodes ccusage's JSON reports into internal records.
// Unknown fields are ignored so newer ccusage releases keep working.
package parser

import (
	"fmt"

	"github.com/bytedance/sonic"
	apperrors "github.com/penwyp/ClawMeter/errors"
	"github.com/penwyp/ClawMeter/models"
	"github.com/tidwall/gjson"
)

type tokenCounts struct {
	InputTokens              uint64 `json:"inputTokens"`
	OutputTokens             uint64 `json:"outputTokens"`
	CacheCreationInputTokens uint64 `json:"cacheCreationInputTokens"`
	CacheReadInputTokens     uint64 `json:"cacheReadInputTokens"`
}

type burnRate struct {
	TokensPerMinute             float64 `json:"tokensPerMinute"`
	TokensPerMinuteForIndicator float64 `json:"tokensPerMinuteForIndicator"`
	CostPerHour                 float64 `json:"costPerHour"`
}

type projection struct {
	TotalTokens      uint64  `json:"totalTokens"`
	TotalCost        float64 `json:"totalCost"`
	RemainingMinutes float64 `json:"remainingMinutes"`
}

type block struct {
	ID            string      `json:"id"`
	StartTime     string      `json:"startTime"`
	EndTime       string      `json:"endTime"`
	ActualEndTime *string     `json:"actualEndTime"`
	IsActive      bool        `json:"isActive"`
	IsGap         bool        `json:"isGap"`
	Entries       uint64      `json:"entries"`
	TokenCounts   tokenCounts `json:"tokenCounts"`
	TotalTokens   uint64      `json:"totalTokens"`
	CostUSD       float64     `json:"costUSD"`
	Models        []string    `json:"models"`
	BurnRate      *burnRate   `json:"burnRate"`
	Projection    *projection `json:"projection"`
}

type blocksResponse struct {
	Blocks []block `json:"blocks"`
}

type dailyEntry struct {
	Date        string   `json:"date"`
	TotalTokens uint64   `json:"totalTokens"`
	TotalCost   float64  `json:"totalCost"`
	ModelsUsed  []string `json:"modelsUsed"`
}

type dailyResponse struct {
	Daily []dailyEntry `json:"daily"`
}

// Required keys, checked on every element. Optional objects, when present
// and not null, must carry all of their keys.
var (
	blockRequired = []string{
		"id", "startTime", "endTime", "isActive", "isGap", "entries",
		"tokenCounts", "totalTokens", "costUSD", "models",
	}
	tokenCountsRequired = []string{"inputTokens", "outputTokens", "cacheCreationInputTokens", "cacheReadInputTokens"}
	burnRateRequired    = []string{"tokensPerMinute", "tokensPerMinuteForIndicator", "costPerHour"}
	projectionRequired  = []string{"totalTokens", "totalCost", "remainingMinutes"}
	dailyRequired       = []string{"date", "totalTokens", "totalCost", "modelsUsed"}
)

// ParseBlocks decodes the output of `ccusage blocks --json`
func ParseBlocks(data []byte) ([]models.UsageBlock, error) {
	var resp blocksResponse
	if err := sonic.Unmarshal(data, &resp); err != nil {
		return nil, apperrors.MalformedResponse(models.CommandBlocks, err)
	}
	if err := validateBlocks(data); err != nil {
		return nil, apperrors.MalformedResponse(models.CommandBlocks, err)
	}

	blocks := make([]models.UsageBlock, 0, len(resp.Blocks))
	for _, b := range resp.Blocks {
		blocks = append(blocks, b.toModel())
	}
	return blocks, nil
}

// ParseDaily decodes the output of `ccusage daily --json`
func ParseDaily(data []byte) ([]models.DailyEntry, error) {
	var resp dailyResponse
	if err := sonic.Unmarshal(data, &resp); err != nil {
		return nil, apperrors.MalformedResponse(models.CommandDaily, err)
	}
	if err := validateDaily(data); err != nil {
		return nil, apperrors.MalformedResponse(models.CommandDaily, err)
	}

	entries := make([]models.DailyEntry, 0, len(resp.Daily))
	for _, d := range resp.Daily {
		entries = append(entries, models.DailyEntry{
			Date:        d.Date,
			TotalTokens: d.TotalTokens,
			TotalCost:   d.TotalCost,
			ModelsUsed:  d.ModelsUsed,
		})
	}
	return entries, nil
}

func validateBlocks(data []byte) error {
	root := gjson.ParseBytes(data)
	list, err := requireArray(root, "blocks")
	if err != nil {
		return err
	}

	var verr error
	list.ForEach(func(key, value gjson.Result) bool {
		at := fmt.Sprintf("blocks[%d]", key.Int())
		if verr = requireFields(value, at, blockRequired); verr != nil {
			return false
		}
		if verr = requireFields(value.Get("tokenCounts"), at+".tokenCounts", tokenCountsRequired); verr != nil {
			return false
		}
		if br := value.Get("burnRate"); present(br) {
			if verr = requireFields(br, at+".burnRate", burnRateRequired); verr != nil {
				return false
			}
		}
		if pr := value.Get("projection"); present(pr) {
			if verr = requireFields(pr, at+".projection", projectionRequired); verr != nil {
				return false
			}
		}
		return true
	})
	return verr
}

func validateDaily(data []byte) error {
	root := gjson.ParseBytes(data)
	list, err := requireArray(root, "daily")
	if err != nil {
		return err
	}

	var verr error
	list.ForEach(func(key, value gjson.Result) bool {
		verr = requireFields(value, fmt.Sprintf("daily[%d]", key.Int()), dailyRequired)
		return verr == nil
	})
	return verr
}

func requireArray(root gjson.Result, key string) (gjson.Result, error) {
	if !root.IsObject() {
		return gjson.Result{}, fmt.Errorf("expected a JSON object with field `%s`", key)
	}
	list := root.Get(key)
	if !present(list) {
		return gjson.Result{}, fmt.Errorf("missing field `%s`", key)
	}
	if !list.IsArray() {
		return gjson.Result{}, fmt.Errorf("field `%s` is not an array", key)
	}
	return list, nil
}

func requireFields(obj gjson.Result, at string, fields []string) error {
	if !obj.IsObject() {
		return fmt.Errorf("%s: expected an object", at)
	}
	for _, f := range fields {
		if !present(obj.Get(f)) {
			return fmt.Errorf("%s: missing field `%s`", at, f)
		}
	}
	return nil
}

// present reports whether a key exists with a non-null value
func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

func (b block) toModel() models.UsageBlock {
	out := models.UsageBlock{
		ID:            b.ID,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		ActualEndTime: b.ActualEndTime,
		IsActive:      b.IsActive,
		IsGap:         b.IsGap,
		Entries:       b.Entries,
		TokenCounts: models.TokenCounts{
			InputTokens:              b.TokenCounts.InputTokens,
			OutputTokens:             b.TokenCounts.OutputTokens,
			CacheCreationInputTokens: b.TokenCounts.CacheCreationInputTokens,
			CacheReadInputTokens:     b.TokenCounts.CacheReadInputTokens,
		},
		TotalTokens: b.TotalTokens,
		CostUSD:     b.CostUSD,
		Models:      b.Models,
	}
	if b.BurnRate != nil {
		out.BurnRate = &models.BurnRate{
			TokensPerMinute:             b.BurnRate.TokensPerMinute,
			TokensPerMinuteForIndicator: b.BurnRate.TokensPerMinuteForIndicator,
			CostPerHour:                 b.BurnRate.CostPerHour,
		}
	}
	if b.Projection != nil {
		out.Projection = &models.Projection{
			TotalTokens:      b.Projection.TotalTokens,
			TotalCost:        b.Projection.TotalCost,
			RemainingMinutes: b.Projection.RemainingMinutes,
		}
	}
	return out
}
