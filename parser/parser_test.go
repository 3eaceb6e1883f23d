package parser

import (
	"testing"

	apperrors "github.com/penwyp/ClawMeter/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const activeBlockJSON = `{
  "blocks": [
    {
      "id": "2024-03-05T10:00:00.000Z",
      "startTime": "2024-03-05T10:00:00.000Z",
      "endTime": "2024-03-05T15:00:00.000Z",
      "actualEndTime": "2024-03-05T11:42:10.000Z",
      "isActive": true,
      "isGap": false,
      "entries": 12,
      "tokenCounts": {
        "inputTokens": 100,
        "outputTokens": 200,
        "cacheCreationInputTokens": 150,
        "cacheReadInputTokens": 50
      },
      "totalTokens": 500,
      "costUSD": 1.25,
      "models": ["opus"],
      "burnRate": {
        "tokensPerMinute": 40.5,
        "tokensPerMinuteForIndicator": 42.0,
        "costPerHour": 0.9
      },
      "projection": {
        "totalTokens": 2000,
        "totalCost": 4.5,
        "remainingMinutes": 198
      },
      "usageLimitResetTime": "2024-03-05T15:00:00.000Z"
    }
  ]
}`

func TestParseBlocks(t *testing.T) {
	blocks, err := ParseBlocks([]byte(activeBlockJSON))
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	b := blocks[0]
	assert.Equal(t, "2024-03-05T10:00:00.000Z", b.ID)
	assert.True(t, b.IsActive)
	assert.False(t, b.IsGap)
	assert.Equal(t, uint64(12), b.Entries)
	assert.Equal(t, uint64(500), b.TotalTokens)
	assert.Equal(t, uint64(500), b.TokenCounts.Total())
	assert.InDelta(t, 1.25, b.CostUSD, 1e-9)
	assert.Equal(t, []string{"opus"}, b.Models)
	require.NotNil(t, b.ActualEndTime)
	assert.Equal(t, "2024-03-05T11:42:10.000Z", *b.ActualEndTime)

	require.NotNil(t, b.BurnRate)
	assert.InDelta(t, 42.0, b.BurnRate.TokensPerMinuteForIndicator, 1e-9)
	require.NotNil(t, b.Projection)
	assert.Equal(t, uint64(2000), b.Projection.TotalTokens)
	assert.InDelta(t, 198.0, b.Projection.RemainingMinutes, 1e-9)
}

func TestParseBlocks_OptionalFieldsAbsentOrNull(t *testing.T) {
	data := `{"blocks":[{"id":"gap","startTime":"a","endTime":"b","isActive":false,"isGap":true,
		"entries":0,"tokenCounts":{"inputTokens":0,"outputTokens":0,"cacheCreationInputTokens":0,"cacheReadInputTokens":0},
		"totalTokens":0,"costUSD":0,"models":[],"burnRate":null}]}`

	blocks, err := ParseBlocks([]byte(data))
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Nil(t, blocks[0].ActualEndTime)
	assert.Nil(t, blocks[0].BurnRate)
	assert.Nil(t, blocks[0].Projection)
	assert.Empty(t, blocks[0].Models)
}

func TestParseBlocks_Empty(t *testing.T) {
	blocks, err := ParseBlocks([]byte(`{"blocks":[]}`))
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestParseBlocks_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"not json", `ccusage: update available`, ""},
		{"truncated", `{"blocks":[{"id":"x"`, ""},
		{"missing blocks", `{"daily":[]}`, "missing field `blocks`"},
		{"blocks not array", `{"blocks":{}}`, ""},
		{"null blocks", `{"blocks":null}`, "missing field `blocks`"},
		{"missing cost", `{"blocks":[{"id":"x","startTime":"a","endTime":"b","isActive":false,"isGap":false,"entries":1,
			"tokenCounts":{"inputTokens":0,"outputTokens":0,"cacheCreationInputTokens":0,"cacheReadInputTokens":0},
			"totalTokens":1,"models":[]}]}`, "blocks[0]: missing field `costUSD`"},
		{"partial token counts", `{"blocks":[{"id":"x","startTime":"a","endTime":"b","isActive":false,"isGap":false,"entries":1,
			"tokenCounts":{"inputTokens":0},"totalTokens":1,"costUSD":0,"models":[]}]}`, "blocks[0].tokenCounts: missing field `outputTokens`"},
		{"partial burn rate", `{"blocks":[{"id":"x","startTime":"a","endTime":"b","isActive":true,"isGap":false,"entries":1,
			"tokenCounts":{"inputTokens":0,"outputTokens":0,"cacheCreationInputTokens":0,"cacheReadInputTokens":0},
			"totalTokens":1,"costUSD":0,"models":[],"burnRate":{"tokensPerMinute":1}}]}`, "blocks[0].burnRate: missing field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, err := ParseBlocks([]byte(tt.data))
			require.Error(t, err)
			assert.Nil(t, blocks)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeMalformedResponse))
			assert.Contains(t, err.Error(), "Failed to parse ccusage blocks output")
			if tt.want != "" {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestParseDaily(t *testing.T) {
	data := `{"daily":[
		{"date":"2024-03-04","totalTokens":1000,"totalCost":3.0,"modelsUsed":["opus","sonnet"],"inputTokens":10},
		{"date":"2024-03-05","totalTokens":250,"totalCost":0.5,"modelsUsed":[]}
	],"totals":{"totalTokens":1250}}`

	entries, err := ParseDaily([]byte(data))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2024-03-04", entries[0].Date)
	assert.Equal(t, uint64(1000), entries[0].TotalTokens)
	assert.InDelta(t, 3.0, entries[0].TotalCost, 1e-9)
	assert.Equal(t, []string{"opus", "sonnet"}, entries[0].ModelsUsed)
	assert.Equal(t, uint64(250), entries[1].TotalTokens)
}

func TestParseDaily_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ``},
		{"missing daily", `{"blocks":[]}`},
		{"missing modelsUsed", `{"daily":[{"date":"2024-03-04","totalTokens":1,"totalCost":0}]}`},
		{"null date", `{"daily":[{"date":null,"totalTokens":1,"totalCost":0,"modelsUsed":[]}]}`},
		{"wrong type", `{"daily":[{"date":"2024-03-04","totalTokens":"many","totalCost":0,"modelsUsed":[]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := ParseDaily([]byte(tt.data))
			require.Error(t, err)
			assert.Nil(t, entries)
			ue, ok := apperrors.AsUsageError(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrorTypeMalformedResponse, ue.Type)
			assert.Equal(t, "daily", ue.Command)
			assert.NotNil(t, ue.Cause)
		})
	}
}
