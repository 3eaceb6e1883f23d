package output

import (
	"fmt"
	"strconv"
	"time"
)

// FormatNumber formats large numbers with K/M suffixes
func FormatNumber(n uint64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1000:
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return strconv.FormatUint(n, 10)
}

// FormatNumberWithCommas formats numbers with commas for thousands
func FormatNumberWithCommas(n uint64) string {
	str := strconv.FormatUint(n, 10)
	if len(str) <= 3 {
		return str
	}

	result := make([]byte, 0, len(str)+len(str)/3)
	for i := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, str[i])
	}
	return string(result)
}

// FormatCurrency formats a USD amount
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// FormatBurnRate formats a tokens-per-minute rate
func FormatBurnRate(tokensPerMinute float64) string {
	switch {
	case tokensPerMinute >= 1000:
		return fmt.Sprintf("%.1fK tok/min", tokensPerMinute/1000)
	case tokensPerMinute >= 100:
		return fmt.Sprintf("%.0f tok/min", tokensPerMinute)
	}
	return fmt.Sprintf("%.1f tok/min", tokensPerMinute)
}

// FormatAge formats how long ago t was
func FormatAge(now, t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	switch {
	case d < time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh %dm ago", int(d.Hours()), int(d.Minutes())%60)
}
