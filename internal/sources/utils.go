package sources

import (
	"fmt"
	"strings"
	"time"
)

// ValidateSymbol checks that a stock symbol looks usable before dispatch.
func ValidateSymbol(symbol string) error {
	symbol = NormalizeSymbol(symbol)
	if len(symbol) == 0 {
		return &InvalidSymbolError{Symbol: symbol, Reason: "symbol cannot be empty"}
	}
	if len(symbol) > 10 {
		return &InvalidSymbolError{Symbol: symbol, Reason: "symbol too long (max 10 characters)"}
	}
	return nil
}

// NormalizeSymbol converts a symbol to its canonical upper-case form.
func NormalizeSymbol(symbol string) string {
	return strings.TrimSpace(strings.ToUpper(symbol))
}

// FormatDateRange creates a human-readable date range string.
func FormatDateRange(start, end time.Time) string {
	return fmt.Sprintf("%s to %s",
		start.Format("2006-01-02"),
		end.Format("2006-01-02"))
}

// ParseDateString parses the date formats providers hand back.
func ParseDateString(dateStr string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		time.RFC3339,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// dateOnly truncates a timestamp to its calendar day for range filtering,
// so intraday bars on the boundary days are kept.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// withinRange reports whether ts falls on a day inside [start, end].
func withinRange(ts, start, end time.Time) bool {
	day := dateOnly(ts)
	return !day.Before(dateOnly(start)) && !day.After(dateOnly(end))
}
