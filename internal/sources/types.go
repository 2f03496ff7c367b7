package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Granularity is the time interval between successive data points.
type Granularity string

const (
	OneMinute      Granularity = "1m"
	FiveMinutes    Granularity = "5m"
	FifteenMinutes Granularity = "15m"
	ThirtyMinutes  Granularity = "30m"
	OneHour        Granularity = "1h"
	OneDay         Granularity = "1d"
	OneWeek        Granularity = "1wk"
	OneMonth       Granularity = "1mo"
)

// Granularities returns all supported granularities, shortest first.
func Granularities() []Granularity {
	return []Granularity{
		OneMinute,
		FiveMinutes,
		FifteenMinutes,
		ThirtyMinutes,
		OneHour,
		OneDay,
		OneWeek,
		OneMonth,
	}
}

// ParseGranularity validates a granularity string such as "1m" or "1d".
func ParseGranularity(s string) (Granularity, error) {
	for _, g := range Granularities() {
		if s == string(g) {
			return g, nil
		}
	}
	return "", fmt.Errorf("invalid granularity %q (supported: %s)", s, granularityList())
}

func granularityList() string {
	out := ""
	for i, g := range Granularities() {
		if i > 0 {
			out += ", "
		}
		out += string(g)
	}
	return out
}

func (g Granularity) String() string {
	return string(g)
}

// Intraday reports whether the granularity is finer than one day.
func (g Granularity) Intraday() bool {
	switch g {
	case OneMinute, FiveMinutes, FifteenMinutes, ThirtyMinutes, OneHour:
		return true
	}
	return false
}

// Request describes a single fetch. It is built once by the resolver and
// passed by value; nothing downstream modifies it.
type Request struct {
	Provider    string      `json:"provider"`
	Symbol      string      `json:"symbol"`
	Granularity Granularity `json:"granularity"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
}

// Bar is a single historical price record. Rows keep the order the
// provider's API returned them in.
type Bar struct {
	Timestamp time.Time       `json:"timestamp"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    int64           `json:"volume"`
}

// Quote is a real-time snapshot for a symbol. Providers leave fields they
// cannot supply at their zero value.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Open          decimal.Decimal `json:"open"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	PreviousClose decimal.Decimal `json:"previous_close"`
	Volume        int64           `json:"volume"`
	UpdatedAt     time.Time       `json:"last_updated"`
}

// DataSource is implemented by every provider. All fetch semantics
// (authentication, rate limits, retries) belong to the provider's API or
// SDK; implementations only translate requests and responses.
type DataSource interface {
	Name() string
	GetHistoricalData(ctx context.Context, req Request) ([]Bar, error)
	GetRealTimeData(ctx context.Context, symbol string) (*Quote, error)
}
