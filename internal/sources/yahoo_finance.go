package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

// yahooIntervals maps granularities onto Yahoo chart intervals. Yahoo
// serves every granularity the fetcher knows about, which is why this
// source is the default.
var yahooIntervals = map[Granularity]datetime.Interval{
	OneMinute:      datetime.OneMin,
	FiveMinutes:    datetime.FiveMins,
	FifteenMinutes: datetime.FifteenMins,
	ThirtyMinutes:  datetime.ThirtyMins,
	OneHour:        datetime.OneHour,
	OneDay:         datetime.OneDay,
	OneWeek:        datetime.Interval("1wk"),
	OneMonth:       datetime.OneMonth,
}

// YahooFinanceSource serves chart and quote data from Yahoo Finance.
// It needs no API key.
type YahooFinanceSource struct{}

func NewYahooFinanceSource() *YahooFinanceSource {
	return &YahooFinanceSource{}
}

func (s *YahooFinanceSource) Name() string {
	return "yahoo_finance"
}

func (s *YahooFinanceSource) GetHistoricalData(ctx context.Context, req Request) ([]Bar, error) {
	interval, ok := yahooIntervals[req.Granularity]
	if !ok {
		return nil, fmt.Errorf("yahoo_finance: unsupported granularity %q", req.Granularity)
	}

	start := req.Start
	end := req.End
	params := &chart.Params{
		Symbol:   req.Symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: interval,
	}

	iter := chart.Get(params)

	var bars []Bar
	for iter.Next() {
		b := iter.Bar()
		bars = append(bars, Bar{
			Timestamp: time.Unix(int64(b.Timestamp), 0),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    int64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, &APIError{Provider: s.Name(), Message: err.Error()}
	}
	if len(bars) == 0 {
		return nil, &InvalidSymbolError{Symbol: req.Symbol}
	}

	return bars, nil
}

func (s *YahooFinanceSource) GetRealTimeData(ctx context.Context, symbol string) (*Quote, error) {
	q, err := quote.Get(symbol)
	if err != nil {
		return nil, &APIError{Provider: s.Name(), Message: err.Error()}
	}
	if q == nil {
		return nil, &InvalidSymbolError{Symbol: symbol}
	}

	return &Quote{
		Symbol:        symbol,
		Price:         decimal.NewFromFloat(q.RegularMarketPrice),
		Change:        decimal.NewFromFloat(q.RegularMarketChange),
		ChangePercent: decimal.NewFromFloat(q.RegularMarketChangePercent),
		Open:          decimal.NewFromFloat(q.RegularMarketOpen),
		High:          decimal.NewFromFloat(q.RegularMarketDayHigh),
		Low:           decimal.NewFromFloat(q.RegularMarketDayLow),
		PreviousClose: decimal.NewFromFloat(q.RegularMarketPreviousClose),
		Volume:        int64(q.RegularMarketVolume),
		UpdatedAt:     time.Unix(int64(q.RegularMarketTime), 0),
	}, nil
}
