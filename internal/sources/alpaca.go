package sources

import (
	"context"
	"fmt"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
)

// AlpacaSource fetches bars and snapshots from the Alpaca market data
// API over the free IEX feed.
type AlpacaSource struct {
	client *marketdata.Client
}

func NewAlpacaSource(apiKey, apiSecret string) *AlpacaSource {
	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		Feed:      marketdata.IEX,
	})

	return &AlpacaSource{client: client}
}

func (s *AlpacaSource) Name() string {
	return "alpaca"
}

func alpacaTimeFrame(g Granularity) (marketdata.TimeFrame, error) {
	switch g {
	case OneMinute:
		return marketdata.OneMin, nil
	case FiveMinutes:
		return marketdata.NewTimeFrame(5, marketdata.Min), nil
	case FifteenMinutes:
		return marketdata.NewTimeFrame(15, marketdata.Min), nil
	case ThirtyMinutes:
		return marketdata.NewTimeFrame(30, marketdata.Min), nil
	case OneHour:
		return marketdata.OneHour, nil
	case OneDay:
		return marketdata.OneDay, nil
	case OneWeek:
		return marketdata.NewTimeFrame(1, marketdata.Week), nil
	case OneMonth:
		return marketdata.NewTimeFrame(1, marketdata.Month), nil
	}
	return marketdata.TimeFrame{}, fmt.Errorf("granularity %s not supported by alpaca", g)
}

func (s *AlpacaSource) GetHistoricalData(ctx context.Context, req Request) ([]Bar, error) {
	timeFrame, err := alpacaTimeFrame(req.Granularity)
	if err != nil {
		return nil, err
	}

	rows, err := s.client.GetBars(req.Symbol, marketdata.GetBarsRequest{
		TimeFrame: timeFrame,
		Start:     req.Start,
		End:       req.End,
		Feed:      marketdata.IEX,
	})
	if err != nil {
		return nil, &APIError{Provider: s.Name(), Message: err.Error()}
	}
	if len(rows) == 0 {
		return nil, &InvalidSymbolError{Symbol: req.Symbol}
	}

	bars := make([]Bar, 0, len(rows))
	for _, row := range rows {
		bars = append(bars, Bar{
			Timestamp: row.Timestamp,
			Open:      decimal.NewFromFloat(row.Open),
			High:      decimal.NewFromFloat(row.High),
			Low:       decimal.NewFromFloat(row.Low),
			Close:     decimal.NewFromFloat(row.Close),
			Volume:    int64(row.Volume),
		})
	}

	return bars, nil
}

func (s *AlpacaSource) GetRealTimeData(ctx context.Context, symbol string) (*Quote, error) {
	snapshot, err := s.client.GetSnapshot(symbol, marketdata.GetSnapshotRequest{Feed: marketdata.IEX})
	if err != nil {
		return nil, &APIError{Provider: s.Name(), Message: err.Error()}
	}
	if snapshot == nil || snapshot.LatestTrade == nil {
		return nil, &InvalidSymbolError{Symbol: symbol}
	}

	price := decimal.NewFromFloat(snapshot.LatestTrade.Price)
	q := &Quote{
		Symbol:    symbol,
		Price:     price,
		UpdatedAt: snapshot.LatestTrade.Timestamp,
	}

	if daily := snapshot.DailyBar; daily != nil {
		q.Open = decimal.NewFromFloat(daily.Open)
		q.High = decimal.NewFromFloat(daily.High)
		q.Low = decimal.NewFromFloat(daily.Low)
		q.Volume = int64(daily.Volume)
	}
	if prev := snapshot.PrevDailyBar; prev != nil {
		prevClose := decimal.NewFromFloat(prev.Close)
		q.PreviousClose = prevClose
		q.Change = price.Sub(prevClose)
		if !prevClose.IsZero() {
			q.ChangePercent = q.Change.Div(prevClose).Mul(decimal.NewFromInt(100))
		}
	}

	return q, nil
}
