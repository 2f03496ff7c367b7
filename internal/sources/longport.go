package sources

import (
	"context"
	"fmt"
	"time"

	lpconfig "github.com/longportapp/openapi-go/config"
	"github.com/longportapp/openapi-go/quote"
	"github.com/shopspring/decimal"
)

// longportMaxSticks caps a single candlestick request.
const longportMaxSticks = 1000

// LongportSource fetches daily candlesticks from the Longport OpenAPI.
// The candlestick endpoint is count-based rather than range-based, so
// the source over-fetches from the range length and filters client-side.
type LongportSource struct {
	quoteCtx *quote.QuoteContext
}

func NewLongportSource(appKey, appSecret, accessToken string) (*LongportSource, error) {
	conf, err := lpconfig.New(lpconfig.WithConfigKey(appKey, appSecret, accessToken))
	if err != nil {
		return nil, fmt.Errorf("failed to create longport config: %w", err)
	}

	quoteCtx, err := quote.NewFromCfg(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create longport quote context: %w", err)
	}

	return &LongportSource{quoteCtx: quoteCtx}, nil
}

func (s *LongportSource) Name() string {
	return "longport"
}

func (s *LongportSource) GetHistoricalData(ctx context.Context, req Request) ([]Bar, error) {
	if req.Granularity != OneDay {
		return nil, fmt.Errorf("granularity %s not supported by longport", req.Granularity)
	}

	count := int(req.End.Sub(req.Start).Hours()/24) + 30
	if count > longportMaxSticks {
		count = longportMaxSticks
	}
	if count < 1 {
		count = 1
	}

	sticks, err := s.quoteCtx.Candlesticks(ctx, req.Symbol, quote.PeriodDay, int32(count), quote.AdjustTypeNo)
	if err != nil {
		return nil, &APIError{Provider: s.Name(), Message: err.Error()}
	}

	var bars []Bar
	for _, stick := range sticks {
		if stick == nil {
			continue
		}
		bar := stickToBar(stick)
		if !withinRange(bar.Timestamp, req.Start, req.End) {
			continue
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, &InvalidSymbolError{Symbol: req.Symbol}
	}

	return bars, nil
}

func (s *LongportSource) GetRealTimeData(ctx context.Context, symbol string) (*Quote, error) {
	sticks, err := s.quoteCtx.Candlesticks(ctx, symbol, quote.PeriodDay, 1, quote.AdjustTypeNo)
	if err != nil {
		return nil, &APIError{Provider: s.Name(), Message: err.Error()}
	}
	if len(sticks) == 0 || sticks[len(sticks)-1] == nil {
		return nil, &InvalidSymbolError{Symbol: symbol}
	}

	return quoteFromBar(symbol, stickToBar(sticks[len(sticks)-1])), nil
}

// Close releases the underlying quote context connection.
func (s *LongportSource) Close() {
	if s.quoteCtx != nil {
		s.quoteCtx.Close()
	}
}

func stickToBar(stick *quote.Candlestick) Bar {
	open, _ := stick.Open.Float64()
	high, _ := stick.High.Float64()
	low, _ := stick.Low.Float64()
	closePrice, _ := stick.Close.Float64()

	return Bar{
		Timestamp: time.Unix(stick.Timestamp, 0),
		Open:      decimal.NewFromFloat(open),
		High:      decimal.NewFromFloat(high),
		Low:       decimal.NewFromFloat(low),
		Close:     decimal.NewFromFloat(closePrice),
		Volume:    stick.Volume,
	}
}
