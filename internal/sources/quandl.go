package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const quandlBaseURL = "https://www.quandl.com/api/v3/datasets"

// quandlCollapse maps granularities onto the Quandl collapse parameter.
// The WIKI dataset is end-of-day data, so intraday granularities have
// no mapping and are rejected.
var quandlCollapse = map[Granularity]string{
	OneDay:   "daily",
	OneWeek:  "weekly",
	OneMonth: "monthly",
}

type quandlResponse struct {
	Dataset struct {
		Data [][]interface{} `json:"data"`
	} `json:"dataset"`
}

// QuandlSource fetches end-of-day data from the Quandl WIKI dataset.
// Rows come back newest first. Real-time values are derived from the
// latest available row since the dataset has no live feed.
type QuandlSource struct {
	client *resty.Client
	apiKey string
}

func NewQuandlSource(apiKey string) *QuandlSource {
	client := resty.New().
		SetBaseURL(quandlBaseURL).
		SetTimeout(30 * time.Second)

	return &QuandlSource{
		client: client,
		apiKey: apiKey,
	}
}

func (s *QuandlSource) Name() string {
	return "quandl"
}

func (s *QuandlSource) GetHistoricalData(ctx context.Context, req Request) ([]Bar, error) {
	collapse, ok := quandlCollapse[req.Granularity]
	if !ok {
		return nil, fmt.Errorf("granularity %s not supported by quandl", req.Granularity)
	}

	rows, err := s.fetchRows(ctx, req.Symbol, map[string]string{
		"start_date": req.Start.Format("2006-01-02"),
		"end_date":   req.End.Format("2006-01-02"),
		"collapse":   collapse,
	})
	if err != nil {
		return nil, err
	}

	bars := make([]Bar, 0, len(rows))
	for _, row := range rows {
		bar, ok := quandlBar(row)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, &InvalidSymbolError{Symbol: req.Symbol}
	}

	return bars, nil
}

func (s *QuandlSource) GetRealTimeData(ctx context.Context, symbol string) (*Quote, error) {
	rows, err := s.fetchRows(ctx, symbol, map[string]string{"limit": "1"})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &InvalidSymbolError{Symbol: symbol}
	}

	bar, ok := quandlBar(rows[0])
	if !ok {
		return nil, &APIError{Provider: s.Name(), Message: "malformed dataset row"}
	}

	return quoteFromBar(symbol, bar), nil
}

func (s *QuandlSource) fetchRows(ctx context.Context, symbol string, params map[string]string) ([][]interface{}, error) {
	query := map[string]string{"api_key": s.apiKey}
	for k, v := range params {
		query[k] = v
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(fmt.Sprintf("/WIKI/%s.json", symbol))
	if err != nil {
		return nil, &APIError{Provider: s.Name(), Message: err.Error()}
	}
	if resp.StatusCode() == 404 {
		return nil, &InvalidSymbolError{Symbol: symbol}
	}
	if resp.StatusCode() != 200 {
		return nil, &APIError{Provider: s.Name(), StatusCode: resp.StatusCode(), Message: resp.String()}
	}

	var payload quandlResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, &APIError{Provider: s.Name(), Message: "failed to parse dataset response: " + err.Error()}
	}

	return payload.Dataset.Data, nil
}

// quandlBar converts a positional dataset row
// [date, open, high, low, close, volume] into a Bar.
func quandlBar(row []interface{}) (Bar, bool) {
	if len(row) < 6 {
		return Bar{}, false
	}
	dateStr, ok := row[0].(string)
	if !ok {
		return Bar{}, false
	}
	ts, err := ParseDateString(dateStr)
	if err != nil {
		return Bar{}, false
	}

	open, ok := quandlDecimal(row[1])
	if !ok {
		return Bar{}, false
	}
	high, ok := quandlDecimal(row[2])
	if !ok {
		return Bar{}, false
	}
	low, ok := quandlDecimal(row[3])
	if !ok {
		return Bar{}, false
	}
	closePrice, ok := quandlDecimal(row[4])
	if !ok {
		return Bar{}, false
	}
	volume, ok := quandlDecimal(row[5])
	if !ok {
		return Bar{}, false
	}

	return Bar{
		Timestamp: ts,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePrice,
		Volume:    volume.IntPart(),
	}, true
}

func quandlDecimal(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}

// quoteFromBar derives a real-time quote from the latest bar a
// historical-only source can serve: the change is measured against the
// bar's own open.
func quoteFromBar(symbol string, bar Bar) *Quote {
	change := bar.Close.Sub(bar.Open)
	changePct := decimal.Zero
	if !bar.Open.IsZero() {
		changePct = change.Div(bar.Open).Mul(decimal.NewFromInt(100))
	}

	return &Quote{
		Symbol:        symbol,
		Price:         bar.Close,
		Change:        change,
		ChangePercent: changePct,
		Open:          bar.Open,
		High:          bar.High,
		Low:           bar.Low,
		Volume:        bar.Volume,
		UpdatedAt:     bar.Timestamp,
	}
}
