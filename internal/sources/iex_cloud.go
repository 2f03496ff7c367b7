package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const iexCloudBaseURL = "https://cloud.iexapis.com/stable"

type iexBar struct {
	Date   string  `json:"date"`
	Minute string  `json:"minute"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

type iexQuote struct {
	Symbol        string  `json:"symbol"`
	LatestPrice   float64 `json:"latestPrice"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	PreviousClose float64 `json:"previousClose"`
	Volume        int64   `json:"volume"`
	LatestUpdate  int64   `json:"latestUpdate"`
}

// IEXCloudSource fetches chart and quote data from the IEX Cloud REST
// API. The requested granularity is passed through as chartInterval and
// range selection is left to the API.
type IEXCloudSource struct {
	client *resty.Client
	apiKey string
}

func NewIEXCloudSource(apiKey string) *IEXCloudSource {
	client := resty.New().
		SetBaseURL(iexCloudBaseURL).
		SetTimeout(30 * time.Second)

	return &IEXCloudSource{
		client: client,
		apiKey: apiKey,
	}
}

func (s *IEXCloudSource) Name() string {
	return "iex_cloud"
}

func (s *IEXCloudSource) GetHistoricalData(ctx context.Context, req Request) ([]Bar, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"token":         s.apiKey,
			"from":          req.Start.Format("2006-01-02"),
			"to":            req.End.Format("2006-01-02"),
			"chartInterval": req.Granularity.String(),
		}).
		Get(fmt.Sprintf("/stock/%s/chart/range", req.Symbol))
	if err != nil {
		return nil, &APIError{Provider: s.Name(), Message: err.Error()}
	}
	if resp.StatusCode() != 200 {
		return nil, &APIError{Provider: s.Name(), StatusCode: resp.StatusCode(), Message: resp.String()}
	}

	var rows []iexBar
	if err := json.Unmarshal(resp.Body(), &rows); err != nil {
		return nil, &APIError{Provider: s.Name(), Message: "failed to parse chart response: " + err.Error()}
	}
	if len(rows) == 0 {
		return nil, &InvalidSymbolError{Symbol: req.Symbol}
	}

	bars := make([]Bar, 0, len(rows))
	for _, row := range rows {
		ts, err := iexTimestamp(row)
		if err != nil {
			continue
		}
		bars = append(bars, Bar{
			Timestamp: ts,
			Open:      decimal.NewFromFloat(row.Open),
			High:      decimal.NewFromFloat(row.High),
			Low:       decimal.NewFromFloat(row.Low),
			Close:     decimal.NewFromFloat(row.Close),
			Volume:    row.Volume,
		})
	}
	if len(bars) == 0 {
		return nil, &InvalidSymbolError{Symbol: req.Symbol}
	}

	return bars, nil
}

func (s *IEXCloudSource) GetRealTimeData(ctx context.Context, symbol string) (*Quote, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"token": s.apiKey}).
		Get(fmt.Sprintf("/stock/%s/quote", symbol))
	if err != nil {
		return nil, &APIError{Provider: s.Name(), Message: err.Error()}
	}
	if resp.StatusCode() != 200 {
		return nil, &APIError{Provider: s.Name(), StatusCode: resp.StatusCode(), Message: resp.String()}
	}

	var q iexQuote
	if err := json.Unmarshal(resp.Body(), &q); err != nil {
		return nil, &APIError{Provider: s.Name(), Message: "failed to parse quote response: " + err.Error()}
	}
	if q.LatestPrice == 0 && q.Symbol == "" {
		return nil, &InvalidSymbolError{Symbol: symbol}
	}

	// changePercent arrives as a fraction (0.0123 for 1.23%).
	changePct := decimal.NewFromFloat(q.ChangePercent).Mul(decimal.NewFromInt(100))

	return &Quote{
		Symbol:        symbol,
		Price:         decimal.NewFromFloat(q.LatestPrice),
		Change:        decimal.NewFromFloat(q.Change),
		ChangePercent: changePct,
		Open:          decimal.NewFromFloat(q.Open),
		High:          decimal.NewFromFloat(q.High),
		Low:           decimal.NewFromFloat(q.Low),
		PreviousClose: decimal.NewFromFloat(q.PreviousClose),
		Volume:        q.Volume,
		UpdatedAt:     time.UnixMilli(q.LatestUpdate),
	}, nil
}

// iexTimestamp resolves a row timestamp from the date plus, for
// intraday rows, the minute field.
func iexTimestamp(row iexBar) (time.Time, error) {
	if row.Minute != "" {
		return time.Parse("2006-01-02 15:04", row.Date+" "+row.Minute)
	}
	return ParseDateString(row.Date)
}
