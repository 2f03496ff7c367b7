package sources

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const alphaVantageBaseURL = "https://www.alphavantage.co"

// alphaVantageSeries maps granularities to Alpha Vantage API functions
// and the JSON key the returned series lives under. Intraday functions
// additionally require an interval query parameter.
var alphaVantageSeries = map[Granularity]struct {
	function  string
	interval  string
	seriesKey string
}{
	OneMinute:      {"TIME_SERIES_INTRADAY", "1min", "Time Series (1min)"},
	FiveMinutes:    {"TIME_SERIES_INTRADAY", "5min", "Time Series (5min)"},
	FifteenMinutes: {"TIME_SERIES_INTRADAY", "15min", "Time Series (15min)"},
	ThirtyMinutes:  {"TIME_SERIES_INTRADAY", "30min", "Time Series (30min)"},
	OneHour:        {"TIME_SERIES_INTRADAY", "60min", "Time Series (60min)"},
	OneDay:         {"TIME_SERIES_DAILY", "", "Time Series (Daily)"},
	OneWeek:        {"TIME_SERIES_WEEKLY", "", "Weekly Time Series"},
	OneMonth:       {"TIME_SERIES_MONTHLY", "", "Monthly Time Series"},
}

type alphaVantageBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type alphaVantageQuote struct {
	Symbol        string `json:"01. symbol"`
	Open          string `json:"02. open"`
	High          string `json:"03. high"`
	Low           string `json:"04. low"`
	Price         string `json:"05. price"`
	Volume        string `json:"06. volume"`
	LatestDay     string `json:"07. latest trading day"`
	PreviousClose string `json:"08. previous close"`
	Change        string `json:"09. change"`
	ChangePercent string `json:"10. change percent"`
}

// AlphaVantageSource fetches time series and quotes from the Alpha
// Vantage REST API. Bars come back newest first, matching the order
// the API reports them in.
type AlphaVantageSource struct {
	client *resty.Client
	apiKey string
}

func NewAlphaVantageSource(apiKey string) *AlphaVantageSource {
	client := resty.New().
		SetBaseURL(alphaVantageBaseURL).
		SetTimeout(30 * time.Second)

	return &AlphaVantageSource{
		client: client,
		apiKey: apiKey,
	}
}

func (s *AlphaVantageSource) Name() string {
	return "alpha_vantage"
}

func (s *AlphaVantageSource) GetHistoricalData(ctx context.Context, req Request) ([]Bar, error) {
	series, ok := alphaVantageSeries[req.Granularity]
	if !ok {
		return nil, &APIError{Provider: s.Name(), Message: "unsupported granularity " + req.Granularity.String()}
	}

	params := map[string]string{
		"function":   series.function,
		"symbol":     req.Symbol,
		"apikey":     s.apiKey,
		"outputsize": "full",
	}
	if series.interval != "" {
		params["interval"] = series.interval
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/query")
	if err != nil {
		return nil, &APIError{Provider: s.Name(), Message: err.Error()}
	}
	if resp.StatusCode() != 200 {
		return nil, &APIError{Provider: s.Name(), StatusCode: resp.StatusCode(), Message: resp.String()}
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, &APIError{Provider: s.Name(), Message: "failed to parse response: " + err.Error()}
	}
	if _, ok := payload["Error Message"]; ok {
		return nil, &InvalidSymbolError{Symbol: req.Symbol}
	}
	if note, ok := payload["Note"]; ok {
		var text string
		_ = json.Unmarshal(note, &text)
		return nil, &APIError{Provider: s.Name(), Message: text}
	}

	raw, ok := payload[series.seriesKey]
	if !ok {
		return nil, &InvalidSymbolError{Symbol: req.Symbol}
	}

	var entries map[string]alphaVantageBar
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &APIError{Provider: s.Name(), Message: "failed to parse time series: " + err.Error()}
	}

	// The API serves entries newest first but Go maps lose that order,
	// so sort the timestamp keys descending to restore it.
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	bars := make([]Bar, 0, len(keys))
	for _, key := range keys {
		ts, err := ParseDateString(key)
		if err != nil {
			continue
		}
		if !withinRange(ts, req.Start, req.End) {
			continue
		}
		entry := entries[key]
		bar, err := barFromStrings(ts, entry.Open, entry.High, entry.Low, entry.Close, entry.Volume)
		if err != nil {
			return nil, &APIError{Provider: s.Name(), Message: err.Error()}
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, &InvalidSymbolError{Symbol: req.Symbol}
	}

	return bars, nil
}

func (s *AlphaVantageSource) GetRealTimeData(ctx context.Context, symbol string) (*Quote, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function": "GLOBAL_QUOTE",
			"symbol":   symbol,
			"apikey":   s.apiKey,
		}).
		Get("/query")
	if err != nil {
		return nil, &APIError{Provider: s.Name(), Message: err.Error()}
	}
	if resp.StatusCode() != 200 {
		return nil, &APIError{Provider: s.Name(), StatusCode: resp.StatusCode(), Message: resp.String()}
	}

	var payload struct {
		GlobalQuote alphaVantageQuote `json:"Global Quote"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, &APIError{Provider: s.Name(), Message: "failed to parse quote response: " + err.Error()}
	}
	gq := payload.GlobalQuote
	if gq.Price == "" {
		return nil, &InvalidSymbolError{Symbol: symbol}
	}

	price, err := decimal.NewFromString(gq.Price)
	if err != nil {
		return nil, &APIError{Provider: s.Name(), Message: "bad price value: " + gq.Price}
	}
	change, _ := decimal.NewFromString(gq.Change)
	pctStr := strings.TrimSuffix(strings.TrimSpace(gq.ChangePercent), "%")
	changePct, _ := decimal.NewFromString(pctStr)
	open, _ := decimal.NewFromString(gq.Open)
	high, _ := decimal.NewFromString(gq.High)
	low, _ := decimal.NewFromString(gq.Low)
	prevClose, _ := decimal.NewFromString(gq.PreviousClose)

	var volume int64
	if v, err := decimal.NewFromString(gq.Volume); err == nil {
		volume = v.IntPart()
	}

	updatedAt := time.Now()
	if ts, err := ParseDateString(gq.LatestDay); err == nil {
		updatedAt = ts
	}

	return &Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: changePct,
		Open:          open,
		High:          high,
		Low:           low,
		PreviousClose: prevClose,
		Volume:        volume,
		UpdatedAt:     updatedAt,
	}, nil
}

// barFromStrings builds a Bar from the string-encoded numeric fields
// REST providers return.
func barFromStrings(ts time.Time, open, high, low, close, volume string) (Bar, error) {
	o, err := decimal.NewFromString(open)
	if err != nil {
		return Bar{}, err
	}
	h, err := decimal.NewFromString(high)
	if err != nil {
		return Bar{}, err
	}
	l, err := decimal.NewFromString(low)
	if err != nil {
		return Bar{}, err
	}
	c, err := decimal.NewFromString(close)
	if err != nil {
		return Bar{}, err
	}
	var vol int64
	if volume != "" {
		v, err := decimal.NewFromString(volume)
		if err != nil {
			return Bar{}, err
		}
		vol = v.IntPart()
	}
	return Bar{Timestamp: ts, Open: o, High: h, Low: l, Close: c, Volume: vol}, nil
}
