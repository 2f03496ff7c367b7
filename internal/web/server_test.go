package web

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/stockfetch/internal/config"
	"github.com/dyike/stockfetch/internal/sources"
)

type fakeSource struct {
	bars     []sources.Bar
	quote    *sources.Quote
	histErr  error
	quoteErr error
	lastReq  sources.Request
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) GetHistoricalData(ctx context.Context, req sources.Request) ([]sources.Bar, error) {
	f.lastReq = req
	if f.histErr != nil {
		return nil, f.histErr
	}
	return f.bars, nil
}

func (f *fakeSource) GetRealTimeData(ctx context.Context, symbol string) (*sources.Quote, error) {
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return f.quote, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv := NewServer(&config.Config{
		DefaultGranularity: "1d",
		WebHost:            "127.0.0.1",
		WebPort:            5000,
	})
	srv.logger = log.New(io.Discard, "", 0)
	return srv
}

func fakeBars() []sources.Bar {
	day := func(d int, open, high, low, closePrice string, volume int64) sources.Bar {
		return sources.Bar{
			Timestamp: time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC),
			Open:      decimal.RequireFromString(open),
			High:      decimal.RequireFromString(high),
			Low:       decimal.RequireFromString(low),
			Close:     decimal.RequireFromString(closePrice),
			Volume:    volume,
		}
	}
	// Newest first, the way alpha_vantage and quandl answer.
	return []sources.Bar{
		day(15, "170.00", "172.50", "169.25", "171.10", 52000000),
		day(14, "168.90", "170.40", "168.10", "169.95", 48100000),
		day(13, "167.20", "169.00", "166.80", "168.40", 46500000),
	}
}

func fakeQuote() *sources.Quote {
	return &sources.Quote{
		Symbol:        "AAPL",
		Price:         decimal.RequireFromString("172.35"),
		Change:        decimal.RequireFromString("1.25"),
		ChangePercent: decimal.RequireFromString("0.73"),
		Volume:        31000000,
		UpdatedAt:     time.Date(2024, 3, 15, 16, 0, 0, 0, time.UTC),
	}
}

func postForm(handler http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/fetch", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<option value="yahoo_finance" selected>`)
	assert.Contains(t, body, `<option value="investing_com"`)
	assert.Contains(t, body, `<option value="1d" selected>`)
	assert.Contains(t, body, `name="symbol"`)
	assert.Contains(t, body, `name="start"`)
	assert.Contains(t, body, `name="end"`)
}

func TestIndexUnknownPath(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFetchRendersResults(t *testing.T) {
	srv := newTestServer(t)
	fake := &fakeSource{bars: fakeBars(), quote: fakeQuote()}
	srv.newSource = func(name string, cfg *config.Config) (sources.DataSource, error) {
		return fake, nil
	}

	rec := postForm(srv.Handler(), url.Values{
		"api":         {"yahoo_finance"},
		"symbol":      {"aapl"},
		"granularity": {"1d"},
		"start":       {"2024-03-01"},
		"end":         {"2024-03-31"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	// The table keeps provider order: newest row first.
	first := strings.Index(body, "2024-03-15")
	last := strings.Index(body, "2024-03-13")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, last)
	assert.Less(t, first, last)

	assert.Contains(t, body, "171.10")
	assert.Contains(t, body, "52000000")
	assert.Contains(t, body, "3 rows")
	assert.Contains(t, body, "<polyline")
	assert.Contains(t, body, "172.35")
	assert.Contains(t, body, "+1.25")
	assert.Contains(t, body, `class="quote up"`)

	assert.Equal(t, "yahoo_finance", fake.lastReq.Provider)
	assert.Equal(t, "AAPL", fake.lastReq.Symbol)
	assert.Equal(t, sources.OneDay, fake.lastReq.Granularity)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), fake.lastReq.Start)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), fake.lastReq.End)
}

func TestFetchUnknownProvider(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(srv.Handler(), url.Values{
		"api":    {"bloomberg"},
		"symbol": {"AAPL"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "unsupported api: bloomberg")
	assert.Contains(t, body, "<form")
	assert.Contains(t, body, `value="AAPL"`)
}

func TestFetchMissingAPIKey(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(srv.Handler(), url.Values{
		"api":    {"alpha_vantage"},
		"symbol": {"AAPL"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ALPHA_VANTAGE_API_KEY")
}

func TestFetchInvalidDateRange(t *testing.T) {
	srv := newTestServer(t)
	fake := &fakeSource{}
	srv.newSource = func(name string, cfg *config.Config) (sources.DataSource, error) {
		return fake, nil
	}

	rec := postForm(srv.Handler(), url.Values{
		"symbol": {"AAPL"},
		"start":  {"2024-05-01"},
		"end":    {"2024-01-01"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid date range")
	assert.Empty(t, fake.lastReq.Symbol)
}

func TestFetchBadDateFormat(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(srv.Handler(), url.Values{
		"symbol": {"AAPL"},
		"start":  {"01/02/2024"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "YYYY-MM-DD")
}

func TestFetchProviderError(t *testing.T) {
	srv := newTestServer(t)
	fake := &fakeSource{histErr: &sources.APIError{
		Provider:   "iex_cloud",
		StatusCode: 403,
		Message:    "The API key provided is not valid.",
	}}
	srv.newSource = func(name string, cfg *config.Config) (sources.DataSource, error) {
		return fake, nil
	}

	rec := postForm(srv.Handler(), url.Values{"symbol": {"AAPL"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "iex_cloud API error 403")
	assert.Contains(t, body, "<form")
}

func TestFetchQuoteError(t *testing.T) {
	srv := newTestServer(t)
	fake := &fakeSource{
		bars:     fakeBars(),
		quoteErr: &sources.InvalidSymbolError{Symbol: "AAPL"},
	}
	srv.newSource = func(name string, cfg *config.Config) (sources.DataSource, error) {
		return fake, nil
	}

	rec := postForm(srv.Handler(), url.Values{"symbol": {"AAPL"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no data found for symbol AAPL")
}

func TestFetchGetRedirects(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/fetch", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestBuildChart(t *testing.T) {
	bars := fakeBars()
	c := buildChart(bars)

	require.NotEmpty(t, c.Points)
	pairs := strings.Split(c.Points, " ")
	assert.Len(t, pairs, len(bars))
	assert.Equal(t, "168.40", c.Min)
	assert.Equal(t, "171.10", c.Max)

	// Oldest close (168.40) is the minimum, so the leftmost point sits at
	// the bottom of the plot area even though the provider order was
	// newest first.
	assert.Equal(t, "10.0,210.0", pairs[0])
}

func TestBuildChartTooFewBars(t *testing.T) {
	assert.Empty(t, buildChart(nil).Points)
	assert.Empty(t, buildChart(fakeBars()[:1]).Points)
}

func TestBuildChartFlatSeries(t *testing.T) {
	flat := fakeBars()
	for i := range flat {
		flat[i].Close = decimal.RequireFromString("100")
	}

	c := buildChart(flat)
	for _, pair := range strings.Split(c.Points, " ") {
		assert.True(t, strings.HasSuffix(pair, ",110.0"), "pair %s should sit mid-height", pair)
	}
}
