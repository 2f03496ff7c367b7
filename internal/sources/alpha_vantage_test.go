package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAlphaVantageTest(t *testing.T, handler http.HandlerFunc) *AlphaVantageSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	source := NewAlphaVantageSource("test-key")
	source.client.SetBaseURL(server.URL)
	return source
}

func TestAlphaVantage_GetHistoricalData_Daily(t *testing.T) {
	source := newAlphaVantageTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "TIME_SERIES_DAILY", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "full", r.URL.Query().Get("outputsize"))
		assert.Empty(t, r.URL.Query().Get("interval"))

		w.Write([]byte(`{
			"Meta Data": {"2. Symbol": "AAPL"},
			"Time Series (Daily)": {
				"2024-03-14": {"1. open": "168.00", "2. high": "170.10", "3. low": "167.00", "4. close": "169.95", "5. volume": "48000000"},
				"2024-03-15": {"1. open": "170.00", "2. high": "172.50", "3. low": "169.25", "4. close": "171.10", "5. volume": "52000000"}
			}
		}`))
	})

	bars, err := source.GetHistoricalData(context.Background(), testRequest(t, "AAPL", OneDay, "2024-03-01", "2024-03-31"))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	// Rows arrive newest first.
	assert.Equal(t, "2024-03-15", bars[0].Timestamp.Format("2006-01-02"))
	assert.Equal(t, "2024-03-14", bars[1].Timestamp.Format("2006-01-02"))

	assert.Equal(t, "170", bars[0].Open.String())
	assert.Equal(t, "172.5", bars[0].High.String())
	assert.Equal(t, "169.25", bars[0].Low.String())
	assert.Equal(t, "171.1", bars[0].Close.String())
	assert.Equal(t, int64(52000000), bars[0].Volume)
}

func TestAlphaVantage_GetHistoricalData_Intraday(t *testing.T) {
	source := newAlphaVantageTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_INTRADAY", r.URL.Query().Get("function"))
		assert.Equal(t, "5min", r.URL.Query().Get("interval"))

		w.Write([]byte(`{
			"Time Series (5min)": {
				"2024-03-15 09:30:00": {"1. open": "170.00", "2. high": "170.20", "3. low": "169.90", "4. close": "170.10", "5. volume": "120000"},
				"2024-03-15 09:35:00": {"1. open": "170.10", "2. high": "170.40", "3. low": "170.00", "4. close": "170.30", "5. volume": "98000"}
			}
		}`))
	})

	bars, err := source.GetHistoricalData(context.Background(), testRequest(t, "AAPL", FiveMinutes, "2024-03-15", "2024-03-15"))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, "2024-03-15 09:35", bars[0].Timestamp.Format("2006-01-02 15:04"))
	assert.Equal(t, "2024-03-15 09:30", bars[1].Timestamp.Format("2006-01-02 15:04"))
}

func TestAlphaVantage_GetHistoricalData_FiltersDateRange(t *testing.T) {
	source := newAlphaVantageTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"Time Series (Daily)": {
				"2024-02-28": {"1. open": "1", "2. high": "1", "3. low": "1", "4. close": "1", "5. volume": "1"},
				"2024-03-15": {"1. open": "2", "2. high": "2", "3. low": "2", "4. close": "2", "5. volume": "2"},
				"2024-04-02": {"1. open": "3", "2. high": "3", "3. low": "3", "4. close": "3", "5. volume": "3"}
			}
		}`))
	})

	bars, err := source.GetHistoricalData(context.Background(), testRequest(t, "AAPL", OneDay, "2024-03-01", "2024-03-31"))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, "2024-03-15", bars[0].Timestamp.Format("2006-01-02"))
}

func TestAlphaVantage_GetHistoricalData_UnknownSymbol(t *testing.T) {
	source := newAlphaVantageTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	})

	_, err := source.GetHistoricalData(context.Background(), testRequest(t, "NOPE", OneDay, "2024-03-01", "2024-03-31"))
	var symErr *InvalidSymbolError
	require.ErrorAs(t, err, &symErr)
	assert.Equal(t, "NOPE", symErr.Symbol)
}

func TestAlphaVantage_GetHistoricalData_RateLimited(t *testing.T) {
	source := newAlphaVantageTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`))
	})

	_, err := source.GetHistoricalData(context.Background(), testRequest(t, "AAPL", OneDay, "2024-03-01", "2024-03-31"))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "call frequency")
}

func TestAlphaVantage_GetHistoricalData_HTTPError(t *testing.T) {
	source := newAlphaVantageTest(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "server on fire", http.StatusInternalServerError)
	})

	_, err := source.GetHistoricalData(context.Background(), testRequest(t, "AAPL", OneDay, "2024-03-01", "2024-03-31"))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestAlphaVantage_GetRealTimeData(t *testing.T) {
	source := newAlphaVantageTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))

		w.Write([]byte(`{
			"Global Quote": {
				"01. symbol": "AAPL",
				"02. open": "170.00",
				"03. high": "172.50",
				"04. low": "169.25",
				"05. price": "171.10",
				"06. volume": "52000000",
				"07. latest trading day": "2024-03-15",
				"08. previous close": "169.95",
				"09. change": "1.15",
				"10. change percent": "0.6767%"
			}
		}`))
	})

	q, err := source.GetRealTimeData(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "171.1", q.Price.String())
	assert.Equal(t, "1.15", q.Change.String())
	assert.Equal(t, "0.6767", q.ChangePercent.String())
	assert.Equal(t, "169.95", q.PreviousClose.String())
	assert.Equal(t, int64(52000000), q.Volume)
	assert.Equal(t, "2024-03-15", q.UpdatedAt.Format("2006-01-02"))
}

func TestAlphaVantage_GetRealTimeData_Empty(t *testing.T) {
	source := newAlphaVantageTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Global Quote": {}}`))
	})

	_, err := source.GetRealTimeData(context.Background(), "NOPE")
	var symErr *InvalidSymbolError
	require.ErrorAs(t, err, &symErr)
}
