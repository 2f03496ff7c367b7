package web

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dyike/stockfetch/internal/sources"
)

// formPage fills the search form. All fields are plain strings so the
// template can echo back whatever the user posted.
type formPage struct {
	Providers     []string
	Granularities []string
	API           string
	Symbol        string
	Granularity   string
	Start         string
	End           string
	Error         string
}

type quoteView struct {
	Price         string
	Change        string
	ChangePercent string
	Direction     string
	Volume        int64
	UpdatedAt     string
}

type rowView struct {
	Date   string
	Open   string
	High   string
	Low    string
	Close  string
	Volume int64
}

type resultsPage struct {
	Symbol      string
	Provider    string
	Granularity string
	Range       string
	Quote       *quoteView
	Chart       chart
	Rows        []rowView
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.render(w, "index.html", s.defaultForm())
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}

	form := s.formFromPost(r)
	req, err := s.requestFromForm(r)
	if err != nil {
		form.Error = err.Error()
		s.render(w, "index.html", form)
		return
	}

	source, err := s.newSource(req.Provider, s.cfg)
	if err != nil {
		form.Error = err.Error()
		s.render(w, "index.html", form)
		return
	}

	bars, err := source.GetHistoricalData(r.Context(), req)
	if err != nil {
		form.Error = err.Error()
		s.render(w, "index.html", form)
		return
	}
	quote, err := source.GetRealTimeData(r.Context(), req.Symbol)
	if err != nil {
		form.Error = err.Error()
		s.render(w, "index.html", form)
		return
	}

	s.render(w, "results.html", buildResultsPage(req, bars, quote))
}

// defaultForm mirrors the CLI defaults: a one-year window ending today.
func (s *Server) defaultForm() formPage {
	api := s.cfg.DefaultAPI
	if api == "" {
		api = "yahoo_finance"
	}
	granularity := s.cfg.DefaultGranularity
	if granularity == "" {
		granularity = sources.OneDay.String()
	}
	now := time.Now()
	return formPage{
		Providers:     sources.Names(),
		Granularities: granularityStrings(),
		API:           api,
		Granularity:   granularity,
		Start:         now.AddDate(0, 0, -365).Format("2006-01-02"),
		End:           now.Format("2006-01-02"),
	}
}

// formFromPost echoes the posted values so a failed fetch keeps the
// user's input on the page.
func (s *Server) formFromPost(r *http.Request) formPage {
	form := s.defaultForm()
	if v := r.FormValue("api"); v != "" {
		form.API = v
	}
	form.Symbol = r.FormValue("symbol")
	if v := r.FormValue("granularity"); v != "" {
		form.Granularity = v
	}
	if v := r.FormValue("start"); v != "" {
		form.Start = v
	}
	if v := r.FormValue("end"); v != "" {
		form.End = v
	}
	return form
}

func (s *Server) requestFromForm(r *http.Request) (sources.Request, error) {
	var req sources.Request

	api := r.FormValue("api")
	if api == "" {
		api = s.cfg.DefaultAPI
	}
	if api == "" {
		api = "yahoo_finance"
	}
	req.Provider = api

	symbol := sources.NormalizeSymbol(r.FormValue("symbol"))
	if err := sources.ValidateSymbol(symbol); err != nil {
		return req, err
	}
	req.Symbol = symbol

	granularity := r.FormValue("granularity")
	if granularity == "" {
		granularity = s.cfg.DefaultGranularity
	}
	g, err := sources.ParseGranularity(granularity)
	if err != nil {
		return req, err
	}
	req.Granularity = g

	now := time.Now()
	start, err := parseFormDate(r.FormValue("start"), "start", now.AddDate(0, 0, -365))
	if err != nil {
		return req, err
	}
	end, err := parseFormDate(r.FormValue("end"), "end", now)
	if err != nil {
		return req, err
	}
	if start.After(end) {
		return req, &sources.DateRangeError{Start: start, End: end}
	}
	req.Start = start
	req.End = end

	return req, nil
}

func parseFormDate(value, name string, defaultDate time.Time) (time.Time, error) {
	if value == "" {
		return defaultDate, nil
	}
	ts, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, &sources.DateRangeError{
			Reason: name + " date must use YYYY-MM-DD, got " + value,
		}
	}
	return ts, nil
}

func buildResultsPage(req sources.Request, bars []sources.Bar, quote *sources.Quote) resultsPage {
	layout := "2006-01-02"
	if req.Granularity.Intraday() {
		layout = "2006-01-02 15:04"
	}

	rows := make([]rowView, 0, len(bars))
	for _, bar := range bars {
		rows = append(rows, rowView{
			Date:   bar.Timestamp.Format(layout),
			Open:   bar.Open.StringFixed(2),
			High:   bar.High.StringFixed(2),
			Low:    bar.Low.StringFixed(2),
			Close:  bar.Close.StringFixed(2),
			Volume: bar.Volume,
		})
	}

	return resultsPage{
		Symbol:      req.Symbol,
		Provider:    req.Provider,
		Granularity: req.Granularity.String(),
		Range:       sources.FormatDateRange(req.Start, req.End),
		Quote:       buildQuoteView(quote),
		Chart:       buildChart(bars),
		Rows:        rows,
	}
}

func buildQuoteView(q *sources.Quote) *quoteView {
	if q == nil {
		return nil
	}
	view := &quoteView{
		Price:         q.Price.StringFixed(2),
		Change:        signed(q.Change),
		ChangePercent: signed(q.ChangePercent),
		Direction:     "flat",
		Volume:        q.Volume,
	}
	switch q.Change.Sign() {
	case 1:
		view.Direction = "up"
	case -1:
		view.Direction = "down"
	}
	if !q.UpdatedAt.IsZero() {
		view.UpdatedAt = q.UpdatedAt.Format("2006-01-02 15:04:05")
	}
	return view
}

func signed(d decimal.Decimal) string {
	if d.Sign() > 0 {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}

func granularityStrings() []string {
	all := sources.Granularities()
	out := make([]string, 0, len(all))
	for _, g := range all {
		out = append(out, g.String())
	}
	return out
}
