package sources

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// InvestingComSource simulates the investing.com feed with a seeded
// random walk. The walk is deterministic for a given symbol and start
// date so repeated fetches line up, and it always steps one calendar
// day at a time regardless of the requested granularity.
type InvestingComSource struct{}

func NewInvestingComSource() *InvestingComSource {
	return &InvestingComSource{}
}

func (s *InvestingComSource) Name() string {
	return "investing_com"
}

func (s *InvestingComSource) GetHistoricalData(ctx context.Context, req Request) ([]Bar, error) {
	if req.Start.After(req.End) {
		return nil, &DateRangeError{Start: req.Start, End: req.End, Reason: "start date must be before end date"}
	}

	rng := rand.New(rand.NewSource(mockSeed(req.Symbol, req.Start.Format("2006-01-02"))))
	base := uniform(rng, 50, 200)

	var bars []Bar
	for day := dateOnly(req.Start); !day.After(dateOnly(req.End)); day = day.AddDate(0, 0, 1) {
		price := base + uniform(rng, -5, 5)
		high := price * (1 + uniform(rng, 0, 0.02))
		low := price * (1 - uniform(rng, 0, 0.02))
		closePrice := price * (1 + uniform(rng, -0.01, 0.01))

		bar := Bar{
			Timestamp: day,
			Open:      round2(price),
			High:      round2(high),
			Low:       round2(low),
			Close:     round2(closePrice),
			Volume:    int64(100000 + rng.Intn(900001)),
		}
		bars = append(bars, bar)

		// The next day's walk starts from today's rounded close.
		base, _ = bar.Close.Float64()
	}

	return bars, nil
}

func (s *InvestingComSource) GetRealTimeData(ctx context.Context, symbol string) (*Quote, error) {
	now := time.Now()
	rng := rand.New(rand.NewSource(mockSeed(symbol, now.Format("2006-01-02"))))

	price := uniform(rng, 50, 200)
	change := uniform(rng, -5, 5)
	changePct := decimal.Zero
	priceDec := round2(price)
	changeDec := round2(change)
	if !priceDec.IsZero() {
		changePct = changeDec.Div(priceDec).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return &Quote{
		Symbol:        symbol,
		Price:         priceDec,
		Change:        changeDec,
		ChangePercent: changePct,
		Volume:        int64(100000 + rng.Intn(900001)),
		UpdatedAt:     now,
	}, nil
}

// mockSeed derives a stable rand seed from the symbol and a date string.
func mockSeed(symbol, date string) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	h.Write([]byte("|"))
	h.Write([]byte(date))
	return int64(h.Sum64())
}

func uniform(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

func round2(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}
