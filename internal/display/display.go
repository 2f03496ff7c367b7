package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dyike/stockfetch/internal/sources"
)

const tableWidth = 84

// RenderBars writes historical rows as a fixed-width table. Rows are
// printed exactly in the order the provider returned them.
func RenderBars(w io.Writer, req sources.Request, bars []sources.Bar) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "📊 Historical data for %s (%s, %s)\n", req.Symbol, req.Provider, req.Granularity)
	fmt.Fprintf(w, "   %s\n", sources.FormatDateRange(req.Start, req.End))
	fmt.Fprintln(w, strings.Repeat("═", tableWidth))
	fmt.Fprintf(w, "%-17s %12s %12s %12s %12s %14s\n", "DATE", "OPEN", "HIGH", "LOW", "CLOSE", "VOLUME")
	fmt.Fprintln(w, strings.Repeat("─", tableWidth))

	layout := "2006-01-02"
	if req.Granularity.Intraday() {
		layout = "2006-01-02 15:04"
	}

	for _, bar := range bars {
		fmt.Fprintf(w, "%-17s %12s %12s %12s %12s %14d\n",
			bar.Timestamp.Format(layout),
			bar.Open.StringFixed(2),
			bar.High.StringFixed(2),
			bar.Low.StringFixed(2),
			bar.Close.StringFixed(2),
			bar.Volume)
	}

	fmt.Fprintln(w, strings.Repeat("═", tableWidth))
	fmt.Fprintf(w, "%d rows\n", len(bars))
}

// RenderQuote writes the real-time quote card. Fields a provider could
// not supply stay hidden instead of printing zeros.
func RenderQuote(w io.Writer, q *sources.Quote) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "💹 Real-time quote for %s\n", q.Symbol)
	fmt.Fprintln(w, strings.Repeat("═", tableWidth))
	fmt.Fprintf(w, "   Price:       %s\n", q.Price.StringFixed(2))
	fmt.Fprintf(w, "   Change:      %s %s (%s%%)\n", changeEmoji(q), signedFixed(q.Change), signedFixed(q.ChangePercent))

	if !q.Open.IsZero() {
		fmt.Fprintf(w, "   Open:        %s\n", q.Open.StringFixed(2))
	}
	if !q.High.IsZero() {
		fmt.Fprintf(w, "   High:        %s\n", q.High.StringFixed(2))
	}
	if !q.Low.IsZero() {
		fmt.Fprintf(w, "   Low:         %s\n", q.Low.StringFixed(2))
	}
	if !q.PreviousClose.IsZero() {
		fmt.Fprintf(w, "   Prev Close:  %s\n", q.PreviousClose.StringFixed(2))
	}
	if q.Volume > 0 {
		fmt.Fprintf(w, "   Volume:      %d\n", q.Volume)
	}
	if !q.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "   Updated:     %s\n", q.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintln(w, strings.Repeat("═", tableWidth))
}

func changeEmoji(q *sources.Quote) string {
	switch {
	case q.Change.IsPositive():
		return "🟢"
	case q.Change.IsNegative():
		return "🔴"
	default:
		return "⚪"
	}
}

// signedFixed renders a decimal with an explicit sign so gains read as
// "+1.15" next to losses as "-1.15".
func signedFixed(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if !strings.HasPrefix(s, "-") {
		return "+" + s
	}
	return s
}

// DisplayError shows formatted error messages
func DisplayError(err error, context string) {
	fmt.Printf("❌ Error in %s:\n", context)
	fmt.Printf("   %v\n", err)
}

// DisplayWarning shows formatted warning messages
func DisplayWarning(message string) {
	fmt.Printf("⚠️  Warning: %s\n", message)
}

// DisplaySuccess shows formatted success messages
func DisplaySuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// DisplayInfo shows formatted info messages
func DisplayInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}
