package web

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dyike/stockfetch/internal/sources"
)

const (
	chartWidth  = 640.0
	chartHeight = 220.0
	chartPad    = 10.0
)

// chart holds the prebuilt geometry for the inline SVG close-price line.
// Points is empty when there are too few bars to draw.
type chart struct {
	Points string
	Min    string
	Max    string
}

// buildChart plots closes oldest to newest regardless of the order the
// provider returned the rows in. The table keeps provider order; the
// chart would be unreadable with a reversed time axis.
func buildChart(bars []sources.Bar) chart {
	if len(bars) < 2 {
		return chart{}
	}

	sorted := make([]sources.Bar, len(bars))
	copy(sorted, bars)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	closes := make([]float64, len(sorted))
	for i, bar := range sorted {
		closes[i], _ = bar.Close.Float64()
	}

	min, max := closes[0], closes[0]
	for _, c := range closes[1:] {
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}

	span := max - min
	stepX := (chartWidth - 2*chartPad) / float64(len(closes)-1)

	var b strings.Builder
	for i, c := range closes {
		x := chartPad + float64(i)*stepX
		y := chartHeight / 2
		if span > 0 {
			y = chartHeight - chartPad - (c-min)/span*(chartHeight-2*chartPad)
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.1f,%.1f", x, y)
	}

	return chart{
		Points: b.String(),
		Min:    fmt.Sprintf("%.2f", min),
		Max:    fmt.Sprintf("%.2f", max),
	}
}
