package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGranularity(t *testing.T) {
	for _, g := range Granularities() {
		parsed, err := ParseGranularity(string(g))
		require.NoError(t, err)
		assert.Equal(t, g, parsed)
	}
}

func TestParseGranularity_Invalid(t *testing.T) {
	for _, input := range []string{"", "2d", "1D", "daily", "60min"} {
		_, err := ParseGranularity(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestGranularityIntraday(t *testing.T) {
	tests := []struct {
		granularity Granularity
		intraday    bool
	}{
		{OneMinute, true},
		{FiveMinutes, true},
		{FifteenMinutes, true},
		{ThirtyMinutes, true},
		{OneHour, true},
		{OneDay, false},
		{OneWeek, false},
		{OneMonth, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.intraday, tt.granularity.Intraday(), "granularity %s", tt.granularity)
	}
}
