package sources

import (
	"fmt"
	"time"
)

// UnknownProviderError is returned by New when the provider name is not in
// the registry.
type UnknownProviderError struct {
	Name string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unsupported api: %s", e.Name)
}

// MissingAPIKeyError is returned by New when a keyed provider's credentials
// are absent from the environment.
type MissingAPIKeyError struct {
	Provider string
	EnvVar   string
}

func (e *MissingAPIKeyError) Error() string {
	return fmt.Sprintf("API key for %s not found in environment (set %s)", e.Provider, e.EnvVar)
}

// InvalidSymbolError is returned when a provider has no data for a symbol,
// or the symbol fails basic validation before dispatch.
type InvalidSymbolError struct {
	Symbol string
	Reason string
}

func (e *InvalidSymbolError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid symbol %q: %s", e.Symbol, e.Reason)
	}
	return fmt.Sprintf("no data found for symbol %s", e.Symbol)
}

// DateRangeError is returned for unusable date ranges.
type DateRangeError struct {
	Start  time.Time
	End    time.Time
	Reason string
}

func (e *DateRangeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid date range: %s", e.Reason)
	}
	return fmt.Sprintf("invalid date range: start %s is after end %s",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// APIError is returned when a provider's HTTP API answers with a non-200
// status. Message carries the response body so the underlying provider
// message reaches the user unchanged.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error %d: %s", e.Provider, e.StatusCode, e.Message)
}
