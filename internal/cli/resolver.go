package cli

import (
	"fmt"
	"time"

	"github.com/dyike/stockfetch/internal/config"
	"github.com/dyike/stockfetch/internal/sources"
)

// Options carries the raw flag values of the fetch command.
type Options struct {
	API         string
	Symbol      string
	Granularity string
	Start       string
	End         string
}

// Resolve turns flags, environment defaults, and interactive prompts
// into a complete fetch request. Flags win over the environment; the
// user is prompted for whatever remains unset. Flag values are
// validated hard, never re-prompted.
func Resolve(cfg *config.Config, opts Options) (sources.Request, error) {
	var req sources.Request

	api := opts.API
	if api == "" {
		api = cfg.DefaultAPI
	}
	if api == "" {
		var err error
		api, err = PromptForAPIName(cfg.DefaultAPI)
		if err != nil {
			return req, err
		}
	}
	req.Provider = api

	symbol := opts.Symbol
	if symbol == "" {
		var err error
		symbol, err = PromptForSymbol()
		if err != nil {
			return req, err
		}
	}
	symbol = sources.NormalizeSymbol(symbol)
	if err := sources.ValidateSymbol(symbol); err != nil {
		return req, err
	}
	req.Symbol = symbol

	if opts.Granularity != "" {
		g, err := sources.ParseGranularity(opts.Granularity)
		if err != nil {
			return req, err
		}
		req.Granularity = g
	} else {
		g, err := PromptForGranularity(cfg.DefaultGranularity)
		if err != nil {
			return req, err
		}
		req.Granularity = g
	}

	now := time.Now()
	start, err := resolveDate(opts.Start, "start", now.AddDate(0, 0, -365))
	if err != nil {
		return req, err
	}
	end, err := resolveDate(opts.End, "end", now)
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

func resolveDate(flagValue, name string, defaultDate time.Time) (time.Time, error) {
	if flagValue != "" {
		ts, err := time.Parse("2006-01-02", flagValue)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid %s date %q, use YYYY-MM-DD", name, flagValue)
		}
		return ts, nil
	}
	return promptForDate(fmt.Sprintf("Enter the %s date (YYYY-MM-DD):", name), defaultDate)
}
