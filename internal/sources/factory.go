package sources

import (
	"sort"

	"github.com/dyike/stockfetch/internal/config"
)

type builder func(cfg *config.Config) (DataSource, error)

// registry holds every provider the fetcher can dispatch to. Builders
// resolve credentials from the configuration and fail fast with
// MissingAPIKeyError before any network call happens.
var registry = map[string]builder{
	"yahoo_finance": func(cfg *config.Config) (DataSource, error) {
		return NewYahooFinanceSource(), nil
	},
	"alpha_vantage": func(cfg *config.Config) (DataSource, error) {
		if cfg.AlphaVantageAPIKey == "" {
			return nil, &MissingAPIKeyError{Provider: "alpha_vantage", EnvVar: "ALPHA_VANTAGE_API_KEY"}
		}
		return NewAlphaVantageSource(cfg.AlphaVantageAPIKey), nil
	},
	"iex_cloud": func(cfg *config.Config) (DataSource, error) {
		if cfg.IEXCloudAPIKey == "" {
			return nil, &MissingAPIKeyError{Provider: "iex_cloud", EnvVar: "IEX_CLOUD_API_KEY"}
		}
		return NewIEXCloudSource(cfg.IEXCloudAPIKey), nil
	},
	"quandl": func(cfg *config.Config) (DataSource, error) {
		if cfg.QuandlAPIKey == "" {
			return nil, &MissingAPIKeyError{Provider: "quandl", EnvVar: "QUANDL_API_KEY"}
		}
		return NewQuandlSource(cfg.QuandlAPIKey), nil
	},
	"investing_com": func(cfg *config.Config) (DataSource, error) {
		return NewInvestingComSource(), nil
	},
	"alpaca": func(cfg *config.Config) (DataSource, error) {
		if cfg.AlpacaAPIKey == "" {
			return nil, &MissingAPIKeyError{Provider: "alpaca", EnvVar: "ALPACA_API_KEY"}
		}
		if cfg.AlpacaAPISecret == "" {
			return nil, &MissingAPIKeyError{Provider: "alpaca", EnvVar: "ALPACA_API_SECRET"}
		}
		return NewAlpacaSource(cfg.AlpacaAPIKey, cfg.AlpacaAPISecret), nil
	},
	"longport": func(cfg *config.Config) (DataSource, error) {
		if cfg.LongportAppKey == "" {
			return nil, &MissingAPIKeyError{Provider: "longport", EnvVar: "LONGPORT_APP_KEY"}
		}
		if cfg.LongportAppSecret == "" {
			return nil, &MissingAPIKeyError{Provider: "longport", EnvVar: "LONGPORT_APP_SECRET"}
		}
		if cfg.LongportAccessToken == "" {
			return nil, &MissingAPIKeyError{Provider: "longport", EnvVar: "LONGPORT_ACCESS_TOKEN"}
		}
		return NewLongportSource(cfg.LongportAppKey, cfg.LongportAppSecret, cfg.LongportAccessToken)
	},
}

// New builds the named data source. Unknown names fail with
// UnknownProviderError; keyed providers fail with MissingAPIKeyError
// when their credentials are absent.
func New(name string, cfg *config.Config) (DataSource, error) {
	build, ok := registry[name]
	if !ok {
		return nil, &UnknownProviderError{Name: name}
	}
	return build(cfg)
}

// Names returns the registered provider names in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProviderInfo describes a registered provider for listings.
type ProviderInfo struct {
	Name     string
	Requires []string
	Notes    string
}

// Providers returns display metadata for every registered provider,
// sorted by name.
func Providers() []ProviderInfo {
	infos := []ProviderInfo{
		{Name: "alpaca", Requires: []string{"ALPACA_API_KEY", "ALPACA_API_SECRET"}, Notes: "all granularities, IEX feed"},
		{Name: "alpha_vantage", Requires: []string{"ALPHA_VANTAGE_API_KEY"}, Notes: "all granularities, rate limited"},
		{Name: "investing_com", Requires: nil, Notes: "simulated data, no network"},
		{Name: "iex_cloud", Requires: []string{"IEX_CLOUD_API_KEY"}, Notes: "all granularities"},
		{Name: "longport", Requires: []string{"LONGPORT_APP_KEY", "LONGPORT_APP_SECRET", "LONGPORT_ACCESS_TOKEN"}, Notes: "daily bars only"},
		{Name: "quandl", Requires: []string{"QUANDL_API_KEY"}, Notes: "end-of-day WIKI dataset"},
		{Name: "yahoo_finance", Requires: nil, Notes: "all granularities, default"},
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
