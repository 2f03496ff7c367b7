package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/stockfetch/internal/config"
)

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New("bloomberg", &config.Config{})
	var unknownErr *UnknownProviderError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "bloomberg", unknownErr.Name)
	assert.Equal(t, "unsupported api: bloomberg", err.Error())
}

func TestNew_KeylessProviders(t *testing.T) {
	for _, name := range []string{"yahoo_finance", "investing_com"} {
		src, err := New(name, &config.Config{})
		require.NoError(t, err, "provider %s", name)
		assert.Equal(t, name, src.Name())
	}
}

func TestNew_MissingKeys(t *testing.T) {
	tests := []struct {
		provider string
		cfg      *config.Config
		envVar   string
	}{
		{"alpha_vantage", &config.Config{}, "ALPHA_VANTAGE_API_KEY"},
		{"iex_cloud", &config.Config{}, "IEX_CLOUD_API_KEY"},
		{"quandl", &config.Config{}, "QUANDL_API_KEY"},
		{"alpaca", &config.Config{}, "ALPACA_API_KEY"},
		{"alpaca", &config.Config{AlpacaAPIKey: "k"}, "ALPACA_API_SECRET"},
		{"longport", &config.Config{}, "LONGPORT_APP_KEY"},
		{"longport", &config.Config{LongportAppKey: "k"}, "LONGPORT_APP_SECRET"},
		{"longport", &config.Config{LongportAppKey: "k", LongportAppSecret: "s"}, "LONGPORT_ACCESS_TOKEN"},
	}

	for _, tt := range tests {
		_, err := New(tt.provider, tt.cfg)
		var keyErr *MissingAPIKeyError
		require.ErrorAs(t, err, &keyErr, "provider %s", tt.provider)
		assert.Equal(t, tt.provider, keyErr.Provider)
		assert.Equal(t, tt.envVar, keyErr.EnvVar)
	}
}

func TestNew_KeyedProviders(t *testing.T) {
	src, err := New("alpha_vantage", &config.Config{AlphaVantageAPIKey: "demo"})
	require.NoError(t, err)
	assert.Equal(t, "alpha_vantage", src.Name())

	src, err = New("iex_cloud", &config.Config{IEXCloudAPIKey: "demo"})
	require.NoError(t, err)
	assert.Equal(t, "iex_cloud", src.Name())

	src, err = New("quandl", &config.Config{QuandlAPIKey: "demo"})
	require.NoError(t, err)
	assert.Equal(t, "quandl", src.Name())

	src, err = New("alpaca", &config.Config{AlpacaAPIKey: "k", AlpacaAPISecret: "s"})
	require.NoError(t, err)
	assert.Equal(t, "alpaca", src.Name())
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{
		"alpaca",
		"alpha_vantage",
		"iex_cloud",
		"investing_com",
		"longport",
		"quandl",
		"yahoo_finance",
	}, names)
}

func TestProviders(t *testing.T) {
	infos := Providers()
	require.Len(t, infos, len(Names()))
	for i, info := range infos {
		assert.Equal(t, Names()[i], info.Name)
	}
}
