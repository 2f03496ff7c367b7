package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Fetch defaults
	DefaultAPI         string `json:"default_api"`
	DefaultGranularity string `json:"default_granularity"`

	// Web interface
	WebHost     string `json:"web_host"`
	WebPort     int    `json:"web_port"`
	OpenBrowser bool   `json:"open_browser"`

	Debug bool `json:"debug"`

	// Provider API keys
	AlphaVantageAPIKey string `json:"alpha_vantage_api_key"`
	IEXCloudAPIKey     string `json:"iex_cloud_api_key"`
	QuandlAPIKey       string `json:"quandl_api_key"`
	AlpacaAPIKey       string `json:"alpaca_api_key"`
	AlpacaAPISecret    string `json:"alpaca_api_secret"`

	// Longport API configuration
	LongportAppKey      string `json:"longport_app_key"`
	LongportAppSecret   string `json:"longport_app_secret"`
	LongportAccessToken string `json:"longport_access_token"`
}

func DefaultConfig() *Config {
	cfg := &Config{
		DefaultGranularity: "1d",
		WebHost:            "127.0.0.1",
		WebPort:            5000,
		OpenBrowser:        true,
		Debug:              false,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	// Override with environment variables if they exist
	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("API_NAME"); val != "" {
		c.DefaultAPI = val
	}

	if val := os.Getenv("STOCKFETCH_WEB_HOST"); val != "" {
		c.WebHost = val
	}
	if val := os.Getenv("STOCKFETCH_WEB_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.WebPort = port
		}
	}
	if val := os.Getenv("STOCKFETCH_OPEN_BROWSER"); val != "" {
		if open, err := strconv.ParseBool(val); err == nil {
			c.OpenBrowser = open
		}
	}
	if val := os.Getenv("STOCKFETCH_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}

	if val := os.Getenv("ALPHA_VANTAGE_API_KEY"); val != "" {
		c.AlphaVantageAPIKey = val
	}
	if val := os.Getenv("IEX_CLOUD_API_KEY"); val != "" {
		c.IEXCloudAPIKey = val
	}
	if val := os.Getenv("QUANDL_API_KEY"); val != "" {
		c.QuandlAPIKey = val
	}
	if val := os.Getenv("ALPACA_API_KEY"); val != "" {
		c.AlpacaAPIKey = val
	}
	if val := os.Getenv("ALPACA_API_SECRET"); val != "" {
		c.AlpacaAPISecret = val
	}

	if val := os.Getenv("LONGPORT_APP_KEY"); val != "" {
		c.LongportAppKey = val
	}
	if val := os.Getenv("LONGPORT_APP_SECRET"); val != "" {
		c.LongportAppSecret = val
	}
	if val := os.Getenv("LONGPORT_ACCESS_TOKEN"); val != "" {
		c.LongportAccessToken = val
	}
}

// WebAddr returns the host:port pair the web interface listens on.
func (c *Config) WebAddr() string {
	return c.WebHost + ":" + strconv.Itoa(c.WebPort)
}
