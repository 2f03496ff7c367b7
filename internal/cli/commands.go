package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyike/stockfetch/internal/config"
	"github.com/dyike/stockfetch/internal/display"
	"github.com/dyike/stockfetch/internal/export"
	"github.com/dyike/stockfetch/internal/sources"
	"github.com/dyike/stockfetch/internal/web"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	// Initialize configuration early
	cfg := config.DefaultConfig()

	var opts Options
	var output string
	var runWeb bool

	rootCmd := &cobra.Command{
		Use:   "stockfetch",
		Short: "stockfetch - historical and real-time stock data fetcher",
		Long: `stockfetch pulls historical price data and a real-time quote for a stock
symbol from your choice of market data API, prints them to the terminal,
and can export the rows or serve the same flow as a local web page.

Anything not given as a flag is asked for interactively.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}

			if runWeb {
				return runWebServer(cfg)
			}

			if opts.API == "" && opts.Symbol == "" {
				DisplayWelcomeBanner()
			}

			req, err := Resolve(cfg, opts)
			if err != nil {
				return err
			}

			return runFetch(cfg, req, output)
		},
	}

	rootCmd.Flags().StringVarP(&opts.API, "api", "a", "", "Data source API name (e.g. yahoo_finance, alpha_vantage)")
	rootCmd.Flags().StringVarP(&opts.Symbol, "symbol", "s", "", "Stock ticker symbol (e.g. AAPL)")
	rootCmd.Flags().StringVarP(&opts.Granularity, "granularity", "g", "", "Data granularity (1m, 5m, 15m, 30m, 1h, 1d, 1wk, 1mo)")
	rootCmd.Flags().StringVar(&opts.Start, "start", "", "Start date in YYYY-MM-DD format (default: one year ago)")
	rootCmd.Flags().StringVar(&opts.End, "end", "", "End date in YYYY-MM-DD format (default: today)")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "Write fetched rows to a .csv or .json file")
	rootCmd.Flags().BoolVarP(&runWeb, "web", "w", false, "Serve the fetcher as a local web page instead")

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")

	// Add subcommands
	rootCmd.AddCommand(newProvidersCmd())
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// runFetch executes the main fetch workflow: historical rows first,
// then the real-time quote, then the optional export.
func runFetch(cfg *config.Config, req sources.Request, output string) error {
	ctx := context.Background()

	source, err := sources.New(req.Provider, cfg)
	if err != nil {
		return err
	}

	display.DisplayInfo(fmt.Sprintf("Fetching %s data for %s (%s, %s)",
		req.Provider, req.Symbol, req.Granularity, sources.FormatDateRange(req.Start, req.End)))

	started := time.Now()
	bars, err := source.GetHistoricalData(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to fetch historical data: %w", err)
	}
	if cfg.Debug {
		display.DisplayInfo(fmt.Sprintf("historical fetch took %s", time.Since(started).Round(time.Millisecond)))
	}

	display.RenderBars(os.Stdout, req, bars)

	started = time.Now()
	quote, err := source.GetRealTimeData(ctx, req.Symbol)
	if err != nil {
		return fmt.Errorf("failed to fetch real-time data: %w", err)
	}
	if cfg.Debug {
		display.DisplayInfo(fmt.Sprintf("real-time fetch took %s", time.Since(started).Round(time.Millisecond)))
	}

	display.RenderQuote(os.Stdout, quote)

	if output != "" {
		if err := export.WriteBars(output, req, bars); err != nil {
			return err
		}
		display.DisplaySuccess(fmt.Sprintf("Saved %d rows to %s", len(bars), output))
	}

	return nil
}

// runWebServer serves the web interface until interrupted.
func runWebServer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := web.NewServer(cfg)
	return server.Run(ctx)
}

// newProvidersCmd creates the providers command
func newProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the available data source APIs",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(headerStyle.Render("📡 Available data sources"))
			fmt.Println()
			for _, info := range sources.Providers() {
				fmt.Printf("  %-15s %s\n", info.Name, info.Notes)
				if len(info.Requires) > 0 {
					fmt.Printf("  %-15s %s\n", "", dimStyle.Render("requires "+strings.Join(info.Requires, ", ")))
				}
			}
			fmt.Println()
			fmt.Println(dimStyle.Render("Pick one with --api or the API_NAME environment variable."))
		},
	}
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("stockfetch %s\n", Version)
			fmt.Println("Historical and real-time stock data fetcher")
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Inspect the resolved stockfetch configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check which data sources are ready to use",
		Run: func(cmd *cobra.Command, args []string) {
			validateConfig(cfg)
		},
	})

	return configCmd
}

// showConfig displays the current configuration
func showConfig(cfg *config.Config) {
	fmt.Println("📋 Current stockfetch configuration:")
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("Default API:          %s\n", orUnset(cfg.DefaultAPI))
	fmt.Printf("Default Granularity:  %s\n", cfg.DefaultGranularity)
	fmt.Printf("Web Address:          http://%s/\n", cfg.WebAddr())
	fmt.Printf("Open Browser:         %t\n", cfg.OpenBrowser)
	fmt.Printf("Debug Mode:           %t\n", cfg.Debug)
	fmt.Println()

	fmt.Println("🔑 API credentials:")
	fmt.Println("───────────────────")
	fmt.Printf("Alpha Vantage:        %s\n", maskKey(cfg.AlphaVantageAPIKey))
	fmt.Printf("IEX Cloud:            %s\n", maskKey(cfg.IEXCloudAPIKey))
	fmt.Printf("Quandl:               %s\n", maskKey(cfg.QuandlAPIKey))
	fmt.Printf("Alpaca Key/Secret:    %s / %s\n", maskKey(cfg.AlpacaAPIKey), maskKey(cfg.AlpacaAPISecret))
	fmt.Printf("Longport App Key:     %s\n", maskKey(cfg.LongportAppKey))
	fmt.Printf("Longport App Secret:  %s\n", maskKey(cfg.LongportAppSecret))
	fmt.Printf("Longport Token:       %s\n", maskKey(cfg.LongportAccessToken))
}

// validateConfig reports which providers are usable with the current
// environment.
func validateConfig(cfg *config.Config) {
	fmt.Println("🔍 Checking data source credentials...")
	fmt.Println("═══════════════════════════════════════")

	ready := 0
	for _, name := range sources.Names() {
		// Longport dials its endpoint on construction, so only
		// credential presence is checked for it.
		if name == "longport" {
			if cfg.LongportAppKey != "" && cfg.LongportAppSecret != "" && cfg.LongportAccessToken != "" {
				fmt.Printf("  ✅ %s\n", name)
				ready++
			} else {
				fmt.Printf("  ❌ %s (set LONGPORT_APP_KEY, LONGPORT_APP_SECRET, LONGPORT_ACCESS_TOKEN)\n", name)
			}
			continue
		}

		if _, err := sources.New(name, cfg); err != nil {
			fmt.Printf("  ❌ %s (%v)\n", name, err)
			continue
		}
		fmt.Printf("  ✅ %s\n", name)
		ready++
	}

	fmt.Println()
	fmt.Printf("%d of %d data sources ready.\n", ready, len(sources.Names()))
}

func maskKey(key string) string {
	if key == "" {
		return "❌ not set"
	}
	if len(key) <= 4 {
		return "✅ ****"
	}
	return "✅ ****" + key[len(key)-4:]
}

func orUnset(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}
