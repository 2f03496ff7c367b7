package cli

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"github.com/dyike/stockfetch/internal/sources"
)

// PromptForAPIName prompts the user to pick a data source.
func PromptForAPIName(defaultAPI string) (string, error) {
	options := sources.Names()

	if defaultAPI == "" {
		defaultAPI = "yahoo_finance"
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select the data source API:",
		Options: options,
		Help:    "Keyed APIs need their credentials configured in the environment.",
		Default: defaultAPI,
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	return selected, nil
}

// PromptForSymbol prompts the user to enter a stock ticker symbol.
func PromptForSymbol() (string, error) {
	var symbol string
	prompt := &survey.Input{
		Message: "Enter the stock ticker symbol (e.g., AAPL, MSFT, GOOGL):",
		Help:    "Please enter a valid stock ticker symbol",
	}

	err := survey.AskOne(prompt, &symbol, survey.WithValidator(func(val interface{}) error {
		return validateSymbolInput(val.(string))
	}))
	if err != nil {
		return "", err
	}

	return sources.NormalizeSymbol(symbol), nil
}

// validateSymbolInput is the survey validator behind the symbol prompt.
func validateSymbolInput(str string) error {
	str = strings.TrimSpace(strings.ToUpper(str))
	if len(str) == 0 {
		return fmt.Errorf("ticker symbol cannot be empty")
	}
	if len(str) > 10 {
		return fmt.Errorf("ticker symbol too long (max 10 characters)")
	}
	matched, _ := regexp.MatchString(`^[A-Z0-9.-]+$`, str)
	if !matched {
		return fmt.Errorf("invalid ticker format (use letters, numbers, dots, and hyphens only)")
	}
	return nil
}

// PromptForGranularity prompts the user to pick a data granularity.
func PromptForGranularity(defaultGranularity string) (sources.Granularity, error) {
	options := make([]string, 0, len(sources.Granularities()))
	for _, g := range sources.Granularities() {
		options = append(options, string(g))
	}

	if _, err := sources.ParseGranularity(defaultGranularity); err != nil {
		defaultGranularity = string(sources.OneDay)
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select the data granularity:",
		Options: options,
		Help:    "Interval between data points. Not every API supports every granularity.",
		Default: defaultGranularity,
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	return sources.ParseGranularity(selected)
}

// promptForDate asks for a single date, accepting the default when the
// user just presses Enter.
func promptForDate(message string, defaultDate time.Time) (time.Time, error) {
	var dateStr string
	prompt := &survey.Input{
		Message: message,
		Help:    "Format: YYYY-MM-DD (e.g., 2024-01-15). Press Enter for the default.",
		Default: defaultDate.Format("2006-01-02"),
	}

	err := survey.AskOne(prompt, &dateStr, survey.WithValidator(func(val interface{}) error {
		return validateDateInput(val.(string))
	}))
	if err != nil {
		return time.Time{}, err
	}

	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return defaultDate, nil
	}
	return time.Parse("2006-01-02", dateStr)
}

// validateDateInput is the survey validator behind the date prompts.
func validateDateInput(str string) error {
	str = strings.TrimSpace(str)
	if str == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", str); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
