package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dyike/stockfetch/internal/sources"
)

// WriteBars saves fetched rows to path. The format follows the file
// extension: .csv or .json. Rows are written in the order given.
func WriteBars(path string, req sources.Request, bars []sources.Bar) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return writeCSV(path, req, bars)
	case ".json":
		return writeJSON(path, bars)
	default:
		return fmt.Errorf("unsupported output format %q (use .csv or .json)", filepath.Ext(path))
	}
}

func writeCSV(path string, req sources.Request, bars []sources.Bar) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	headers := []string{"Symbol", "Date", "Open", "High", "Low", "Close", "Volume"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	layout := "2006-01-02"
	if req.Granularity.Intraday() {
		layout = "2006-01-02 15:04:05"
	}

	for _, bar := range bars {
		row := []string{
			req.Symbol,
			bar.Timestamp.Format(layout),
			bar.Open.StringFixed(4),
			bar.High.StringFixed(4),
			bar.Low.StringFixed(4),
			bar.Close.StringFixed(4),
			strconv.FormatInt(bar.Volume, 10),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeJSON(path string, bars []sources.Bar) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(bars, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rows to JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}
