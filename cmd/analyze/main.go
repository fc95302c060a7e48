// Command analyze runs the heat-warning analytics over an observations CSV
// without Kafka: it normalizes the table, classifies the history, projects
// the forecast, and writes the compiled alert table.
//
// Usage:
//
//	go run ./cmd/analyze \
//	  -input data/observations.csv \
//	  -out alerts.csv \
//	  -xlsx alerts.xlsx \
//	  -horizon 5 \
//	  -thresholds thresholds.yaml
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/couchcryptid/heatwave-ews/internal/config"
	"github.com/couchcryptid/heatwave-ews/internal/domain"
	"github.com/couchcryptid/heatwave-ews/internal/export"
	"github.com/couchcryptid/heatwave-ews/internal/observability"
	"github.com/couchcryptid/heatwave-ews/internal/pipeline"
)

func main() {
	input := flag.String("input", "", "path to the observations CSV")
	out := flag.String("out", "", "output path for the alerts CSV")
	xlsxOut := flag.String("xlsx", "", "optional output path for the alerts XLSX workbook")
	horizon := flag.Int("horizon", 0, "forecast horizon in days (0 uses the configured default)")
	thresholds := flag.String("thresholds", "", "optional thresholds YAML overriding the default bands")
	flag.Parse()

	if *input == "" || *out == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*input, *out, *xlsxOut, *horizon, *thresholds); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

func run(inputPath, outPath, xlsxPath string, horizon int, thresholdsPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if thresholdsPath != "" {
		if err := cfg.ApplyThresholds(thresholdsPath); err != nil {
			return err
		}
	}
	if horizon <= 0 {
		horizon = cfg.HorizonDays
	}

	rows, err := loadCSV(inputPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", inputPath, err)
	}

	logger := observability.NewLogger("warn", "text")
	analyzer := pipeline.NewAnalyzer(cfg.RiskBands, cfg.ForecastOptions(), cfg.HorizonDays, logger)

	result, err := analyzer.Analyze(rows, horizon)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	if err := writeAlertsCSV(outPath, result.Alerts); err != nil {
		return err
	}
	fmt.Printf("wrote %d alert(s): %s\n", len(result.Alerts), outPath)

	if xlsxPath != "" {
		if err := writeAlertsXLSX(xlsxPath, result.Alerts); err != nil {
			return err
		}
		fmt.Printf("wrote workbook: %s\n", xlsxPath)
	}

	printSummary(result, horizon)
	return nil
}

// loadCSV reads an observations CSV into raw rows keyed by header name.
func loadCSV(path string) ([]domain.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) < 2 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	header := all[0]
	rows := make([]domain.RawRow, 0, len(all)-1)
	for _, record := range all[1:] {
		row := make(domain.RawRow, len(header))
		for j, h := range header {
			if j < len(record) {
				row[h] = strings.TrimSpace(record[j])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func writeAlertsCSV(path string, alerts []domain.Alert) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	if err := export.WriteCSV(f, alerts); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func writeAlertsXLSX(path string, alerts []domain.Alert) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	if err := export.WriteXLSX(f, alerts); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// locationSummary aggregates per-location counts for the stdout report.
type locationSummary struct {
	historyDays  int
	forecastDays int
	alerts       map[domain.RiskLevel]int
	peakHeatC    float64
}

func printSummary(result pipeline.Result, horizon int) {
	summaries := map[string]*locationSummary{}
	get := func(location string) *locationSummary {
		s, ok := summaries[location]
		if !ok {
			s = &locationSummary{alerts: map[domain.RiskLevel]int{}}
			summaries[location] = s
		}
		return s
	}

	for _, c := range result.History {
		s := get(c.Location)
		s.historyDays++
		if c.HeatIndexC > s.peakHeatC {
			s.peakHeatC = c.HeatIndexC
		}
	}
	for _, c := range result.Forecast {
		s := get(c.Location)
		s.forecastDays++
		if c.HeatIndexC > s.peakHeatC {
			s.peakHeatC = c.HeatIndexC
		}
	}
	for _, a := range result.Alerts {
		get(a.Location).alerts[a.TriggerKind]++
	}

	locations := make([]string, 0, len(summaries))
	for l := range summaries {
		locations = append(locations, l)
	}
	sort.Strings(locations)

	fmt.Printf("\n=== Heat analysis (horizon %dd) ===\n", horizon)
	for _, l := range locations {
		s := summaries[l]
		fmt.Printf("  %-12s %3d observed, %d projected, peak heat index %.1fC",
			l, s.historyDays, s.forecastDays, s.peakHeatC)
		if n := s.alerts[domain.RiskSevereHeatwave]; n > 0 {
			fmt.Printf(", %d severe heatwave day(s)", n)
		}
		if n := s.alerts[domain.RiskHeatwave]; n > 0 {
			fmt.Printf(", %d heatwave day(s)", n)
		}
		fmt.Println()
	}
	for _, skipped := range result.Skipped {
		fmt.Printf("  %-12s skipped: insufficient history for a trend\n", skipped)
	}
}
