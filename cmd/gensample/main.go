// Command gensample writes a synthetic observations CSV with the raw alias
// headers an upstream exporter would produce. The series always contains a
// multi-day severe spell per location, so the fixture exercises every alert
// path. A fixed clock anchors the series end date for reproducible output.
//
// Usage:
//
//	go run ./cmd/gensample -out data/observations.csv -days 120 -seed 20240426
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/heatwave-ews/internal/domain"
)

// sampleColumns is the alias header order of the generated fixture.
var sampleColumns = []string{"Date", "City", "Temp_Max", "Humidity"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	defaults := domain.DefaultSyntheticOptions()

	out := flag.String("out", "", "output path for the observations CSV")
	days := flag.Int("days", defaults.Days, "length of the series per location")
	seed := flag.Int64("seed", defaults.Seed, "random seed")
	locations := flag.String("locations", strings.Join(defaults.Locations, ","), "comma-separated location names")
	anchor := flag.String("anchor", "2024-04-26", "end date of the series (YYYY-MM-DD)")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	anchorDate, err := time.Parse(domain.DateLayout, *anchor)
	if err != nil {
		return fmt.Errorf("parse anchor date: %w", err)
	}

	// Fix the clock so the same flags always produce the same file.
	domain.SetClock(clockwork.NewFakeClockAt(anchorDate.Add(6 * time.Hour)))
	defer domain.SetClock(nil)

	opts := domain.SyntheticOptions{
		Days:      *days,
		Locations: splitLocations(*locations),
		Seed:      *seed,
	}
	rows := domain.MakeSynthetic(opts)

	if err := writeCSV(*out, rows); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	log.Printf("wrote %d rows (%d locations x %d days): %s",
		len(rows), len(opts.Locations), opts.Days, *out)
	return nil
}

func splitLocations(raw string) []string {
	parts := strings.Split(raw, ",")
	locations := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			locations = append(locations, trimmed)
		}
	}
	return locations
}

func writeCSV(path string, rows []domain.RawRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(sampleColumns); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(sampleColumns))
		for i, col := range sampleColumns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
