// Package export renders compiled alert tables for downstream consumers.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/heatwave-ews/internal/domain"
)

// alertColumns is the stable export schema, shared by both formats.
var alertColumns = []string{
	"location", "date", "tmax_c", "rh_percent", "heat_index_c", "trigger_kind", "source",
}

func alertRecord(a domain.Alert) []string {
	return []string{
		a.Location,
		a.Date.Format(domain.DateLayout),
		strconv.FormatFloat(a.TmaxC, 'f', 1, 64),
		strconv.FormatFloat(a.RHPercent, 'f', 1, 64),
		strconv.FormatFloat(a.HeatIndexC, 'f', 1, 64),
		string(a.TriggerKind),
		string(a.Source),
	}
}

// WriteCSV writes the alert table as CSV, header row first.
func WriteCSV(w io.Writer, alerts []domain.Alert) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(alertColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, a := range alerts {
		if err := cw.Write(alertRecord(a)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the alert table as a single-sheet workbook named Alerts.
func WriteXLSX(w io.Writer, alerts []domain.Alert) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	const sheet = "Alerts"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(alertColumns))
	for i, c := range alertColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	for i, a := range alerts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			a.Location,
			a.Date.Format(domain.DateLayout),
			a.TmaxC,
			a.RHPercent,
			a.HeatIndexC,
			string(a.TriggerKind),
			string(a.Source),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
