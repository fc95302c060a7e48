package domain

import "sort"

// ClassifyForecast applies the same risk derivation to forecast points that
// history rows receive, so the alert scan sees one uniform timeline.
func ClassifyForecast(points []ForecastPoint, bands RiskBands) []ClassifiedObservation {
	out := make([]ClassifiedObservation, len(points))
	for i, p := range points {
		out[i] = Classify(p.Observation, bands)
	}
	return out
}

// CompileAlerts scans classified history and forecast in date order and
// emits one Alert per row whose resolved level is a temperature-trigger
// level (Heatwave or Severe Heatwave). High heat index alone never alerts.
// History and forecast dates are disjoint by construction (the forecast
// starts the day after history ends), so no deduplication happens across
// the boundary.
func CompileAlerts(history, forecast []ClassifiedObservation) []Alert {
	type taggedRow struct {
		row    ClassifiedObservation
		source Source
	}

	timeline := make([]taggedRow, 0, len(history)+len(forecast))
	for _, r := range history {
		timeline = append(timeline, taggedRow{row: r, source: SourceHistory})
	}
	for _, r := range forecast {
		timeline = append(timeline, taggedRow{row: r, source: SourceForecast})
	}
	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].row.Date.Before(timeline[j].row.Date)
	})

	producedAt := clock.Now()

	var alerts []Alert
	for _, t := range timeline {
		if t.row.RiskLevel != RiskHeatwave && t.row.RiskLevel != RiskSevereHeatwave {
			continue
		}
		alerts = append(alerts, Alert{
			ID:          generateAlertID(t.row.Location, t.row.Date, t.row.RiskLevel, t.source),
			Location:    t.row.Location,
			Date:        t.row.Date,
			TmaxC:       t.row.TmaxC,
			RHPercent:   t.row.RHPercent,
			HeatIndexC:  t.row.HeatIndexC,
			TriggerKind: t.row.RiskLevel,
			Source:      t.source,
			ProducedAt:  producedAt,
		})
	}
	return alerts
}
