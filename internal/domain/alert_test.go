package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileAlerts_OnlyTriggerLevels(t *testing.T) {
	bands := DefaultRiskBands()

	// Heat index alone can reach Extreme Danger without ever alerting.
	history := ClassifyAll(dailySeries(t, "Delhi", "2024-05-01", 90,
		35, 36, 37, 38, 39), bands)
	for _, c := range history {
		require.NotEqual(t, RiskHeatwave, c.RiskLevel)
		require.NotEqual(t, RiskSevereHeatwave, c.RiskLevel)
	}

	alerts := CompileAlerts(history, nil)
	assert.Empty(t, alerts, "no alert without a temperature trigger")
}

func TestCompileAlerts_CarriesFieldsAndProvenance(t *testing.T) {
	frozen := time.Date(2024, time.May, 20, 9, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	bands := DefaultRiskBands()
	history := ClassifyAll(dailySeries(t, "Delhi", "2024-05-01", 30, 39, 46), bands)
	forecastPoints, err := ForecastLocation(dailySeries(t, "Delhi", "2024-05-01", 30, 39, 46), 2, DefaultForecastOptions())
	require.NoError(t, err)
	forecast := ClassifyForecast(forecastPoints, bands)

	alerts := CompileAlerts(history, forecast)
	require.NotEmpty(t, alerts)

	first := alerts[0]
	assert.Equal(t, "Delhi", first.Location)
	assert.Equal(t, mustDate(t, "2024-05-02"), first.Date)
	assert.Equal(t, 46.0, first.TmaxC)
	assert.Equal(t, 30.0, first.RHPercent)
	assert.Equal(t, RiskSevereHeatwave, first.TriggerKind)
	assert.Equal(t, SourceHistory, first.Source)
	assert.Equal(t, frozen, first.ProducedAt)
	assert.True(t, strings.HasPrefix(first.ID, "heat-"))

	// The +7°C/day trend keeps the forecast above the severe trigger.
	var forecastAlerts int
	for _, a := range alerts[1:] {
		assert.Equal(t, SourceForecast, a.Source)
		forecastAlerts++
	}
	assert.Equal(t, 2, forecastAlerts)
}

func TestCompileAlerts_DateOrderAcrossSources(t *testing.T) {
	bands := DefaultRiskBands()
	history := ClassifyAll(dailySeries(t, "Delhi", "2024-05-01", 20, 41, 42, 43), bands)
	points, err := ForecastLocation(dailySeries(t, "Delhi", "2024-05-01", 20, 41, 42, 43), 3, DefaultForecastOptions())
	require.NoError(t, err)
	forecast := ClassifyForecast(points, bands)

	alerts := CompileAlerts(history, forecast)
	require.GreaterOrEqual(t, len(alerts), 4)

	for i := 1; i < len(alerts); i++ {
		assert.False(t, alerts[i].Date.Before(alerts[i-1].Date), "alerts sorted by date")
	}
	assert.Equal(t, SourceHistory, alerts[0].Source)
	assert.Equal(t, SourceForecast, alerts[len(alerts)-1].Source)
}

func TestCompileAlerts_DeterministicIDs(t *testing.T) {
	bands := DefaultRiskBands()
	history := ClassifyAll(dailySeries(t, "Delhi", "2024-05-01", 20, 41, 46), bands)

	first := CompileAlerts(history, nil)
	second := CompileAlerts(history, nil)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestCompileAlerts_RisingSeriesEndToEnd(t *testing.T) {
	// Ten days climbing 30→46°C at constant 50% humidity, horizon 3.
	bands := DefaultRiskBands()
	tmax := make([]float64, 10)
	for i := range tmax {
		tmax[i] = 30 + float64(i)*16.0/9.0
	}
	raw := dailySeries(t, "Delhi", "2024-05-01", 50, tmax...)

	history := ClassifyAll(raw, bands)
	assert.Equal(t, RiskSevereHeatwave, history[len(history)-1].RiskLevel,
		"last history day crosses the severe trigger")

	points, err := ForecastLocation(raw, 3, DefaultForecastOptions())
	require.NoError(t, err)
	forecast := ClassifyForecast(points, bands)

	alerts := CompileAlerts(history, forecast)
	require.NotEmpty(t, alerts)

	var severeHistory, forecastSourced int
	for _, a := range alerts {
		assert.Contains(t, []RiskLevel{RiskHeatwave, RiskSevereHeatwave}, a.TriggerKind)
		if a.Source == SourceHistory && a.TriggerKind == RiskSevereHeatwave {
			severeHistory++
		}
		if a.Source == SourceForecast {
			forecastSourced++
		}
	}
	assert.GreaterOrEqual(t, severeHistory, 1)
	assert.GreaterOrEqual(t, forecastSourced, 1, "the rising trend keeps forecast days above the trigger")
}
