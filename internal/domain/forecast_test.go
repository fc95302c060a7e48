package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecastLocation_Deterministic(t *testing.T) {
	history := dailySeries(t, "Delhi", "2024-05-01", 40, 35, 36, 37, 36.5, 38, 39, 40)

	first, err := ForecastLocation(history, 5, DefaultForecastOptions())
	require.NoError(t, err)
	second, err := ForecastLocation(history, 5, DefaultForecastOptions())
	require.NoError(t, err)

	require.Len(t, first, 5)
	for i := range first {
		assert.Equal(t, first[i].Observation, second[i].Observation)
	}
}

func TestForecastLocation_DateContinuity(t *testing.T) {
	history := dailySeries(t, "Delhi", "2024-05-01", 40, 35, 36, 37, 38, 39)
	lastHistory := history[len(history)-1].Date

	fc, err := ForecastLocation(history, 4, DefaultForecastOptions())
	require.NoError(t, err)
	require.Len(t, fc, 4)

	assert.Equal(t, lastHistory.AddDate(0, 0, 1), fc[0].Date, "first forecast day is D+1")
	assert.Equal(t, lastHistory.AddDate(0, 0, 4), fc[3].Date, "last forecast day is D+horizon")
	for i := 1; i < len(fc); i++ {
		assert.Equal(t, fc[i-1].Date.AddDate(0, 0, 1), fc[i].Date, "no gaps")
	}
}

func TestForecastLocation_ContinuesTrend(t *testing.T) {
	// Steady +1°C/day should project onward at roughly the same slope.
	history := dailySeries(t, "Delhi", "2024-05-01", 50, 30, 31, 32, 33, 34, 35, 36)

	fc, err := ForecastLocation(history, 3, DefaultForecastOptions())
	require.NoError(t, err)

	assert.InDelta(t, 37, fc[0].TmaxC, 0.2)
	assert.InDelta(t, 38, fc[1].TmaxC, 0.4)
	assert.InDelta(t, 39, fc[2].TmaxC, 0.6)
}

func TestForecastLocation_HumidityRevertsTowardOverallMean(t *testing.T) {
	// Dry recent week against a wetter long history: projected rh starts
	// near the trailing mean and drifts toward the all-history mean.
	history := dailySeries(t, "Delhi", "2024-04-01", 70,
		30, 30, 30, 30, 30, 30, 30, 30, 30, 30)
	for i := range history[3:] {
		history[3+i].RHPercent = 40
	}

	fc, err := ForecastLocation(history, 6, DefaultForecastOptions())
	require.NoError(t, err)

	overall := meanRH(history)
	first := fc[0].RHPercent
	last := fc[len(fc)-1].RHPercent
	assert.Less(t, absFloat(last-overall), absFloat(first-overall),
		"later days sit closer to the overall mean")
}

func TestForecastLocation_ClampsToPlausibleRanges(t *testing.T) {
	t.Run("runaway warming trend is capped", func(t *testing.T) {
		history := dailySeries(t, "Delhi", "2024-05-01", 10, 20, 30, 40, 50)

		fc, err := ForecastLocation(history, 10, DefaultForecastOptions())
		require.NoError(t, err)
		for _, p := range fc {
			assert.LessOrEqual(t, p.TmaxC, 60.0)
		}
	})

	t.Run("humidity stays within 0-100", func(t *testing.T) {
		history := dailySeries(t, "Delhi", "2024-05-01", 2, 40, 41, 42, 43)

		fc, err := ForecastLocation(history, 5, DefaultForecastOptions())
		require.NoError(t, err)
		for _, p := range fc {
			assert.GreaterOrEqual(t, p.RHPercent, 0.0)
			assert.LessOrEqual(t, p.RHPercent, 100.0)
		}
	})
}

func TestForecastLocation_Errors(t *testing.T) {
	t.Run("fewer than two points", func(t *testing.T) {
		for _, history := range [][]Observation{
			nil,
			dailySeries(t, "Delhi", "2024-05-01", 40, 35),
		} {
			_, err := ForecastLocation(history, 5, DefaultForecastOptions())
			var ihe *InsufficientHistoryError
			require.ErrorAs(t, err, &ihe)
			assert.Equal(t, len(history), ihe.Points)
		}
	})

	t.Run("non-positive horizon", func(t *testing.T) {
		history := dailySeries(t, "Delhi", "2024-05-01", 40, 35, 36, 37)
		for _, horizon := range []int{0, -3} {
			_, err := ForecastLocation(history, horizon, DefaultForecastOptions())
			var ve *ValueError
			require.ErrorAs(t, err, &ve)
		}
	})
}

func TestForecastLocation_ProvenanceAndStamp(t *testing.T) {
	frozen := time.Date(2024, time.May, 10, 6, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	history := dailySeries(t, "Delhi", "2024-05-01", 40, 35, 36, 37)
	fc, err := ForecastLocation(history, 2, DefaultForecastOptions())
	require.NoError(t, err)

	for _, p := range fc {
		assert.Equal(t, SourceForecast, p.Provenance)
		assert.Equal(t, frozen, p.GeneratedAt)
		assert.Equal(t, "Delhi", p.Location)
	}
}

func TestForecastLocation_WindowShorterThanDefault(t *testing.T) {
	// Two points are enough; the window clamps to the history length.
	history := dailySeries(t, "Delhi", "2024-05-01", 40, 35, 37)

	fc, err := ForecastLocation(history, 2, ForecastOptions{})
	require.NoError(t, err)
	assert.InDelta(t, 39, fc[0].TmaxC, 0.01)
	assert.InDelta(t, 41, fc[1].TmaxC, 0.01)
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
