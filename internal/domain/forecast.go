package domain

import "math"

// Physically plausible projection bounds, °C. Projections outside these are
// artifacts of a steep trailing trend, not weather.
const (
	minProjectedTmaxC = -50
	maxProjectedTmaxC = 60
)

// rhReversionFactor controls how fast projected humidity decays from the
// trailing mean toward the all-history mean: one factor per projected day.
const rhReversionFactor = 0.85

// ForecastOptions configures the projection.
type ForecastOptions struct {
	// TrendWindowDays is the trailing window used for the tmax slope and the
	// rh mean. Defaults to 7 when zero; clamped to the history length.
	TrendWindowDays int
}

// DefaultForecastOptions returns the standard week-long trailing window.
func DefaultForecastOptions() ForecastOptions {
	return ForecastOptions{TrendWindowDays: 7}
}

// ForecastLocation projects a single location's daily series horizonDays
// into the future. The projection is closed-form and deterministic: tmax
// follows a least-squares slope over the trailing window anchored at the
// last observation, rh decays from its trailing mean toward the all-history
// mean. Every point derives from the history alone, never from earlier
// forecast points. Dates continue the history with no gap.
//
// Returns *ValueError for a non-positive horizon and
// *InsufficientHistoryError when history has fewer than 2 points.
func ForecastLocation(history []Observation, horizonDays int, opts ForecastOptions) ([]ForecastPoint, error) {
	if horizonDays <= 0 {
		return nil, &ValueError{Field: "horizon_days", Msg: "must be a positive integer"}
	}
	if len(history) < 2 {
		loc := ""
		if len(history) == 1 {
			loc = history[0].Location
		}
		return nil, &InsufficientHistoryError{Location: loc, Points: len(history)}
	}

	window := opts.TrendWindowDays
	if window <= 0 {
		window = DefaultForecastOptions().TrendWindowDays
	}
	if window > len(history) {
		window = len(history)
	}

	tail := history[len(history)-window:]
	slope := tmaxSlope(tail)
	trailingRH := meanRH(tail)
	overallRH := meanRH(history)

	last := history[len(history)-1]
	generatedAt := clock.Now()

	points := make([]ForecastPoint, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		decay := math.Pow(rhReversionFactor, float64(i))
		points[i-1] = ForecastPoint{
			Observation: Observation{
				Location:  last.Location,
				Date:      last.Date.AddDate(0, 0, i),
				TmaxC:     clamp(last.TmaxC+slope*float64(i), minProjectedTmaxC, maxProjectedTmaxC),
				RHPercent: clamp(overallRH+(trailingRH-overallRH)*decay, 0, 100),
			},
			Provenance:  SourceForecast,
			GeneratedAt: generatedAt,
		}
	}
	return points, nil
}

// tmaxSlope fits a least-squares line through the window's tmax values
// against day offsets and returns its slope in °C per day. A window of one
// point has no trend.
func tmaxSlope(window []Observation) float64 {
	n := float64(len(window))
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, o := range window {
		x := float64(i)
		sumX += x
		sumY += o.TmaxC
		sumXY += x * o.TmaxC
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

func meanRH(obs []Observation) float64 {
	if len(obs) == 0 {
		return 0
	}
	var sum float64
	for _, o := range obs {
		sum += o.RHPercent
	}
	return sum / float64(len(obs))
}
