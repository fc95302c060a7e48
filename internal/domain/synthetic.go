package domain

import (
	"math"
	"math/rand"
	"strconv"
	"time"
)

// SyntheticOptions configures the demo dataset.
type SyntheticOptions struct {
	Days      int      // series length per location; default 120
	Locations []string // default three-city set
	Seed      int64    // rng seed; default fixed for reproducible fixtures
}

// DefaultSyntheticOptions returns the standard 120-day three-city demo set.
func DefaultSyntheticOptions() SyntheticOptions {
	return SyntheticOptions{
		Days:      120,
		Locations: []string{"Delhi", "Jaipur", "Bhopal"},
		Seed:      20240426,
	}
}

// locationProfile shapes one location's seasonal curve.
type locationProfile struct {
	baseTmaxC float64 // annual mean of the daily max
	tmaxAmpC  float64 // seasonal amplitude
	baseRH    float64
	rhAmp     float64
	phase     float64 // seasonal phase offset, radians
}

var syntheticProfiles = []locationProfile{
	{baseTmaxC: 33, tmaxAmpC: 9, baseRH: 45, rhAmp: 22, phase: 0},
	{baseTmaxC: 35, tmaxAmpC: 8, baseRH: 38, rhAmp: 18, phase: 0.35},
	{baseTmaxC: 31, tmaxAmpC: 10, baseRH: 52, rhAmp: 20, phase: 0.7},
}

// MakeSynthetic produces a multi-location daily series shaped to exercise
// every risk band, with at least one severe-trigger spell per location. The
// series ends on the clock's current day. Output rows deliberately use
// upstream column aliases (Date, City, Temp_Max, Humidity) so the result
// exercises the normalizer's input contract. A fixed seed makes the dataset
// reproducible.
func MakeSynthetic(opts SyntheticOptions) []RawRow {
	defaults := DefaultSyntheticOptions()
	if opts.Days <= 0 {
		opts.Days = defaults.Days
	}
	if len(opts.Locations) == 0 {
		opts.Locations = defaults.Locations
	}
	if opts.Seed == 0 {
		opts.Seed = defaults.Seed
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	now := clock.Now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(opts.Days - 1))

	rows := make([]RawRow, 0, opts.Days*len(opts.Locations))
	for li, loc := range opts.Locations {
		profile := syntheticProfiles[li%len(syntheticProfiles)]

		// One guaranteed 3-day severe spell per location, placed in the
		// middle half of the series so the forecaster sees it as history.
		// A series too short for placement starts the spell on its first day.
		spellStart := 0
		if half := opts.Days / 2; half > 0 {
			spellStart = opts.Days/4 + rng.Intn(half)
		}

		for d := 0; d < opts.Days; d++ {
			date := start.AddDate(0, 0, d)
			season := 2 * math.Pi * float64(date.YearDay()) / 365

			tmax := profile.baseTmaxC +
				profile.tmaxAmpC*math.Sin(season+profile.phase) +
				rng.NormFloat64()*1.5
			rh := profile.baseRH +
				profile.rhAmp*math.Sin(season+profile.phase+math.Pi) +
				rng.NormFloat64()*4

			if d >= spellStart && d < spellStart+3 {
				tmax = 45.5 + rng.Float64()*2.5
				rh = clamp(rh-10, 5, 100)
			}

			rows = append(rows, RawRow{
				"Date":     date.Format(DateLayout),
				"City":     loc,
				"Temp_Max": strconv.FormatFloat(clamp(tmax, 10, 52), 'f', 1, 64),
				"Humidity": strconv.FormatFloat(clamp(rh, 5, 98), 'f', 0, 64),
			})
		}
	}
	return rows
}
