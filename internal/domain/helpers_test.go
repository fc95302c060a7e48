package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	require.NoError(t, err)
	return d
}

// dailySeries builds an ordered daily history for one location starting at
// start, one entry per element of tmax, with constant humidity.
func dailySeries(t *testing.T, location, start string, rh float64, tmax ...float64) []Observation {
	t.Helper()
	first := mustDate(t, start)
	obs := make([]Observation, len(tmax))
	for i, v := range tmax {
		obs[i] = Observation{
			Location:  location,
			Date:      first.AddDate(0, 0, i),
			TmaxC:     v,
			RHPercent: rh,
		}
	}
	return obs
}
