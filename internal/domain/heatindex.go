package domain

import "math"

// Rothfusz regression coefficients (NWS SR 90-23), Fahrenheit domain.
const (
	hiC1 = -42.379
	hiC2 = 2.04901523
	hiC3 = 10.14333127
	hiC4 = -0.22475541
	hiC5 = -0.00683783
	hiC6 = -0.05481717
	hiC7 = 0.00122874
	hiC8 = 0.00085282
	hiC9 = -0.00000199
)

// fullRegressionThresholdF is the apparent temperature above which the full
// Rothfusz polynomial applies; below it the simplified averaging formula is
// already within the regression's error bars.
const fullRegressionThresholdF = 80.0

// HeatIndexC returns the NWS heat index (apparent temperature) in Celsius
// for a daily maximum temperature and relative humidity. Humidity is clamped
// to [0,100] before evaluation. Below ~27°C the simplified formula keeps the
// result close to the input temperature; above it the full regression with
// the dry- and humid-extreme adjustment terms applies.
func HeatIndexC(tmaxC, rhPercent float64) float64 {
	rh := clamp(rhPercent, 0, 100)
	tF := celsiusToFahrenheit(tmaxC)

	hiF := 0.5 * (tF + 61.0 + (tF-68.0)*1.2 + rh*0.094)
	if hiF >= fullRegressionThresholdF {
		hiF = rothfusz(tF, rh)
	}
	return fahrenheitToCelsius(hiF)
}

// rothfusz evaluates the full regression plus the NWS adjustment terms for
// very dry (RH < 13%) and very humid (RH > 85%) conditions.
func rothfusz(tF, rh float64) float64 {
	hi := hiC1 +
		hiC2*tF +
		hiC3*rh +
		hiC4*tF*rh +
		hiC5*tF*tF +
		hiC6*rh*rh +
		hiC7*tF*tF*rh +
		hiC8*tF*rh*rh +
		hiC9*tF*tF*rh*rh

	if rh < 13 && tF >= 80 && tF <= 112 {
		hi -= (13 - rh) / 4 * math.Sqrt((17-math.Abs(tF-95))/17)
	}
	if rh > 85 && tF >= 80 && tF <= 87 {
		hi += (rh - 85) / 10 * (87 - tF) / 5
	}
	return hi
}

func celsiusToFahrenheit(c float64) float64 { return c*9/5 + 32 }

func fahrenheitToCelsius(f float64) float64 { return (f - 32) * 5 / 9 }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
