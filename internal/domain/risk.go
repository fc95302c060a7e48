package domain

import "fmt"

// RiskLevel is the discrete severity label for one day.
type RiskLevel string

const (
	RiskSafe           RiskLevel = "Safe"
	RiskCaution        RiskLevel = "Caution"
	RiskExtremeCaution RiskLevel = "Extreme Caution"
	RiskDanger         RiskLevel = "Danger"
	RiskExtremeDanger  RiskLevel = "Extreme Danger"
	RiskHeatwave       RiskLevel = "Heatwave"
	RiskSevereHeatwave RiskLevel = "Severe Heatwave"
)

// riskLevels lists every level a classification can resolve to. The palette
// must cover all of them; ValidateRiskBands enforces that.
var riskLevels = []RiskLevel{
	RiskSafe, RiskCaution, RiskExtremeCaution, RiskDanger, RiskExtremeDanger,
	RiskHeatwave, RiskSevereHeatwave,
}

// RiskStyle is the display color and human-readable note for a level.
type RiskStyle struct {
	Color string `yaml:"color"`
	Note  string `yaml:"note"`
}

// RiskBands holds the classification thresholds. Heat-index cut-points are
// closed below, open above: a heat index of exactly CautionHI classifies as
// Caution. Temperature triggers are independent of the heat index.
type RiskBands struct {
	CautionHI        float64 `yaml:"caution_hi_c"`
	ExtremeCautionHI float64 `yaml:"extreme_caution_hi_c"`
	DangerHI         float64 `yaml:"danger_hi_c"`
	ExtremeDangerHI  float64 `yaml:"extreme_danger_hi_c"`

	HeatwaveTmax float64 `yaml:"heatwave_tmax_c"`
	SevereTmax   float64 `yaml:"severe_heatwave_tmax_c"`
}

// DefaultRiskBands returns the documented operational thresholds.
func DefaultRiskBands() RiskBands {
	return RiskBands{
		CautionHI:        27,
		ExtremeCautionHI: 32,
		DangerHI:         41,
		ExtremeDangerHI:  54,
		HeatwaveTmax:     40,
		SevereTmax:       45,
	}
}

// ValidateRiskBands rejects threshold overrides that break the ordering the
// classifier depends on. A palette gap is a configuration bug, checked here
// rather than tolerated at classification time.
func ValidateRiskBands(b RiskBands) error {
	if !(b.CautionHI < b.ExtremeCautionHI && b.ExtremeCautionHI < b.DangerHI && b.DangerHI < b.ExtremeDangerHI) {
		return &ValueError{Field: "risk_bands", Msg: "heat-index cut-points must be strictly ascending"}
	}
	if b.HeatwaveTmax >= b.SevereTmax {
		return &ValueError{Field: "risk_bands", Msg: "heatwave trigger must be below severe trigger"}
	}
	for _, level := range riskLevels {
		if _, ok := riskPalette[level]; !ok {
			return &ValueError{Field: "palette", Msg: fmt.Sprintf("no style for level %q", level)}
		}
	}
	return nil
}

// riskPalette is the fixed style lookup keyed by resolved level.
var riskPalette = map[RiskLevel]RiskStyle{
	RiskSafe:           {Color: "#808080", Note: "No heat stress expected."},
	RiskCaution:        {Color: "#f1c40f", Note: "Fatigue possible with prolonged exposure."},
	RiskExtremeCaution: {Color: "#e67e22", Note: "Heat cramps and exhaustion possible; limit outdoor activity."},
	RiskDanger:         {Color: "#e74c3c", Note: "Heat exhaustion likely; heat stroke possible with exposure."},
	RiskExtremeDanger:  {Color: "#8e0000", Note: "Heat stroke imminent risk; avoid exposure."},
	RiskHeatwave:       {Color: "#e74c3c", Note: "Temperature trigger: daily max at or above heatwave threshold."},
	RiskSevereHeatwave: {Color: "#8e0000", Note: "Temperature trigger: daily max at or above severe heatwave threshold."},
}

// ClassifyRisk resolves a day's risk level from its heat index and maximum
// temperature. The temperature triggers override the heat-index band when
// they fire; otherwise the band stands. The underlying band is appended to
// the note on override so the heat-index signal stays visible.
func ClassifyRisk(heatIndexC, tmaxC float64, bands RiskBands) (RiskLevel, RiskStyle) {
	band := heatIndexBand(heatIndexC, bands)

	switch {
	case tmaxC >= bands.SevereTmax:
		return overlay(RiskSevereHeatwave, band)
	case tmaxC >= bands.HeatwaveTmax:
		return overlay(RiskHeatwave, band)
	default:
		return band, riskPalette[band]
	}
}

func heatIndexBand(heatIndexC float64, bands RiskBands) RiskLevel {
	switch {
	case heatIndexC < bands.CautionHI:
		return RiskSafe
	case heatIndexC < bands.ExtremeCautionHI:
		return RiskCaution
	case heatIndexC < bands.DangerHI:
		return RiskExtremeCaution
	case heatIndexC < bands.ExtremeDangerHI:
		return RiskDanger
	default:
		return RiskExtremeDanger
	}
}

func overlay(trigger, band RiskLevel) (RiskLevel, RiskStyle) {
	style := riskPalette[trigger]
	style.Note = fmt.Sprintf("%s Heat-index band: %s.", style.Note, band)
	return trigger, style
}

// Classify derives the full classified record for one observation.
func Classify(o Observation, bands RiskBands) ClassifiedObservation {
	hi := HeatIndexC(o.TmaxC, o.RHPercent)
	level, style := ClassifyRisk(hi, o.TmaxC, bands)
	return ClassifiedObservation{
		Observation: o,
		HeatIndexC:  hi,
		RiskLevel:   level,
		RiskColor:   style.Color,
		RiskNote:    style.Note,
	}
}

// ClassifyAll classifies every observation in order, returning a new slice.
func ClassifyAll(obs []Observation, bands RiskBands) []ClassifiedObservation {
	out := make([]ClassifiedObservation, len(obs))
	for i, o := range obs {
		out[i] = Classify(o, bands)
	}
	return out
}
