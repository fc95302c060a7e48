package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeatIndexBand_Boundaries(t *testing.T) {
	bands := DefaultRiskBands()

	// Cut-points are closed below, open above.
	tests := []struct {
		hi   float64
		want RiskLevel
	}{
		{-5, RiskSafe},
		{26.9, RiskSafe},
		{27.0, RiskCaution},
		{31.9, RiskCaution},
		{32.0, RiskExtremeCaution},
		{40.9, RiskExtremeCaution},
		{41.0, RiskDanger},
		{53.9, RiskDanger},
		{54.0, RiskExtremeDanger},
		{70, RiskExtremeDanger},
	}

	for _, tt := range tests {
		// tmax low enough that no trigger fires.
		level, style := ClassifyRisk(tt.hi, 20, bands)
		assert.Equal(t, tt.want, level, "hi=%.1f", tt.hi)
		assert.NotEmpty(t, style.Color)
		assert.NotEmpty(t, style.Note)
	}
}

func TestClassifyRisk_TemperatureOverlay(t *testing.T) {
	bands := DefaultRiskBands()

	t.Run("severe trigger overrides any band", func(t *testing.T) {
		for _, hi := range []float64{10, 30, 55} {
			level, _ := ClassifyRisk(hi, 45.0, bands)
			assert.Equal(t, RiskSevereHeatwave, level, "hi=%.0f", hi)
		}
	})

	t.Run("heatwave trigger overrides any band", func(t *testing.T) {
		for _, hi := range []float64{10, 30, 55} {
			level, _ := ClassifyRisk(hi, 42.0, bands)
			assert.Equal(t, RiskHeatwave, level, "hi=%.0f", hi)
		}
	})

	t.Run("trigger boundary is inclusive", func(t *testing.T) {
		level, _ := ClassifyRisk(30, 40.0, bands)
		assert.Equal(t, RiskHeatwave, level)

		level, _ = ClassifyRisk(30, 39.9, bands)
		assert.Equal(t, RiskCaution, level)
	})

	t.Run("override keeps the band visible in the note", func(t *testing.T) {
		_, style := ClassifyRisk(55, 46, bands)
		assert.Contains(t, style.Note, string(RiskExtremeDanger))
	})
}

func TestValidateRiskBands(t *testing.T) {
	require.NoError(t, ValidateRiskBands(DefaultRiskBands()))

	t.Run("unordered cut-points rejected", func(t *testing.T) {
		b := DefaultRiskBands()
		b.DangerHI = 30
		err := ValidateRiskBands(b)
		require.Error(t, err)
		var ve *ValueError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("inverted triggers rejected", func(t *testing.T) {
		b := DefaultRiskBands()
		b.HeatwaveTmax = 46
		assert.Error(t, ValidateRiskBands(b))
	})
}

func TestPaletteCoversEveryLevel(t *testing.T) {
	for _, level := range riskLevels {
		style, ok := riskPalette[level]
		require.True(t, ok, "level %q has no style", level)
		assert.Regexp(t, `^#[0-9a-f]{6}$`, style.Color)
		assert.NotEmpty(t, style.Note)
	}
}

func TestClassify_DerivesAllFields(t *testing.T) {
	o := Observation{Location: "Delhi", Date: mustDate(t, "2024-05-20"), TmaxC: 46, RHPercent: 30}
	c := Classify(o, DefaultRiskBands())

	assert.Equal(t, o, c.Observation)
	assert.Greater(t, c.HeatIndexC, 46.0)
	assert.Equal(t, RiskSevereHeatwave, c.RiskLevel)
	assert.Equal(t, "#8e0000", c.RiskColor)
	assert.NotEmpty(t, c.RiskNote)
}
