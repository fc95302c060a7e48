// Package domain models daily heat-stress observations and the analytics
// derived from them: apparent temperature (heat index), risk banding,
// short-horizon forecasting, and heat-warning alerts.
//
// # Data Source
//
// Observations arrive as flat JSON rows published to the source Kafka topic
// by upstream station collectors, or as CSV uploads handed over by the
// dashboard. Upstream column naming is not standardized; rows are normalized
// into the canonical schema before any computation:
//
//	date        ISO-8601 calendar date, no time-of-day
//	location    station or city name
//	tmax_c      daily maximum temperature, °C
//	rh_percent  relative humidity, 0–100
//
// Column aliases are resolved case-insensitively ("Tmax", "temp_max",
// "max_temp_c" → tmax_c; "humidity", "rh" → rh_percent; "loc", "city" →
// location; any date-like column → date). A required column that cannot be
// resolved is a SchemaError. Multiple readings on the same (location, day)
// collapse to one record: max of tmax_c (worst-case exposure) and mean of
// rh_percent (typical humidity).
//
// # Heat Index
//
// The heat index is the NWS apparent temperature: the Rothfusz regression
// computed in Fahrenheit with the simplified averaging formula below 80°F
// (~27°C) and the full polynomial above it, including the low-humidity and
// high-humidity adjustment terms. Inputs and outputs here are Celsius;
// humidity is clamped to [0,100] before evaluation.
//
// # Risk Bands
//
// Primary classification is by heat index against fixed cut-points:
//
//	< 27°C    Safe
//	27–32°C   Caution
//	32–41°C   Extreme Caution
//	41–54°C   Danger
//	≥ 54°C    Extreme Danger
//
// Independent temperature triggers override the band: tmax_c ≥ 40°C forces
// Heatwave, ≥ 45°C forces Severe Heatwave. The override replaces the
// heat-index band; the band remains visible in the risk note. Alerts are
// emitted only for rows whose resolved level is one of the two trigger
// levels. Thresholds are documented operational constants, not calibrated
// meteorology, and can be overridden through configuration.
//
// # Forecasting
//
// Forecasts are transparent closed-form projections, not model output: a
// least-squares slope over the trailing window (default seven days) extends
// tmax_c day by day, and rh_percent decays from its trailing mean toward the
// all-history mean. Identical history and horizon always produce identical
// output. Fewer than two history points is an InsufficientHistoryError.
//
// # ID Generation
//
// Alert IDs are deterministic SHA-256 hashes of location|date|trigger|source.
// Reprocessing the same day yields the same ID, enabling idempotent upserts
// downstream (ON CONFLICT DO NOTHING) and replay safety without coordination.
package domain
