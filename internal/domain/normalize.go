package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// columnAliases maps canonical column names to the upstream spellings seen in
// station exports and dashboard uploads. Matching is case-insensitive on the
// trimmed header.
var columnAliases = map[string][]string{
	"date":       {"date", "day", "dt", "datetime", "timestamp", "obs_date", "observation_date"},
	"location":   {"location", "loc", "city", "station", "place", "site"},
	"tmax_c":     {"tmax_c", "tmax", "temp_max", "max_temp", "max_temp_c", "t_max", "tmax_celsius", "temperature_max"},
	"rh_percent": {"rh_percent", "rh", "humidity", "relative_humidity", "rel_humidity", "rh_pct", "humidity_percent"},
}

// dateLayouts are accepted date spellings, tried in order. Anything with a
// time-of-day component is truncated to the calendar day.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02-01-2006",
}

// ResolveColumns maps the input's column names onto the canonical schema.
// Returns a canonical→input name mapping, or a *SchemaError naming every
// canonical column that could not be resolved.
func ResolveColumns(columns []string) (map[string]string, error) {
	lower := make(map[string]string, len(columns))
	for _, c := range columns {
		lower[strings.ToLower(strings.TrimSpace(c))] = c
	}

	resolved := make(map[string]string, len(columnAliases))
	var missing []string
	for canonical, aliases := range columnAliases {
		name, ok := matchAlias(lower, canonical, aliases)
		if !ok {
			missing = append(missing, canonical)
			continue
		}
		resolved[canonical] = name
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &SchemaError{Missing: missing, Columns: columns}
	}
	return resolved, nil
}

func matchAlias(lower map[string]string, canonical string, aliases []string) (string, bool) {
	for _, a := range aliases {
		if name, ok := lower[a]; ok {
			return name, true
		}
	}
	// Any date-like column can carry the calendar date.
	if canonical == "date" {
		for l, name := range lower {
			if strings.Contains(l, "date") {
				return name, true
			}
		}
	}
	return "", false
}

// NormalizeRows resolves column aliases across the whole batch and parses
// each row into an Observation. The input is never mutated; the returned
// slice is freshly allocated. Column resolution uses the union of keys seen
// in the batch, so sparse JSON rows resolve the same way as CSV rows.
func NormalizeRows(rows []RawRow) ([]Observation, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	seen := map[string]bool{}
	var columns []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	sort.Strings(columns)

	resolved, err := ResolveColumns(columns)
	if err != nil {
		return nil, err
	}

	obs := make([]Observation, 0, len(rows))
	for _, row := range rows {
		o, err := parseRow(row, resolved)
		if err != nil {
			return nil, err
		}
		obs = append(obs, o)
	}
	return obs, nil
}

func parseRow(row RawRow, resolved map[string]string) (Observation, error) {
	date, err := parseDate(row[resolved["date"]])
	if err != nil {
		return Observation{}, err
	}

	location := strings.TrimSpace(row[resolved["location"]])
	if location == "" {
		return Observation{}, &ValueError{Field: "location", Msg: "empty"}
	}

	tmax, err := parseReading("tmax_c", row[resolved["tmax_c"]])
	if err != nil {
		return Observation{}, err
	}
	rh, err := parseReading("rh_percent", row[resolved["rh_percent"]])
	if err != nil {
		return Observation{}, err
	}

	return Observation{
		Location:  location,
		Date:      date,
		TmaxC:     tmax,
		RHPercent: rh,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, &ValueError{Field: "date", Value: value, Msg: "unrecognized date format"}
}

func parseReading(field, value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, &ValueError{Field: field, Value: value, Msg: "not a number"}
	}
	return v, nil
}

// EnforceDaily collapses sub-daily readings to one Observation per
// (location, day): max of tmax_c for worst-case heat exposure, mean of
// rh_percent for typical humidity. Dates are truncated to the UTC calendar
// day before grouping, so timestamped input collapses correctly even when it
// did not pass through NormalizeRows. Output is sorted by location, then
// ascending by date within each location. The input slice is not modified.
func EnforceDaily(obs []Observation) []Observation {
	type acc struct {
		tmax  float64
		rhSum float64
		count int
	}

	byKey := make(map[Observation]*acc, len(obs))
	for _, o := range obs {
		day := o.Date.UTC()
		day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		key := Observation{Location: o.Location, Date: day}
		a, ok := byKey[key]
		if !ok {
			byKey[key] = &acc{tmax: o.TmaxC, rhSum: o.RHPercent, count: 1}
			continue
		}
		if o.TmaxC > a.tmax {
			a.tmax = o.TmaxC
		}
		a.rhSum += o.RHPercent
		a.count++
	}

	daily := make([]Observation, 0, len(byKey))
	for key, a := range byKey {
		daily = append(daily, Observation{
			Location:  key.Location,
			Date:      key.Date,
			TmaxC:     a.tmax,
			RHPercent: a.rhSum / float64(a.count),
		})
	}

	sort.Slice(daily, func(i, j int) bool {
		if daily[i].Location != daily[j].Location {
			return daily[i].Location < daily[j].Location
		}
		return daily[i].Date.Before(daily[j].Date)
	})
	return daily
}

// GroupByLocation splits daily observations into per-location series,
// preserving the date order established by EnforceDaily. Locations come back
// sorted so batch processing is deterministic.
func GroupByLocation(obs []Observation) ([]string, map[string][]Observation) {
	byLoc := map[string][]Observation{}
	for _, o := range obs {
		byLoc[o.Location] = append(byLoc[o.Location], o)
	}
	locations := make([]string, 0, len(byLoc))
	for loc := range byLoc {
		locations = append(locations, loc)
	}
	sort.Strings(locations)
	return locations, byLoc
}
