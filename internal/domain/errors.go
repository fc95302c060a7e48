package domain

import (
	"fmt"
	"strings"
)

// SchemaError reports that a required canonical column could not be resolved
// from the input's headers. It is unrecoverable: no partial result is
// produced for the batch that raised it.
type SchemaError struct {
	Missing []string // canonical names that could not be resolved
	Columns []string // column names seen in the input
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("unresolvable columns %s (input has: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Columns, ", "))
}

// InsufficientHistoryError reports that a location's series is too short to
// establish a trend. Inside a multi-location batch it is recoverable: the
// location is skipped and the others proceed.
type InsufficientHistoryError struct {
	Location string
	Points   int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history for %q: %d point(s), need at least 2", e.Location, e.Points)
}

// ValueError reports malformed input rejected before computation, such as a
// non-positive horizon, an unparseable date, or a non-numeric reading.
type ValueError struct {
	Field string
	Value string
	Msg   string
}

func (e *ValueError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Msg)
}
