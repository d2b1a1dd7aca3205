package algo

import (
	"errors"
	"fmt"
)

// Sentinel errors matched through errors.Is.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrMalformedSeries = errors.New("malformed series")
)

// InvalidInputError reports a replicate whose values violate the input contract,
// such as a non-positive seed total or germination recorded on day 0.
type InvalidInputError struct {
	Replicate string
	Reason    string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("replicate %q: invalid input: %s", e.Replicate, e.Reason)
}

// Is matches ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// MalformedSeriesError reports a replicate series with broken structure.
// Index points at the offending position in the series.
type MalformedSeriesError struct {
	Replicate string
	Index     int
	Reason    string
}

func (e *MalformedSeriesError) Error() string {
	return fmt.Sprintf("replicate %q: malformed series at index %d: %s", e.Replicate, e.Index, e.Reason)
}

// Is matches ErrMalformedSeries.
func (e *MalformedSeriesError) Is(target error) bool {
	return target == ErrMalformedSeries
}
