package ingest

import (
	"errors"
	"fmt"
)

// ErrInsufficientData matches any *InsufficientDataError via errors.Is.
var ErrInsufficientData = errors.New("ingest: insufficient data")

// InsufficientDataError reports that fewer than two usable lines (a header
// and at least one data line) remained after normalization.
type InsufficientDataError struct {
	Lines int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("ingest: need a header and at least one data line, got %d usable line(s)", e.Lines)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}
