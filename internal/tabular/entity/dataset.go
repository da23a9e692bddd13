package entity

import (
	"encoding/json"
	"maps"
	"math"
)

type ColumnKind string

const (
	ColumnNumeric ColumnKind = "numeric"
	ColumnText    ColumnKind = "text"
)

type NumericStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
	Sum     float64 `json:"sum"`
}

// MarshalJSON writes null for fields that overflowed to ±Inf or NaN.
func (s NumericStats) MarshalJSON() ([]byte, error) {
	finite := func(f float64) *float64 {
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil
		}
		return &f
	}

	return json.Marshal(struct {
		Min     *float64 `json:"min"`
		Max     *float64 `json:"max"`
		Average *float64 `json:"average"`
		Sum     *float64 `json:"sum"`
	}{finite(s.Min), finite(s.Max), finite(s.Average), finite(s.Sum)})
}

type ColumnProfile struct {
	Name     string        `json:"name"`
	Kind     ColumnKind    `json:"kind"`
	NonEmpty int           `json:"non_empty"`
	Distinct int           `json:"distinct"`
	Samples  []Value       `json:"samples"`
	Stats    *NumericStats `json:"stats,omitempty"`
}

type QualityReport struct {
	Score  int      `json:"score"`
	Issues []string `json:"issues"`
}

type DiagnosticKind string

const (
	DiagnosticRowPadded       DiagnosticKind = "row_padded"
	DiagnosticRowTruncated    DiagnosticKind = "row_truncated"
	DiagnosticRowLimitReached DiagnosticKind = "row_limit_reached"
	DiagnosticHeaderRenamed   DiagnosticKind = "header_renamed"
)

// Diagnostic is an informational anomaly the engine repaired on its own.
// Line is the 1-based index into the normalized lines, or 0 when the
// diagnostic is not tied to a line.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Line    int            `json:"line,omitempty"`
	Message string         `json:"message"`
}

// DatasetParts carries everything needed to build a Dataset.
type DatasetParts struct {
	Columns     []string
	Records     []Record
	Delimiter   Delimiter
	HeaderIndex int
	Truncated   bool
	Quality     QualityReport
	Profiles    []ColumnProfile
	Diagnostics []Diagnostic
}

// Dataset is the read-only result of ingesting one document.
type Dataset struct {
	parts DatasetParts
}

// NewDataset takes ownership of p. Callers must not modify p's slices afterwards.
func NewDataset(p DatasetParts) *Dataset {
	return &Dataset{parts: p}
}

func (d *Dataset) Columns() []string {
	return append([]string(nil), d.parts.Columns...)
}

func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.parts.Records))
	for i, rec := range d.parts.Records {
		out[i] = maps.Clone(rec)
	}
	return out
}

// Sample returns up to n leading records.
func (d *Dataset) Sample(n int) []Record {
	if n > len(d.parts.Records) {
		n = len(d.parts.Records)
	}
	if n < 0 {
		n = 0
	}

	out := make([]Record, n)
	for i := range n {
		out[i] = maps.Clone(d.parts.Records[i])
	}
	return out
}

func (d *Dataset) Delimiter() Delimiter {
	return d.parts.Delimiter
}

func (d *Dataset) HeaderIndex() int {
	return d.parts.HeaderIndex
}

func (d *Dataset) RowCount() int {
	return len(d.parts.Records)
}

// Truncated reports whether materialization stopped at the row limit.
func (d *Dataset) Truncated() bool {
	return d.parts.Truncated
}

func (d *Dataset) Quality() QualityReport {
	return QualityReport{
		Score:  d.parts.Quality.Score,
		Issues: append([]string(nil), d.parts.Quality.Issues...),
	}
}

func (d *Dataset) Profiles() []ColumnProfile {
	out := make([]ColumnProfile, len(d.parts.Profiles))
	for i, p := range d.parts.Profiles {
		p.Samples = append([]Value(nil), p.Samples...)
		if p.Stats != nil {
			stats := *p.Stats
			p.Stats = &stats
		}
		out[i] = p
	}
	return out
}

func (d *Dataset) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), d.parts.Diagnostics...)
}
