package ingest

import (
	"github.com/shandysiswandi/gotabular/internal/tabular/entity"
)

const (
	profileSampleSize = 5
	numericShare      = 0.7
)

type distinctKey struct {
	kind entity.ValueKind
	text string
}

// ProfileColumns infers a kind and statistics for every column. Only
// non-empty values take part; a column is numeric when more than 70% of
// them are numbers, and only numeric columns carry Stats.
func ProfileColumns(columns []string, records []entity.Record) []entity.ColumnProfile {
	profiles := make([]entity.ColumnProfile, 0, len(columns))

	for _, col := range columns {
		var values []entity.Value
		var numbers []float64
		distinct := make(map[distinctKey]struct{})

		for _, rec := range records {
			v := rec[col]
			if v.IsEmpty() {
				continue
			}
			values = append(values, v)
			distinct[distinctKey{kind: v.Kind(), text: v.String()}] = struct{}{}
			if f, ok := v.Number(); ok {
				numbers = append(numbers, f)
			}
		}

		profile := entity.ColumnProfile{
			Name:     col,
			Kind:     entity.ColumnText,
			NonEmpty: len(values),
			Distinct: len(distinct),
			Samples:  append([]entity.Value{}, values[:min(len(values), profileSampleSize)]...),
		}

		if len(values) > 0 && float64(len(numbers))/float64(len(values)) > numericShare {
			profile.Kind = entity.ColumnNumeric
			profile.Stats = numericStats(numbers)
		}

		profiles = append(profiles, profile)
	}

	return profiles
}

// numericStats keeps Average as a running mean so it stays finite for any
// finite input. Sum may still overflow; NumericStats encodes that as null.
func numericStats(numbers []float64) *entity.NumericStats {
	if len(numbers) == 0 {
		return nil
	}

	stats := &entity.NumericStats{Min: numbers[0], Max: numbers[0]}
	for i, f := range numbers {
		n := float64(i + 1)
		stats.Min = min(stats.Min, f)
		stats.Max = max(stats.Max, f)
		stats.Sum += f
		stats.Average += f/n - stats.Average/n
	}

	return stats
}
