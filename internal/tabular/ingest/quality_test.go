package ingest

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shandysiswandi/gotabular/internal/tabular/entity"
)

func recordsWithEmpty(columns []string, rows, empty int) []entity.Record {
	records := make([]entity.Record, rows)
	n := 0
	for i := range records {
		rec := entity.Record{}
		for _, col := range columns {
			if n < empty {
				rec[col] = entity.NullValue()
			} else {
				rec[col] = entity.NumberValue(1)
			}
			n++
		}
		records[i] = rec
	}
	return records
}

func TestAssessQuality(t *testing.T) {
	t.Parallel()

	columns := []string{"a", "b"}

	tests := []struct {
		name    string
		records []entity.Record
		want    entity.QualityReport
	}{
		{
			name:    "no rows",
			records: nil,
			want:    entity.QualityReport{Score: 0, Issues: []string{"no data rows found"}},
		},
		{
			name:    "clean",
			records: recordsWithEmpty(columns, 5, 0),
			want:    entity.QualityReport{Score: 100, Issues: []string{}},
		},
		{
			name:    "thirty percent is tolerated",
			records: recordsWithEmpty(columns, 5, 3),
			want:    entity.QualityReport{Score: 100, Issues: []string{}},
		},
		{
			name:    "forty percent",
			records: recordsWithEmpty(columns, 5, 4),
			want:    entity.QualityReport{Score: 70, Issues: []string{"40.0% of cells are empty"}},
		},
		{
			name:    "all empty",
			records: recordsWithEmpty(columns, 2, 4),
			want:    entity.QualityReport{Score: 70, Issues: []string{"100.0% of cells are empty"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, AssessQuality(columns, tt.records)); diff != "" {
				t.Fatalf("AssessQuality() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAssessQualityCountsEmptyTextAsEmpty(t *testing.T) {
	t.Parallel()

	records := []entity.Record{
		{"a": entity.TextValue(""), "b": entity.TextValue("x"), "c": entity.NullValue()},
	}

	got := AssessQuality([]string{"a", "b", "c"}, records)
	if got.Score != 70 {
		t.Fatalf("expected score 70, got %d", got.Score)
	}
	if diff := cmp.Diff([]string{"66.7% of cells are empty"}, got.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}
