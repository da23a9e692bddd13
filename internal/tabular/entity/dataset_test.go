package entity

import "testing"

func newTestDataset() *Dataset {
	return NewDataset(DatasetParts{
		Columns: []string{"id"},
		Records: []Record{
			{"id": NumberValue(1)},
			{"id": NumberValue(2)},
			{"id": NumberValue(3)},
		},
		Delimiter: DelimiterComma,
		Quality:   QualityReport{Score: 100, Issues: []string{}},
		Profiles: []ColumnProfile{{
			Name:    "id",
			Kind:    ColumnNumeric,
			Samples: []Value{NumberValue(1)},
			Stats:   &NumericStats{Min: 1, Max: 3, Average: 2, Sum: 6},
		}},
		Diagnostics: []Diagnostic{{Kind: DiagnosticRowPadded, Line: 2}},
	})
}

func TestDatasetSample(t *testing.T) {
	ds := newTestDataset()

	if got := len(ds.Sample(2)); got != 2 {
		t.Fatalf("Sample(2) len = %d", got)
	}
	if got := len(ds.Sample(10)); got != 3 {
		t.Fatalf("Sample(10) len = %d", got)
	}
	if got := len(ds.Sample(-1)); got != 0 {
		t.Fatalf("Sample(-1) len = %d", got)
	}

	s := ds.Sample(1)
	s[0]["id"] = TextValue("mutated")
	if v, _ := ds.Records()[0]["id"].Number(); v != 1 {
		t.Fatal("sample shares memory with the dataset")
	}
}

func TestDatasetProfilesAreCopies(t *testing.T) {
	ds := newTestDataset()

	p := ds.Profiles()
	p[0].Stats.Sum = 0
	p[0].Samples[0] = NullValue()

	again := ds.Profiles()
	if again[0].Stats.Sum != 6 || again[0].Samples[0].IsNull() {
		t.Fatal("profiles share memory with the dataset")
	}

	d := ds.Diagnostics()
	d[0].Line = 99
	if ds.Diagnostics()[0].Line != 2 {
		t.Fatal("diagnostics share memory with the dataset")
	}
}

func TestNewReport(t *testing.T) {
	records := make([]Record, 8)
	for i := range records {
		records[i] = Record{"n": NumberValue(float64(i))}
	}
	ds := NewDataset(DatasetParts{Columns: []string{"n"}, Records: records, Delimiter: DelimiterPipe, HeaderIndex: 2})

	r := NewReport(ds)
	if len(r.Sample) != ReportSampleSize {
		t.Fatalf("sample len = %d, want %d", len(r.Sample), ReportSampleSize)
	}
	if r.RowCount != 8 || r.HeaderIndex != 2 || r.Delimiter != DelimiterPipe {
		t.Fatalf("unexpected report %+v", r)
	}
}
