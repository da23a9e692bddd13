package spreadsheet

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestToDelimitedText(t *testing.T) {
	content := buildWorkbook(t, [][]any{
		{"name", "amount", "note"},
		{"Alice", 100, "says \"hi\""},
		{"Bob", 200, "line\nbreak"},
	})

	got, err := ToDelimitedText(content, 0)
	if err != nil {
		t.Fatalf("ToDelimitedText() err = %v", err)
	}

	want := "name\tamount\tnote\n" +
		"Alice\t100\t\"says \"\"hi\"\"\"\n" +
		"Bob\t200\tline break\n"
	if got != want {
		t.Fatalf("ToDelimitedText() = %q, want %q", got, want)
	}
}

func TestToDelimitedTextMaxRows(t *testing.T) {
	content := buildWorkbook(t, [][]any{{"h"}, {1}, {2}, {3}})

	got, err := ToDelimitedText(content, 2)
	if err != nil {
		t.Fatalf("ToDelimitedText() err = %v", err)
	}
	if got != "h\n1\n" {
		t.Fatalf("ToDelimitedText() = %q", got)
	}
}

func TestToDelimitedTextRejectsGarbage(t *testing.T) {
	if _, err := ToDelimitedText([]byte("not a workbook"), 0); err == nil {
		t.Fatal("expected error for non-workbook content")
	}
}

func TestIsWorkbook(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		head     []byte
		want     bool
	}{
		{name: "xlsx extension", filename: "report.XLSX", want: true},
		{name: "csv extension wins over magic", filename: "data.csv", head: []byte("PK\x03\x04"), want: false},
		{name: "sniffed zip", filename: "", head: []byte("PK\x03\x04rest"), want: true},
		{name: "plain text", filename: "upload", head: []byte("a,b\n1,2"), want: false},
	}

	for _, tt := range tests {
		if got := IsWorkbook(tt.filename, tt.head); got != tt.want {
			t.Fatalf("%s: IsWorkbook() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestQuoteCell(t *testing.T) {
	tests := map[string]string{
		"plain":    "plain",
		"a\tb":     "\"a\tb\"",
		"O'Brien":  "\"O'Brien\"",
		"x\r\ny":   "x y",
		`say "hi"`: `"say ""hi"""`,
	}
	for in, want := range tests {
		if got := quoteCell(in); got != want {
			t.Fatalf("quoteCell(%q) = %q, want %q", in, got, want)
		}
	}
}
