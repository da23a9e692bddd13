package ingest

import (
	"fmt"
	"strings"

	"github.com/shandysiswandi/gotabular/internal/tabular/entity"
)

// MaterializeRows builds one Record per non-blank line. Short rows are
// padded with empty fields and long rows truncated to the header width;
// both repairs are reported, never rejected. firstLine is the 1-based line
// number of lines[0] and only feeds diagnostics. Materialization stops once
// limit records exist, in which case truncated is true.
func MaterializeRows(
	lines []string,
	delim entity.Delimiter,
	header []string,
	firstLine int,
	limit int,
	tok Tokenizer,
) (records []entity.Record, truncated bool, diags []entity.Diagnostic) {
	records = make([]entity.Record, 0, min(len(lines), max(limit, 0)))

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		lineNo := firstLine + i
		if len(records) >= limit {
			diags = append(diags, entity.Diagnostic{
				Kind:    entity.DiagnosticRowLimitReached,
				Line:    lineNo,
				Message: fmt.Sprintf("row limit of %d reached, remaining lines ignored", limit),
			})
			return records, true, diags
		}

		fields := tok.Split(line, delim)
		switch {
		case len(fields) < len(header):
			diags = append(diags, entity.Diagnostic{
				Kind:    entity.DiagnosticRowPadded,
				Line:    lineNo,
				Message: fmt.Sprintf("expected %d fields, got %d; padded with empty values", len(header), len(fields)),
			})
		case len(fields) > len(header):
			diags = append(diags, entity.Diagnostic{
				Kind:    entity.DiagnosticRowTruncated,
				Line:    lineNo,
				Message: fmt.Sprintf("expected %d fields, got %d; extra fields dropped", len(header), len(fields)),
			})
		}

		rec := make(entity.Record, len(header))
		for col, name := range header {
			field := ""
			if col < len(fields) {
				field = fields[col]
			}
			rec[name] = Coerce(field)
		}
		records = append(records, rec)
	}

	return records, false, diags
}
