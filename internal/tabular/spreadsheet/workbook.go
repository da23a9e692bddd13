package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrNoSheets = errors.New("workbook has no sheets")

//nolint:gochecknoglobals // read-only
var (
	zipMagic     = []byte("PK\x03\x04")
	cellNewlines = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")
)

// IsWorkbook reports whether an upload should be flattened before parsing.
// Known text extensions win over content sniffing.
func IsWorkbook(filename string, head []byte) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return true
	case ".csv", ".tsv", ".txt":
		return false
	}

	return bytes.HasPrefix(head, zipMagic)
}

// ToDelimitedText flattens the first sheet into tab-delimited text that the
// ingest engine reads like any other upload. Cells that contain a tab, a
// quote or a line break are wrapped in double quotes. At most maxRows rows
// are read; maxRows < 1 reads the whole sheet.
func ToDelimitedText(content []byte, maxRows int) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrNoSheets
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	defer rows.Close()

	var buf strings.Builder
	read := 0
	for rows.Next() {
		if maxRows > 0 && read >= maxRows {
			break
		}

		cols, err := rows.Columns()
		if err != nil {
			return "", fmt.Errorf("read row %d of sheet %q: %w", read+1, sheets[0], err)
		}

		for i, cell := range cols {
			if i > 0 {
				buf.WriteByte('\t')
			}
			buf.WriteString(quoteCell(cell))
		}
		buf.WriteByte('\n')
		read++
	}

	if err := rows.Error(); err != nil {
		return "", fmt.Errorf("iterate sheet %q: %w", sheets[0], err)
	}

	return buf.String(), nil
}

func quoteCell(cell string) string {
	cell = cellNewlines.Replace(cell)
	if !strings.ContainsAny(cell, "\t\"'") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}
