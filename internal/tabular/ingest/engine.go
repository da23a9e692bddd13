package ingest

import (
	"github.com/shandysiswandi/gotabular/internal/tabular/entity"
)

// DefaultRowLimit caps materialized rows when neither the caller nor the
// engine configuration sets a positive limit.
const DefaultRowLimit = 10000

const minUsableLines = 2

// Config tunes an Engine. The zero value is lenient quoting with
// DefaultRowLimit.
type Config struct {
	Quotes   QuoteMode
	RowLimit int
}

// Engine parses delimited text. It holds only immutable configuration and is
// safe for concurrent use.
type Engine struct {
	tok      Tokenizer
	rowLimit int
}

func New(cfg Config) *Engine {
	limit := cfg.RowLimit
	if limit < 1 {
		limit = DefaultRowLimit
	}

	return &Engine{
		tok:      NewTokenizer(cfg.Quotes),
		rowLimit: limit,
	}
}

//nolint:gochecknoglobals // immutable default engine
var defaultEngine = New(Config{})

// Parse runs the default engine. See Engine.Parse.
func Parse(text string, rowLimit int) (*entity.Dataset, error) {
	return defaultEngine.Parse(text, rowLimit)
}

// Parse builds a Dataset from text, materializing at most rowLimit records.
// A rowLimit below 1 falls back to the engine's configured limit. The only
// error is *InsufficientDataError, and no Dataset is returned with it.
func (e *Engine) Parse(text string, rowLimit int) (*entity.Dataset, error) {
	if rowLimit < 1 {
		rowLimit = e.rowLimit
	}

	lines := NormalizeLines(text)
	if len(lines) < minUsableLines {
		return nil, &InsufficientDataError{Lines: len(lines)}
	}

	delim := DetectDelimiter(lines, e.tok)
	headerIdx, columns, diags := LocateHeader(lines, delim, e.tok)

	records, truncated, rowDiags := MaterializeRows(lines[headerIdx+1:], delim, columns, headerIdx+2, rowLimit, e.tok)
	diags = append(diags, rowDiags...)

	return entity.NewDataset(entity.DatasetParts{
		Columns:     columns,
		Records:     records,
		Delimiter:   delim,
		HeaderIndex: headerIdx,
		Truncated:   truncated,
		Quality:     AssessQuality(columns, records),
		Profiles:    ProfileColumns(columns, records),
		Diagnostics: diags,
	}), nil
}
