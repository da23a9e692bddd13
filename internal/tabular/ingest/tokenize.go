package ingest

import (
	"strings"

	"github.com/shandysiswandi/gotabular/internal/tabular/entity"
)

// QuoteMode selects how the tokenizer recognizes quoted spans.
type QuoteMode int

const (
	// QuoteLenient treats '"' and '\'' anywhere outside a span as opening
	// one, closed by the same character.
	QuoteLenient QuoteMode = iota
	// QuoteStrict only honors '"', and only at the start of a field.
	QuoteStrict
)

func (m QuoteMode) String() string {
	if m == QuoteStrict {
		return "strict"
	}
	return "lenient"
}

// Tokenizer splits one physical line into trimmed fields. The zero value is
// a lenient tokenizer.
type Tokenizer struct {
	mode QuoteMode
}

func NewTokenizer(mode QuoteMode) Tokenizer {
	return Tokenizer{mode: mode}
}

func (t Tokenizer) Mode() QuoteMode {
	return t.mode
}

// Split never fails: an unterminated span keeps whatever it accumulated.
// Inside a span a doubled closing quote is one literal quote.
func (t Tokenizer) Split(line string, delim entity.Delimiter) []string {
	var (
		fields  []string
		field   strings.Builder
		inQuote bool
		quote   rune
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if inQuote {
			if r != quote {
				field.WriteRune(r)
				continue
			}
			if i+1 < len(runes) && runes[i+1] == quote {
				field.WriteRune(quote)
				i++
				continue
			}
			inQuote = false
			continue
		}

		switch {
		case r == delim.Rune():
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		case t.opensSpan(r, &field):
			inQuote = true
			quote = r
		default:
			field.WriteRune(r)
		}
	}

	return append(fields, strings.TrimSpace(field.String()))
}

func (t Tokenizer) opensSpan(r rune, field *strings.Builder) bool {
	if t.mode == QuoteStrict {
		return r == '"' && strings.TrimSpace(field.String()) == ""
	}
	return r == '"' || r == '\''
}
