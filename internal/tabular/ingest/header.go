package ingest

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/shandysiswandi/gotabular/internal/tabular/entity"
)

const (
	headerCandidates  = 5
	headerLookahead   = 10
	weightConsistency = 50.0
	weightNonEmpty    = 10.0
	weightNonNumeric  = 5.0
	weightKeyword     = 15.0
)

// headerKeywords is common header vocabulary in Portuguese and English.
//
//nolint:gochecknoglobals // read-only table
var headerKeywords = []string{
	"id", "code", "codigo", "código", "name", "nome",
	"date", "data", "time", "hora",
	"value", "valor", "amount", "price", "preco", "preço", "total",
	"qty", "quantity", "quantidade",
	"description", "descricao", "descrição",
	"email", "phone", "telefone", "status", "type", "tipo",
	"category", "categoria", "customer", "cliente", "product", "produto",
}

// LocateHeader picks the header row among the first lines and returns its
// index together with cleaned, unique column names. Renames made while
// cleaning are reported as diagnostics.
func LocateHeader(lines []string, delim entity.Delimiter, tok Tokenizer) (int, []string, []entity.Diagnostic) {
	if len(lines) == 0 {
		return 0, nil, nil
	}

	// a Caser carries state, so each call folds with its own
	folder := cases.Fold()
	keywords := make([]string, len(headerKeywords))
	for i, kw := range headerKeywords {
		keywords[i] = folder.String(kw)
	}

	bestIdx, bestScore := 0, -1.0
	var bestFields []string

	for i := 0; i < len(lines) && i < headerCandidates; i++ {
		fields := tok.Split(lines[i], delim)
		score := weightConsistency * followingConsistency(lines, i, len(fields), delim, tok)

		for _, f := range fields {
			if f == "" {
				continue
			}
			score += weightNonEmpty
			if Coerce(f).Kind() != entity.KindNumber {
				score += weightNonNumeric
			}
			if containsAny(folder.String(f), keywords) {
				score += weightKeyword
			}
		}

		if score > bestScore {
			bestIdx, bestScore, bestFields = i, score, fields
		}
	}

	names, diags := cleanColumnNames(bestFields, bestIdx+1)
	return bestIdx, names, diags
}

// followingConsistency is the share of the next lines whose field count
// equals width; zero when there are no following lines.
func followingConsistency(lines []string, idx, width int, delim entity.Delimiter, tok Tokenizer) float64 {
	end := min(idx+1+headerLookahead, len(lines))
	following := lines[idx+1 : end]
	if len(following) == 0 {
		return 0
	}

	matches := 0
	for _, line := range following {
		if len(tok.Split(line, delim)) == width {
			matches++
		}
	}

	return float64(matches) / float64(len(following))
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// cleanColumnNames cleans raw header fields, fills empty names from a
// running counter and suffixes duplicates with _2, _3, ... so every name is
// unique.
func cleanColumnNames(raw []string, line int) ([]string, []entity.Diagnostic) {
	var diags []entity.Diagnostic

	names := make([]string, len(raw))
	used := make(map[string]struct{}, len(raw))
	placeholders := 0

	for i, field := range raw {
		name := cleanColumnName(field)
		if name == "" {
			placeholders++
			name = fmt.Sprintf("column_%d", placeholders)
			diags = append(diags, entity.Diagnostic{
				Kind:    entity.DiagnosticHeaderRenamed,
				Line:    line,
				Message: fmt.Sprintf("column %d has no usable name, named %q", i+1, name),
			})
		}

		if _, taken := used[name]; taken {
			var unique string
			for n := 2; ; n++ {
				unique = fmt.Sprintf("%s_%d", name, n)
				if _, taken := used[unique]; !taken {
					break
				}
			}
			diags = append(diags, entity.Diagnostic{
				Kind:    entity.DiagnosticHeaderRenamed,
				Line:    line,
				Message: fmt.Sprintf("column %d duplicates %q, renamed to %q", i+1, name, unique),
			})
			name = unique
		}

		used[name] = struct{}{}
		names[i] = name
	}

	return names, diags
}

func cleanColumnName(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch {
		case r == '"' || r == '\'':
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r), unicode.IsSpace(r), r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	return strings.Trim(strings.Join(strings.Fields(b.String()), "_"), "_")
}
