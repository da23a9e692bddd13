package ingest

import "strings"

const byteOrderMark = "\ufeff"

//nolint:gochecknoglobals // stateless replacer, safe for concurrent use
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizeLines returns the usable lines of text. Kept lines are not
// trimmed, since leading whitespace may be an empty tab-delimited field.
func NormalizeLines(text string) []string {
	raw := strings.Split(lineEndings.Replace(text), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		// the mark may sit behind leading blank lines; it never survives
		// as the first character of the output
		if len(lines) == 0 {
			line = strings.TrimLeft(line, byteOrderMark)
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines = append(lines, line)
	}

	return lines
}

// Normalize is NormalizeLines joined back with '\n'. It is idempotent.
func Normalize(text string) string {
	return strings.Join(NormalizeLines(text), "\n")
}
