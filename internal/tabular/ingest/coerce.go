package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shandysiswandi/gotabular/internal/tabular/entity"
)

const groupSeparator = ","

//nolint:gochecknoglobals // compiled once, read-only
var (
	groupedNumber = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)
	plainNumber   = regexp.MustCompile(`^[-+]?\d+(\.\d+)?$`)
)

// Coerce classifies one trimmed field. Only the fixed grammar above is
// numeric; everything else stays Text exactly as given.
func Coerce(s string) entity.Value {
	if s == "" {
		return entity.NullValue()
	}

	if groupedNumber.MatchString(s) {
		if f, err := strconv.ParseFloat(strings.ReplaceAll(s, groupSeparator, ""), 64); err == nil {
			return entity.NumberValue(f)
		}
	}

	if plainNumber.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return entity.NumberValue(f)
		}
	}

	return entity.TextValue(s)
}
