package ingest

import (
	"strings"

	"github.com/shandysiswandi/gotabular/internal/tabular/entity"
)

const delimiterSampleLines = 5

// DetectDelimiter samples the leading non-empty lines with every candidate
// and keeps the one whose field count is most consistent. A candidate whose
// modal field count is 1 never splits anything and is skipped; ties keep the
// earlier candidate and the fallback is comma.
func DetectDelimiter(lines []string, tok Tokenizer) entity.Delimiter {
	sample := make([]string, 0, delimiterSampleLines)
	for _, line := range lines {
		if len(sample) == delimiterSampleLines {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		sample = append(sample, line)
	}

	best := entity.DelimiterComma
	bestConsistency := -1.0
	if len(sample) == 0 {
		return best
	}

	for _, delim := range entity.Delimiters() {
		counts := make([]int, len(sample))
		for i, line := range sample {
			counts[i] = len(tok.Split(line, delim))
		}

		mode, freq := modeOf(counts)
		if mode <= 1 {
			continue
		}

		consistency := float64(freq) / float64(len(counts))
		if consistency > bestConsistency {
			best = delim
			bestConsistency = consistency
		}
	}

	return best
}

// modeOf returns the most frequent value and its frequency. Equal
// frequencies resolve toward the larger value.
func modeOf(values []int) (int, int) {
	freq := make(map[int]int, len(values))
	for _, v := range values {
		freq[v]++
	}

	mode, best := 0, 0
	for v, n := range freq {
		if n > best || (n == best && v > mode) {
			mode, best = v, n
		}
	}

	return mode, best
}
