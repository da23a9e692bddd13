package ingest

import (
	"fmt"

	"github.com/shandysiswandi/gotabular/internal/tabular/entity"
)

const (
	qualityBaseScore    = 100
	emptyRatioThreshold = 0.3
	emptyRatioPenalty   = 30
)

// AssessQuality scores records by their share of empty cells (Null or empty
// Text). The percentage in the issue text is rendered with one decimal.
func AssessQuality(columns []string, records []entity.Record) entity.QualityReport {
	if len(records) == 0 {
		return entity.QualityReport{Score: 0, Issues: []string{"no data rows found"}}
	}

	total, empty := 0, 0
	for _, rec := range records {
		for _, col := range columns {
			total++
			if rec[col].IsEmpty() {
				empty++
			}
		}
	}

	report := entity.QualityReport{Score: qualityBaseScore, Issues: []string{}}
	if total == 0 {
		return report
	}

	ratio := float64(empty) / float64(total)
	if ratio > emptyRatioThreshold {
		report.Score -= emptyRatioPenalty
		report.Issues = append(report.Issues, fmt.Sprintf("%.1f%% of cells are empty", ratio*100))
	}

	report.Score = max(report.Score, 0)
	return report
}
