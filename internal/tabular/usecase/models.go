package usecase

import (
	"io"
	"slices"

	"github.com/shandysiswandi/gotabular/internal/tabular/entity"
)

// UploadInput is one document handed to the service. Filename is optional
// and only used to recognize spreadsheets and label alerts.
type UploadInput struct {
	Filename string
	Body     io.Reader
}

type UploadResult struct {
	UploadID string
}

type ReportResult struct {
	Meta   entity.UploadMeta
	Report *entity.Report
}

type DiagnosticsResult struct {
	UploadID    string
	Status      entity.UploadStatus
	Diagnostics []entity.Diagnostic
	Page        int
	PageSize    int
	Total       int
}

type DiagnosticFilter struct {
	Kinds []entity.DiagnosticKind
}

func (f DiagnosticFilter) Matches(d entity.Diagnostic) bool {
	if len(f.Kinds) == 0 {
		return true
	}
	return slices.Contains(f.Kinds, d.Kind)
}
