package inbound

import (
	"net/http"

	"github.com/shandysiswandi/gotabular/internal/tabular/entity"
)

type UploadResponse struct {
	UploadID string `json:"upload_id"`
}

func (UploadResponse) StatusCode() int {
	return http.StatusAccepted
}

func (UploadResponse) Message() string {
	return "upload accepted"
}

// Report is the consumer view of a parsed document: enough to build an
// analysis prompt (columns, profiles, sample) and to warn about quality.
type Report struct {
	Columns     []string               `json:"columns"`
	Delimiter   entity.Delimiter       `json:"delimiter"`
	HeaderIndex int                    `json:"header_index"`
	RowCount    int                    `json:"row_count"`
	Truncated   bool                   `json:"truncated"`
	Quality     entity.QualityReport   `json:"quality"`
	Profiles    []entity.ColumnProfile `json:"profiles"`
	Sample      []entity.Record        `json:"sample"`
	Diagnostics int                    `json:"diagnostics"`
}

func toHTTPReport(r entity.Report) Report {
	return Report{
		Columns:     r.Columns,
		Delimiter:   r.Delimiter,
		HeaderIndex: r.HeaderIndex,
		RowCount:    r.RowCount,
		Truncated:   r.Truncated,
		Quality:     r.Quality,
		Profiles:    r.Profiles,
		Sample:      r.Sample,
		Diagnostics: len(r.Diagnostics),
	}
}

type DatasetResponse struct {
	UploadID  string              `json:"upload_id"`
	Filename  string              `json:"filename,omitempty"`
	Status    entity.UploadStatus `json:"status"`
	Error     string              `json:"error,omitempty"`
	Bytes     int64               `json:"bytes"`
	RowCount  int64               `json:"row_count"`
	StartedAt int64               `json:"started_at,omitempty"`
	EndedAt   int64               `json:"ended_at,omitempty"`
	Report    *Report             `json:"report,omitempty"`
}

type DiagnosticsResponse struct {
	UploadID    string              `json:"upload_id"`
	Status      entity.UploadStatus `json:"status"`
	Diagnostics []entity.Diagnostic `json:"diagnostics"`
	page        int
	pageSize    int
	total       int
}

func (r DiagnosticsResponse) Meta() map[string]any {
	return map[string]any{
		"page":      r.page,
		"page_size": r.pageSize,
		"total":     r.total,
	}
}
