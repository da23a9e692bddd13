package inbound

import (
	"context"

	"github.com/shandysiswandi/gotabular/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gotabular/internal/tabular/entity"
	"github.com/shandysiswandi/gotabular/internal/tabular/usecase"
)

type uc interface {
	Upload(ctx context.Context, in usecase.UploadInput) (usecase.UploadResult, error)
	Inspect(ctx context.Context, in usecase.UploadInput) (entity.Report, error)
	Report(ctx context.Context, uploadID string) (usecase.ReportResult, error)
	Diagnostics(ctx context.Context, uploadID string, filter usecase.DiagnosticFilter, page, pageSize int) (usecase.DiagnosticsResult, error)
}

// multipartOverhead leaves room for boundaries and part headers on top of
// the accepted document size.
const multipartOverhead = 64 << 10

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, maxBytes int64) {
	end := &HTTPEndpoint{uc: uc}
	limit := pkgrouter.BodyLimit(maxBytes + multipartOverhead)

	r.POST("/datasets", end.Upload, limit)
	r.POST("/datasets/inspect", end.Inspect, limit)

	r.GET("/datasets/:id", end.Report)
	r.GET("/datasets/:id/diagnostics", end.Diagnostics) // ?kind=&page=&page_size=
}
