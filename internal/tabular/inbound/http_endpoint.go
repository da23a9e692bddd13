package inbound

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shandysiswandi/gotabular/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkguid"
	"github.com/shandysiswandi/gotabular/internal/tabular/entity"
	"github.com/shandysiswandi/gotabular/internal/tabular/usecase"
)

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Upload(ctx context.Context, r *http.Request) (any, error) {
	in, cleanup, err := extractUpload(r)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result, err := h.uc.Upload(ctx, in)
	if err != nil {
		return nil, err
	}

	return UploadResponse{UploadID: result.UploadID}, nil
}

func (h *HTTPEndpoint) Inspect(ctx context.Context, r *http.Request) (any, error) {
	in, cleanup, err := extractUpload(r)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	report, err := h.uc.Inspect(ctx, in)
	if err != nil {
		return nil, err
	}

	return toHTTPReport(report), nil
}

func (h *HTTPEndpoint) Report(ctx context.Context, r *http.Request) (any, error) {
	uploadID, err := uploadIDParam(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Report(ctx, uploadID)
	if err != nil {
		return nil, err
	}

	resp := DatasetResponse{
		UploadID:  result.Meta.ID,
		Filename:  result.Meta.Filename,
		Status:    result.Meta.Status,
		Error:     result.Meta.Err,
		Bytes:     result.Meta.Bytes,
		RowCount:  result.Meta.RowCount,
		StartedAt: result.Meta.StartedAt,
		EndedAt:   result.Meta.EndedAt,
	}
	if result.Report != nil {
		report := toHTTPReport(*result.Report)
		resp.Report = &report
	}

	return resp, nil
}

func (h *HTTPEndpoint) Diagnostics(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()
	page, pageSize, err := parsePagination(query.Get("page"), query.Get("page_size"))
	if err != nil {
		return nil, err
	}

	filter, err := parseDiagnosticFilter(query.Get("kind"))
	if err != nil {
		return nil, err
	}

	uploadID, err := uploadIDParam(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Diagnostics(ctx, uploadID, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	return DiagnosticsResponse{
		UploadID:    result.UploadID,
		Status:      result.Status,
		Diagnostics: result.Diagnostics,
		page:        result.Page,
		pageSize:    result.PageSize,
		total:       result.Total,
	}, nil
}

// uploadIDParam reads the :id segment. Ids are UUIDs, so anything else is
// reported as not found without a store lookup.
func uploadIDParam(ctx context.Context) (string, error) {
	id := pkgrouter.GetParam(ctx, "id")
	if id == "" {
		return "", pkgerror.NewInvalidInput(errors.New("id is required"))
	}
	if !pkguid.ValidUUID(id) {
		return "", pkgerror.NewBusiness("upload not found", pkgerror.CodeNotFound)
	}
	return id, nil
}

func parsePagination(pageRaw, sizeRaw string) (int, int, error) {
	page := 1
	pageSize := 10

	if pageRaw != "" {
		value, err := strconv.Atoi(pageRaw)
		if err != nil || value < 1 {
			return 0, 0, pkgerror.NewInvalidInput(errors.New("invalid page"))
		}
		page = value
	}

	if sizeRaw != "" {
		value, err := strconv.Atoi(sizeRaw)
		if err != nil || value < 1 {
			return 0, 0, pkgerror.NewInvalidInput(errors.New("invalid page_size"))
		}
		if value > 100 {
			value = 100
		}
		pageSize = value
	}

	return page, pageSize, nil
}

func parseDiagnosticFilter(kindRaw string) (usecase.DiagnosticFilter, error) {
	filter := usecase.DiagnosticFilter{}
	if kindRaw == "" {
		return filter, nil
	}

	for _, value := range strings.Split(kindRaw, ",") {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		kind, err := parseKind(value)
		if err != nil {
			return filter, err
		}
		filter.Kinds = append(filter.Kinds, kind)
	}

	return filter, nil
}

func parseKind(value string) (entity.DiagnosticKind, error) {
	switch kind := entity.DiagnosticKind(strings.ToLower(value)); kind {
	case entity.DiagnosticRowPadded,
		entity.DiagnosticRowTruncated,
		entity.DiagnosticRowLimitReached,
		entity.DiagnosticHeaderRenamed:
		return kind, nil
	default:
		return "", pkgerror.NewInvalidInput(errors.New("invalid kind filter"))
	}
}

// extractUpload accepts either a multipart form with a "file" part or the raw
// request body. The filename comes from the part, or from ?filename= for raw
// bodies.
func extractUpload(r *http.Request) (usecase.UploadInput, func(), error) {
	contentType := r.Header.Get("Content-Type")
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil && strings.EqualFold(mediaType, "multipart/form-data") {
			return extractMultipartFile(r)
		}
	}

	if r.Body == nil || r.Body == http.NoBody {
		return usecase.UploadInput{}, func() {}, pkgerror.NewInvalidInput(errors.New("empty request body"))
	}

	return usecase.UploadInput{
		Filename: cleanFilename(r.URL.Query().Get("filename")),
		Body:     r.Body,
	}, func() {}, nil
}

func extractMultipartFile(r *http.Request) (usecase.UploadInput, func(), error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return usecase.UploadInput{}, func() {}, pkgerror.NewInvalidFormat()
	}

	for {
		part, err := reader.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return usecase.UploadInput{}, func() {}, pkgerror.NewInvalidInput(errors.New("file part is required"))
			}
			return usecase.UploadInput{}, func() {}, pkgerror.NewInvalidFormat()
		}

		if part.FormName() == "file" {
			filename := cleanFilename(part.FileName())
			if filename == "" {
				filename = cleanFilename(r.URL.Query().Get("filename"))
			}
			return usecase.UploadInput{Filename: filename, Body: part}, func() { _ = part.Close() }, nil
		}
		_ = part.Close()
	}
}

func cleanFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return filepath.Base(filepath.Clean(name))
}
