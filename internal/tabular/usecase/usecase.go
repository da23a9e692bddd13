package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shandysiswandi/gotabular/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkglog"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkguid"
	"github.com/shandysiswandi/gotabular/internal/tabular/entity"
	"github.com/shandysiswandi/gotabular/internal/tabular/ingest"
	"github.com/shandysiswandi/gotabular/internal/tabular/spreadsheet"
)

const (
	DefaultMaxBytes   int64 = 5 << 20
	DefaultAlertBelow       = 60

	// sheetHeaderAllowance covers title rows above a spreadsheet header.
	sheetHeaderAllowance = 20

	errNotScheduled = "service is shutting down, upload again later"
)

type Store interface {
	CreateUpload(ctx context.Context, meta entity.UploadMeta) error
	UpdateMeta(ctx context.Context, uploadID string, fn func(meta *entity.UploadMeta)) error
	SaveReport(ctx context.Context, uploadID string, report entity.Report) error
	GetReport(ctx context.Context, uploadID string) (*entity.Report, entity.UploadMeta, error)
	ListDiagnostics(ctx context.Context, uploadID string, filter DiagnosticFilter, page, pageSize int) ([]entity.Diagnostic, int, entity.UploadMeta, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.QualityAlertEvent) error
}

// Runner reports false when it declines to run f, e.g. during shutdown.
type Runner interface {
	Go(ctx context.Context, task string, f func(ctx context.Context) error) bool
}

type Parser interface {
	Parse(text string, rowLimit int) (*entity.Dataset, error)
}

type Clock interface {
	Now() time.Time
}

// Config holds the service limits. Zero values fall back to defaults.
type Config struct {
	MaxBytes   int64
	RowLimit   int
	AlertBelow int
}

type Dependency struct {
	Store   Store
	Events  EventPublisher
	Runner  Runner
	Parser  Parser
	Clock   Clock
	ID      pkguid.StringID
	EventID pkguid.NumberID
	RootCtx context.Context
	Config  Config
}

type Usecase struct {
	store   Store
	events  EventPublisher
	runner  Runner
	parser  Parser
	clock   Clock
	id      pkguid.StringID
	eventID pkguid.NumberID
	rootCtx context.Context
	cfg     Config
}

func New(dep Dependency) *Usecase {
	root := dep.RootCtx
	if root == nil {
		root = context.Background()
	}

	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	parser := dep.Parser
	if parser == nil {
		parser = ingest.New(ingest.Config{})
	}

	cfg := dep.Config
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.RowLimit < 1 {
		cfg.RowLimit = ingest.DefaultRowLimit
	}
	if cfg.AlertBelow <= 0 {
		cfg.AlertBelow = DefaultAlertBelow
	}

	return &Usecase{
		store:   dep.Store,
		events:  dep.Events,
		runner:  dep.Runner,
		parser:  parser,
		clock:   clock,
		id:      dep.ID,
		eventID: dep.EventID,
		rootCtx: root,
		cfg:     cfg,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Upload reads the document, registers it and parses it in the background.
// Oversized bodies are rejected before anything is stored.
func (u *Usecase) Upload(ctx context.Context, in UploadInput) (UploadResult, error) {
	if u.store == nil || u.id == nil || u.runner == nil {
		return UploadResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	content, err := u.readBody(in.Body)
	if err != nil {
		return UploadResult{}, err
	}

	uploadID := u.id.Generate()
	if err := u.store.CreateUpload(ctx, entity.UploadMeta{
		ID:       uploadID,
		Filename: in.Filename,
		Status:   entity.UploadStatusQueued,
		Bytes:    int64(len(content)),
	}); err != nil {
		return UploadResult{}, normalizeErr(err)
	}

	slog.InfoContext(ctx, "upload queued", "upload_id", uploadID, "filename", in.Filename, "bytes", len(content))

	scheduled := u.runner.Go(u.rootCtx, "tabular.upload", func(ctx context.Context) error {
		ctx = pkglog.SetUploadID(ctx, uploadID)
		if err := u.processUpload(ctx, uploadID, in.Filename, content); err != nil {
			slog.ErrorContext(ctx, "upload processing failed", "error", err)
			return err
		}
		return nil
	})
	if !scheduled {
		endedAt := u.clock.Now().Unix()
		if err := u.store.UpdateMeta(ctx, uploadID, func(meta *entity.UploadMeta) {
			meta.Status = entity.UploadStatusFailed
			meta.Err = errNotScheduled
			meta.EndedAt = endedAt
		}); err != nil {
			return UploadResult{}, normalizeErr(err)
		}
		slog.WarnContext(ctx, "upload not scheduled", "upload_id", uploadID)
	}

	return UploadResult{UploadID: uploadID}, nil
}

// Inspect parses the document synchronously and returns its report without
// storing anything.
func (u *Usecase) Inspect(ctx context.Context, in UploadInput) (entity.Report, error) {
	content, err := u.readBody(in.Body)
	if err != nil {
		return entity.Report{}, err
	}

	ds, err := u.parse(in.Filename, content)
	if err != nil {
		slog.InfoContext(ctx, "inspect rejected", "filename", in.Filename, "error", err)
		return entity.Report{}, mapParseErr(err)
	}

	return entity.NewReport(ds), nil
}

func (u *Usecase) Report(ctx context.Context, uploadID string) (ReportResult, error) {
	if uploadID == "" {
		return ReportResult{}, pkgerror.NewInvalidInput(errors.New("upload_id is required"))
	}

	report, meta, err := u.store.GetReport(ctx, uploadID)
	if err != nil {
		return ReportResult{}, mapStoreErr(err)
	}

	return ReportResult{Meta: meta, Report: report}, nil
}

func (u *Usecase) Diagnostics(ctx context.Context, uploadID string, filter DiagnosticFilter, page, pageSize int) (DiagnosticsResult, error) {
	if uploadID == "" {
		return DiagnosticsResult{}, pkgerror.NewInvalidInput(errors.New("upload_id is required"))
	}

	if page < 1 || pageSize < 1 {
		return DiagnosticsResult{}, pkgerror.NewInvalidInput(errors.New("invalid pagination"))
	}

	items, total, meta, err := u.store.ListDiagnostics(ctx, uploadID, filter, page, pageSize)
	if err != nil {
		return DiagnosticsResult{}, mapStoreErr(err)
	}

	return DiagnosticsResult{
		UploadID:    uploadID,
		Status:      meta.Status,
		Diagnostics: items,
		Page:        page,
		PageSize:    pageSize,
		Total:       total,
	}, nil
}

func (u *Usecase) processUpload(ctx context.Context, uploadID, filename string, content []byte) error {
	startedAt := u.clock.Now().Unix()
	if err := u.store.UpdateMeta(ctx, uploadID, func(meta *entity.UploadMeta) {
		meta.Status = entity.UploadStatusProcessing
		meta.StartedAt = startedAt
	}); err != nil {
		return err
	}

	ds, err := u.parse(filename, content)
	endedAt := u.clock.Now().Unix()

	if err != nil {
		if metaErr := u.store.UpdateMeta(ctx, uploadID, func(meta *entity.UploadMeta) {
			meta.Status = entity.UploadStatusFailed
			meta.Err = userMessage(mapParseErr(err))
			meta.EndedAt = endedAt
		}); metaErr != nil {
			return metaErr
		}
		return err
	}

	report := entity.NewReport(ds)
	if err := u.store.SaveReport(ctx, uploadID, report); err != nil {
		return err
	}

	if err := u.store.UpdateMeta(ctx, uploadID, func(meta *entity.UploadMeta) {
		meta.Status = entity.UploadStatusDone
		meta.EndedAt = endedAt
	}); err != nil {
		return err
	}

	slog.InfoContext(ctx, "upload processed",
		"rows", report.RowCount,
		"delimiter", report.Delimiter.Name(),
		"score", report.Quality.Score,
		"truncated", report.Truncated,
	)

	u.alertLowQuality(ctx, uploadID, filename, report.Quality)

	return nil
}

func (u *Usecase) alertLowQuality(ctx context.Context, uploadID, filename string, q entity.QualityReport) {
	if u.events == nil || q.Score >= u.cfg.AlertBelow {
		return
	}

	event := entity.QualityAlertEvent{
		UploadID: uploadID,
		Filename: filename,
		Score:    q.Score,
		Issues:   q.Issues,
	}
	if u.eventID != nil {
		event.EventID = u.eventID.Generate()
	}

	if err := u.events.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish quality alert", "event_id", event.EventID, "error", err)
	}
}

func (u *Usecase) readBody(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, pkgerror.NewInvalidInput(errors.New("empty request body"))
	}

	content, err := io.ReadAll(io.LimitReader(r, u.cfg.MaxBytes+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, pkgerror.NewTooLarge(u.cfg.MaxBytes)
		}
		return nil, pkgerror.NewServer(fmt.Errorf("read upload: %w", err))
	}
	if int64(len(content)) > u.cfg.MaxBytes {
		return nil, pkgerror.NewTooLarge(u.cfg.MaxBytes)
	}

	return content, nil
}

// parse turns raw bytes into a Dataset. Spreadsheets are flattened first;
// anything else is read as text with invalid UTF-8 replaced.
func (u *Usecase) parse(filename string, content []byte) (*entity.Dataset, error) {
	var text string
	if spreadsheet.IsWorkbook(filename, content) {
		flat, err := spreadsheet.ToDelimitedText(content, u.cfg.RowLimit+sheetHeaderAllowance)
		if err != nil {
			return nil, fmt.Errorf("decode spreadsheet: %w", err)
		}
		text = flat
	} else {
		text = string(content)
		if !utf8.ValidString(text) {
			text = strings.ToValidUTF8(text, string(utf8.RuneError))
		}
	}

	return u.parser.Parse(text, u.cfg.RowLimit)
}

func mapParseErr(err error) error {
	if errors.Is(err, ingest.ErrInsufficientData) {
		return pkgerror.NewBusiness("file needs a header row and at least one data row", pkgerror.CodeUnprocessable)
	}

	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}

	return pkgerror.NewBusiness("file could not be read as a spreadsheet", pkgerror.CodeInvalidFormat)
}

func userMessage(err error) string {
	var perr *pkgerror.Error
	if errors.As(err, &perr) && perr.Msg() != "" {
		return perr.Msg()
	}
	return err.Error()
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewBusiness("upload not found", pkgerror.CodeNotFound)
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}
