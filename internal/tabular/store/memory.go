package store

import (
	"context"
	"sync"

	"github.com/shandysiswandi/gotabular/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gotabular/internal/tabular/entity"
	"github.com/shandysiswandi/gotabular/internal/tabular/usecase"
)

// InMemoryStore keeps upload metadata and finished reports in process memory.
// Datasets themselves are never stored, only the reports derived from them.
type InMemoryStore struct {
	mu      sync.RWMutex
	uploads map[string]*uploadRecord
}

type uploadRecord struct {
	mu     sync.RWMutex
	meta   entity.UploadMeta
	report *entity.Report
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		uploads: make(map[string]*uploadRecord),
	}
}

func (s *InMemoryStore) CreateUpload(ctx context.Context, meta entity.UploadMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.uploads[meta.ID]; exists {
		return pkgerror.NewBusiness("upload already exists", pkgerror.CodeConflict)
	}

	s.uploads[meta.ID] = &uploadRecord{
		meta: meta,
	}

	return nil
}

func (s *InMemoryStore) UpdateMeta(ctx context.Context, uploadID string, fn func(meta *entity.UploadMeta)) error {
	rec, err := s.get(uploadID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	fn(&rec.meta)

	return nil
}

func (s *InMemoryStore) SaveReport(ctx context.Context, uploadID string, report entity.Report) error {
	rec, err := s.get(uploadID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.report = &report
	rec.meta.RowCount = int64(report.RowCount)

	return nil
}

// GetReport returns the upload metadata and, once processing finished, its
// report. The report is nil while the upload is queued, running or failed.
func (s *InMemoryStore) GetReport(ctx context.Context, uploadID string) (*entity.Report, entity.UploadMeta, error) {
	rec, err := s.get(uploadID)
	if err != nil {
		return nil, entity.UploadMeta{}, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	if rec.report == nil {
		return nil, rec.meta, nil
	}

	report := *rec.report
	return &report, rec.meta, nil
}

func (s *InMemoryStore) ListDiagnostics(ctx context.Context, uploadID string, filter usecase.DiagnosticFilter, page, pageSize int) ([]entity.Diagnostic, int, entity.UploadMeta, error) {
	rec, err := s.get(uploadID)
	if err != nil {
		return nil, 0, entity.UploadMeta{}, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	total := 0
	start := (page - 1) * pageSize
	end := start + pageSize
	items := make([]entity.Diagnostic, 0, pageSize)

	if rec.report == nil {
		return items, 0, rec.meta, nil
	}

	for _, d := range rec.report.Diagnostics {
		if !filter.Matches(d) {
			continue
		}

		if total >= start && total < end {
			items = append(items, d)
		}
		total++
	}

	return items, total, rec.meta, nil
}

func (s *InMemoryStore) get(uploadID string) (*uploadRecord, error) {
	s.mu.RLock()
	rec, ok := s.uploads[uploadID]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	return rec, nil
}
