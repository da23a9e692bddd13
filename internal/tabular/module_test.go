package tabular

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/gotabular/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkguid"
)

type mapConfig map[string]any

func (m mapConfig) GetInt(k string) int64 {
	v, _ := m[k].(int)
	return int64(v)
}

func (m mapConfig) GetBool(k string) bool {
	v, _ := m[k].(bool)
	return v
}

func (m mapConfig) GetString(k string) string {
	v, _ := m[k].(string)
	return v
}

func (m mapConfig) GetDuration(k string) time.Duration {
	v, _ := m[k].(time.Duration)
	return v
}

func (m mapConfig) GetStrings(k string) []string {
	v, _ := m[k].([]string)
	return v
}

func (m mapConfig) Close() error { return nil }

func TestNewRegistersRoutesAndStops(t *testing.T) {
	router := pkgrouter.NewRouter(pkguid.NewUUID(), "gotabular")
	runner := pkgroutine.NewManager(2)

	closer, err := New(Dependency{
		Config: mapConfig{
			"tabular.strict_quotes": true,
			"tabular.row_limit":     10,
			"tabular.max_bytes":     1024,
		},
		Goroutine: runner,
		Router:    router,
		Context:   context.Background(),
	})
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/datasets/inspect", strings.NewReader("name,city\nO'Brien,Dublin\n"))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("inspect status = %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"O'Brien"`) {
		t.Fatalf("expected strict quoting to keep the apostrophe, got %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/datasets/inspect", strings.NewReader(strings.Repeat("x", 2048)))
	req.Header.Set("Content-Type", "text/csv")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}

	if err := runner.Wait(); err != nil {
		t.Fatalf("runner wait: %v", err)
	}
	if err := closer(context.Background()); err != nil {
		t.Fatalf("closer err = %v", err)
	}
}
