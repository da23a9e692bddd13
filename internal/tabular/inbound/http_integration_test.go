package inbound

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/gotabular/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkguid"
	"github.com/shandysiswandi/gotabular/internal/tabular/entity"
	"github.com/shandysiswandi/gotabular/internal/tabular/event"
	"github.com/shandysiswandi/gotabular/internal/tabular/store"
	"github.com/shandysiswandi/gotabular/internal/tabular/usecase"
)

type envelope[T any] struct {
	Message string         `json:"message"`
	Data    T              `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

const salesCSV = "Relatório mensal\n" +
	"produto;quantidade;valor\n" +
	"Café;2;10.5\n" +
	"Chá;1\n" +
	"Bolo;3;7;extra\n"

func newTestRouter(t *testing.T, maxBytes int64) (http.Handler, *pkgroutine.Manager) {
	t.Helper()

	runner := pkgroutine.NewManager(10)
	bus := event.NewBus(10)
	t.Cleanup(bus.Close)

	uc := usecase.New(usecase.Dependency{
		Store:   store.NewInMemoryStore(),
		Events:  bus,
		Runner:  runner,
		ID:      pkguid.NewUUID(),
		RootCtx: context.Background(),
		Config:  usecase.Config{MaxBytes: maxBytes},
	})

	router := pkgrouter.NewRouter(pkguid.NewUUID(), "gotabular")
	RegisterHTTPEndpoint(router, uc, maxBytes)

	return router, runner
}

func TestUploadProcessQuery(t *testing.T) {
	router, runner := newTestRouter(t, 1<<20)

	uploadID := uploadMultipart(t, router, "vendas.csv", []byte(salesCSV))

	var dataset DatasetResponse
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		dataset = getDataset(t, router, uploadID)
		if dataset.Status == entity.UploadStatusDone {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	if dataset.Status != entity.UploadStatusDone {
		t.Fatalf("upload not done, status=%s", dataset.Status)
	}
	if dataset.Filename != "vendas.csv" || dataset.RowCount != 3 {
		t.Fatalf("unexpected dataset: %+v", dataset)
	}
	if dataset.Report == nil {
		t.Fatal("expected report once done")
	}
	if dataset.Report.Delimiter != entity.DelimiterSemicolon || dataset.Report.HeaderIndex != 1 {
		t.Fatalf("unexpected report: %+v", dataset.Report)
	}
	if dataset.Report.Diagnostics != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", dataset.Report.Diagnostics)
	}

	diags := getDiagnostics(t, router, uploadID, "kind=row_truncated")
	if len(diags.Data.Diagnostics) != 1 || diags.Data.Diagnostics[0].Line != 5 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Data.Diagnostics)
	}
	if diags.Meta["total"] != float64(1) {
		t.Fatalf("unexpected meta: %v", diags.Meta)
	}

	if err := runner.Wait(); err != nil {
		t.Fatalf("runner wait: %v", err)
	}
}

func TestInspectRawBody(t *testing.T) {
	router, _ := newTestRouter(t, 1<<20)

	req := httptest.NewRequest(http.MethodPost, "/datasets/inspect?filename=vendas.csv", strings.NewReader(salesCSV))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	var env envelope[Report]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode inspect: %v", err)
	}
	if got := strings.Join(env.Data.Columns, ","); got != "produto,quantidade,valor" {
		t.Fatalf("unexpected columns %q", got)
	}
	if len(env.Data.Sample) != 3 {
		t.Fatalf("expected 3 sample rows, got %d", len(env.Data.Sample))
	}
	if v, ok := env.Data.Sample[0]["valor"].Number(); !ok || v != 10.5 {
		t.Fatalf("expected numeric valor, got %#v", env.Data.Sample[0]["valor"])
	}
	if env.Data.Quality.Score != 100 {
		t.Fatalf("unexpected quality: %+v", env.Data.Quality)
	}
}

func TestInspectHugeNumbers(t *testing.T) {
	router, _ := newTestRouter(t, 1<<20)

	huge := "1" + strings.Repeat("0", 308)
	req := httptest.NewRequest(http.MethodPost, "/datasets/inspect", strings.NewReader("n\n"+huge+"\n"+huge+"\n"))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	var env envelope[struct {
		Profiles []struct {
			Stats map[string]any `json:"stats"`
		} `json:"profiles"`
	}]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode inspect: %v", err)
	}
	if len(env.Data.Profiles) != 1 {
		t.Fatalf("expected one profile, got %d", len(env.Data.Profiles))
	}
	stats := env.Data.Profiles[0].Stats
	if stats["average"] != 1e308 || stats["sum"] != nil {
		t.Fatalf("unexpected stats %v", stats)
	}
}

func TestInspectErrors(t *testing.T) {
	router, _ := newTestRouter(t, 16)

	tests := []struct {
		name string
		body string
		ct   string
		want int
	}{
		{name: "insufficient", body: "one line", ct: "text/csv", want: http.StatusUnprocessableEntity},
		{name: "too large", body: strings.Repeat("a,b\n", 10), ct: "text/csv", want: http.StatusRequestEntityTooLarge},
		{name: "missing file part", body: "--x\r\nContent-Disposition: form-data; name=\"other\"\r\n\r\nv\r\n--x--\r\n", ct: "multipart/form-data; boundary=x", want: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/datasets/inspect", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.ct)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body=%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestDatasetNotFoundAndBadQuery(t *testing.T) {
	router, _ := newTestRouter(t, 1<<20)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/datasets/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/datasets/"+pkguid.NewUUID().Generate(), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown uuid, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/datasets/missing/diagnostics?kind=bogus", nil))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad kind, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/datasets/missing/diagnostics?page=0", nil))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad page, got %d", rec.Code)
	}
}

func TestParsePagination(t *testing.T) {
	page, size, err := parsePagination("", "")
	if err != nil || page != 1 || size != 10 {
		t.Fatalf("defaults = %d/%d/%v", page, size, err)
	}
	page, size, err = parsePagination("3", "500")
	if err != nil || page != 3 || size != 100 {
		t.Fatalf("capped = %d/%d/%v", page, size, err)
	}
	if _, _, err := parsePagination("x", ""); err == nil {
		t.Fatal("expected error for invalid page")
	}
}

func TestCleanFilename(t *testing.T) {
	tests := map[string]string{
		"":                   "",
		"  report.xlsx ":     "report.xlsx",
		"../../etc/passwd":   "passwd",
		"dir/sub/vendas.csv": "vendas.csv",
	}
	for in, want := range tests {
		if got := cleanFilename(in); got != want {
			t.Fatalf("cleanFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func uploadMultipart(t *testing.T, router http.Handler, filename string, content []byte) string {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write content: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/datasets", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	var env envelope[UploadResponse]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if env.Data.UploadID == "" {
		t.Fatal("upload id is empty")
	}

	return env.Data.UploadID
}

func getDataset(t *testing.T, router http.Handler, uploadID string) DatasetResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/datasets/"+uploadID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected dataset status: %d", rec.Code)
	}

	var env envelope[DatasetResponse]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode dataset: %v", err)
	}

	return env.Data
}

func getDiagnostics(t *testing.T, router http.Handler, uploadID, query string) envelope[DiagnosticsResponse] {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/datasets/"+uploadID+"/diagnostics?"+query, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected diagnostics status: %d", rec.Code)
	}

	var env envelope[DiagnosticsResponse]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode diagnostics: %v", err)
	}

	return env
}
