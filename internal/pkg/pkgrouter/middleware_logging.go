package pkgrouter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxLoggedBodyBytes = 16 * 1024
	redacted           = "***"
	binaryOmitted      = "<binary body omitted>"
)

//nolint:gochecknoglobals // read-only lookup tables
var (
	redactedHeaders = map[string]struct{}{
		"authorization":       {},
		"proxy-authorization": {},
		"cookie":              {},
		"set-cookie":          {},
		"x-api-key":           {},
	}
	redactedFields = map[string]struct{}{
		"password":      {},
		"secret":        {},
		"token":         {},
		"access_token":  {},
		"refresh_token": {},
		"api_key":       {},
	}
	streamedContentTypes = []string{
		"multipart/",
		"application/octet-stream",
		"text/csv",
		"text/tab-separated-values",
		"text/plain",
		"application/vnd.openxmlformats-officedocument.spreadsheetml",
		"application/vnd.ms-excel",
	}
)

func maskHeaders(headers http.Header) http.Header {
	out := headers.Clone()
	for key := range out {
		if _, ok := redactedHeaders[strings.ToLower(key)]; ok {
			out.Set(key, redacted)
		}
	}
	return out
}

// maskData walks decoded JSON and replaces values under redacted field names.
func maskData(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			if _, ok := redactedFields[strings.ToLower(k)]; ok {
				out[k] = redacted
				continue
			}
			out[k] = maskData(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = maskData(child)
		}
		return out
	default:
		return v
	}
}

// isStreamedBody reports whether a request body is a file upload that must not
// be buffered for logging.
func isStreamedBody(contentType string) bool {
	ct := strings.ToLower(contentType)
	for _, prefix := range streamedContentTypes {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return false
}

// describeBody renders a captured body for a log line.
func describeBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err == nil {
		return maskData(decoded)
	}
	if !utf8.Valid(body) {
		return binaryOmitted
	}
	return string(body)
}

// requestBodyForLog summarizes uploads and buffers everything else, putting
// an equivalent reader back on r.
func requestBodyForLog(r *http.Request) any {
	contentType := r.Header.Get("Content-Type")
	if isStreamedBody(contentType) {
		return map[string]any{"content_type": contentType, "content_length": r.ContentLength}
	}
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	head, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes+1))
	r.Body = readCloser{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
	if err != nil {
		return nil
	}
	if len(head) > maxLoggedBodyBytes {
		return map[string]any{"truncated": true, "content_length": r.ContentLength}
	}
	return describeBody(head)
}

type readCloser struct {
	io.Reader
	io.Closer
}

// responseRecorder tracks status and size, and keeps the first bytes of the
// body for error responses.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	head   bytes.Buffer
}

func (w *responseRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	if room := maxLoggedBodyBytes - w.head.Len(); room > 0 {
		w.head.Write(p[:min(room, len(p))])
	}

	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func (w *responseRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

//nolint:err113 // dynamic error is fine here
func (w *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	return h.Hijack()
}

func (w *responseRecorder) statusOrOK() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// Successful responses carry dataset samples; only their size is logged.
func (w *responseRecorder) bodyForLog() any {
	if w.statusOrOK() < http.StatusBadRequest {
		return nil
	}
	return describeBody(w.head.Bytes())
}

type routeKey struct{}

// withRoute records the registered pattern so logs group "/datasets/:id"
// rather than every concrete id.
func withRoute(pattern string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), routeKey{}, pattern)))
		})
	}
}

func routeOf(r *http.Request) string {
	if pattern, ok := r.Context().Value(routeKey{}).(string); ok {
		return pattern
	}
	return r.URL.Path
}

func middlewareLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		route := routeOf(r)

		slog.InfoContext(r.Context(), "request received",
			"method", r.Method,
			"route", route,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"headers", maskHeaders(r.Header),
			"body", requestBodyForLog(r),
		)

		rec := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.statusOrOK() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, "response sent",
			"method", r.Method,
			"route", route,
			"status", rec.statusOrOK(),
			"bytes", rec.bytes,
			"latency_ms", time.Since(start).Milliseconds(),
			"body", rec.bodyForLog(),
		)
	})
}
