package pkgrouter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/gotabular/internal/pkg/pkgerror"
)

// Optional interfaces a handler's response may implement to shape the
// envelope.
type (
	statusCoder interface{ StatusCode() int }
	messenger   interface{ Message() string }
	metaer      interface{ Meta() map[string]any }
)

const defaultSuccessMessage = "request has been successfully"

type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type envelope struct {
	Message string         `json:"message"`
	Data    any            `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// encodeError writes err as an errorResponse. Errors that are not a
// *pkgerror.Error never leak their text to the client.
func encodeError(ctx context.Context, w http.ResponseWriter, err error) {
	var gerr *pkgerror.Error
	if !errors.As(err, &gerr) {
		slog.ErrorContext(ctx, "request failed", "error", err)
		writeJSON(w, errorResponse{Message: "Internal server error", Code: pkgerror.CodeInternal.String()}, http.StatusInternalServerError)
		return
	}

	status := gerr.StatusCode()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", "code", gerr.Code().String(), "error", gerr)
	}

	writeJSON(w, errorResponse{Message: gerr.Msg(), Code: gerr.Code().String()}, status)
}

func encodeSuccess(_ context.Context, w http.ResponseWriter, resp any) {
	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	status := http.StatusOK
	if sc, ok := resp.(statusCoder); ok {
		status = sc.StatusCode()
	}
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	env := envelope{Message: defaultSuccessMessage, Data: resp}
	if m, ok := resp.(messenger); ok {
		env.Message = m.Message()
	}
	if m, ok := resp.(metaer); ok {
		env.Meta = m.Meta()
	}

	writeJSON(w, env, status)
}

// writeJSON encodes before writing the header, so an unencodable payload
// becomes a 500 instead of a truncated success.
func writeJSON(w http.ResponseWriter, data any, code int) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("pkgrouter: encode response", "error", err)
		code = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Message: "Internal server error", Code: pkgerror.CodeInternal.String()})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(append(body, '\n'))
}

func writeMessage(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, map[string]string{"message": msg}, code)
}
