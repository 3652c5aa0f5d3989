package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/innervoice/innervoice-go/internal/apperr"
	"github.com/innervoice/innervoice-go/internal/middleware"
)

const maxBodyBytes = 1 << 20 // 1MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// decodeJSON reads a single JSON object from the request body into dst and
// writes the 400/413 response itself when it fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
		case errors.Is(err, io.EOF):
			writeJSON(w, http.StatusBadRequest, errorResponse("request body is required"))
		default:
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":   "invalid request body",
				"details": map[string]string{decodeErrorField(err): err.Error()},
			})
		}
		return false
	}
	return true
}

func decodeErrorField(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return typeErr.Field
	}
	return "body"
}

// writeError maps err to its HTTP status. Internal errors are logged with a
// stack trace and answered with internalMsg so store details never reach the client.
func writeError(w http.ResponseWriter, r *http.Request, op, internalMsg string, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal(err)
	}
	status := apperr.Status(appErr.Kind)

	attrs := []any{
		slog.String("op", op),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("conversation_id", middleware.ConversationIDFromContext(r.Context())),
	}

	if appErr.Kind == apperr.KindInternal {
		attrs = append(attrs, slog.Any("error", err), slog.String("stack", string(debug.Stack())))
		slog.Error("request failed", attrs...)
		writeJSON(w, status, errorResponse(internalMsg))
		return
	}

	attrs = append(attrs, slog.String("kind", appErr.Kind.String()), slog.String("error", appErr.Message))
	slog.Warn("request rejected", attrs...)

	if len(appErr.Details) > 0 {
		writeJSON(w, status, map[string]any{"error": appErr.Message, "details": appErr.Details})
		return
	}
	writeJSON(w, status, errorResponse(appErr.Message))
}
