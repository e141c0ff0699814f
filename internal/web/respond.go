package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/vbonduro/kitchenflow/internal/backend"
)

// maxBodySize bounds every request body; fridge scans carry several photos.
const maxBodySize = 50 * 1024 * 1024 // 50 MB

// Error codes returned in the "error" field.
const (
	codeBadRequest    = "BAD_REQUEST"
	codeUnauthorized  = "UNAUTHORIZED"
	codeInternal      = "INTERNAL"
	codeConflict      = "CONFLICT"
	codeAIUnavailable = "AI_UNAVAILABLE"
	codeAIFailed      = "AI_FAILED"
)

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string, logger *slog.Logger) {
	writeJSON(w, status, backend.ErrorBody{Error: code, Message: message}, logger)
}

// decodeBody reads a JSON body of at most maxBodySize into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must hold a single JSON value")
	}
	return nil
}
