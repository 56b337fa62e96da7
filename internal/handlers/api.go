package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	applog "kitchenops/internal/log"
	"kitchenops/internal/validation"
)

const maxJSONBody = 1 << 20

var (
	errEmptyBody = errors.New("request body is empty")
	// errResponseWritten signals that a helper already wrote the error response.
	errResponseWritten = errors.New("response already written")
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a single JSON object into dst and validates it. On failure the error
// response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			err = errEmptyBody
		}
		applog.Debug(r.Context(), "invalid json payload", "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return false
	}
	if err := validation.Struct(dst); err != nil {
		applog.Debug(r.Context(), "payload failed validation", "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func requireDatabase(w http.ResponseWriter, r *http.Request) bool {
	if database != nil {
		return true
	}
	applog.Debug(r.Context(), "api request without database", "path", r.URL.Path)
	writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
	return false
}

// resourceSegments splits the path below prefix, e.g. "/app/api/recipes/4/grouped" with
// prefix "/app/api/recipes" yields ["4", "grouped"].
func resourceSegments(path, prefix string) []string {
	trimmed := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func parseID(value string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func queryID(r *http.Request, key string) (*uint, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, ok := parseID(raw)
	if !ok {
		return nil, fmt.Errorf("%s must be a positive integer", key)
	}
	return &id, nil
}

// writeStoreError maps persistence errors to responses. what names the resource in messages.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, what string) {
	var verr *validation.Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		writeJSONError(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, gorm.ErrInvalidDB):
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		writeJSONError(w, http.StatusConflict, what+" already exists")
	case errors.As(err, &verr):
		writeJSONError(w, http.StatusBadRequest, verr.Error())
	default:
		applog.Error(r.Context(), "storage operation failed", "resource", what, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to process "+what)
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	w.WriteHeader(http.StatusMethodNotAllowed)
}
