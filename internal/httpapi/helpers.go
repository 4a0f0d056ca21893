// Package httpapi exposes the service layer as a JSON-over-HTTP API.
// It owns request parsing, response shaping and error status mapping;
// all accounting decisions stay in the service and ledger packages.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/auth"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/ledger"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/service"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/storage"
)

// envelope is the uniform response shape.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	respond(w, status, envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	respond(w, status, envelope{Success: true, Message: message, Data: data})
}

func respond(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError maps domain errors onto HTTP statuses. Internal failures
// are logged in full but reported generically.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var invariantErr *ledger.InvariantError

	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.As(err, &invariantErr):
		status = http.StatusBadRequest
		message = invariantErr.Error()
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, service.ErrNotAuthorized):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, storage.ErrDuplicate), errors.Is(err, auth.ErrEmailExists):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, auth.ErrWeakPassword):
		status = http.StatusBadRequest
		message = err.Error()
	default:
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	respond(w, status, envelope{Success: false, Message: message})
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

// parseDate parses a date in YYYY-MM-DD or RFC 3339 format into a Unix
// timestamp.
func parseDate(s string) (int64, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Unix(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// parseYearMonth extracts year and month from query parameters,
// defaulting to the current period.
func parseYearMonth(r *http.Request) (month, year int) {
	now := time.Now().UTC()
	month = int(now.Month())
	year = now.Year()

	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			month = m
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	return month, year
}

func queryInt(r *http.Request, key, fallbackKey string) int {
	v := r.URL.Query().Get(key)
	if v == "" && fallbackKey != "" {
		v = r.URL.Query().Get(fallbackKey)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
