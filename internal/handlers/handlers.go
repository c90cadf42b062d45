package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	applog "campmeals/internal/log"
	"campmeals/internal/planning"
	"campmeals/internal/reports"
	"campmeals/internal/store"
)

const dateLayout = "2006-01-02"

var (
	sessionManager *scs.SessionManager
	database       *gorm.DB
	catalog        *store.Store
	reportService  *reports.Service
	passwordHash   []byte
)

// Configure installs the shared dependencies used by the HTTP handlers. hash is the
// bcrypt hash of the organizer password.
func Configure(sm *scs.SessionManager, db *gorm.DB, hash []byte) {
	sessionManager = sm
	database = db
	passwordHash = hash
	catalog = nil
	reportService = nil
	if db != nil {
		catalog = store.New(db)
		reportService = reports.NewService(catalog)
	}
}

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

// writeStoreError maps store and validation errors onto HTTP statuses. action names the
// failed operation in the log and in the 500 body.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var validation *planning.ValidationError
	switch {
	case errors.As(err, &validation):
		writeJSONError(w, http.StatusBadRequest, validation.Error())
	case errors.Is(err, store.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrCategoryInUse),
		errors.Is(err, store.ErrRecipeInUse),
		errors.Is(err, store.ErrDuplicate):
		writeJSONError(w, http.StatusConflict, err.Error())
	default:
		applog.Error(r.Context(), "request failed", "action", action, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to "+action)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		applog.Debug(r.Context(), "invalid request payload", "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}

// available answers 503 when no database has been configured.
func available(w http.ResponseWriter, r *http.Request) bool {
	if catalog == nil {
		applog.Debug(r.Context(), "request without database", "path", r.URL.Path)
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return false
	}
	return true
}

// pathSegments returns the non-empty segments after prefix.
func pathSegments(path, prefix string) []string {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

func parseID(value string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid identifier %q", value)
	}
	return uint(id), nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, &planning.ValidationError{Field: field, Message: "dates must use the YYYY-MM-DD format"}
	}
	return t, nil
}

// optionalDate parses a query parameter that may be absent.
func optionalDate(r *http.Request, field string) (*time.Time, error) {
	value := strings.TrimSpace(r.URL.Query().Get(field))
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
