package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"plata/internal/engine"
	"plata/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeEngineError maps engine failures to HTTP statuses: invalid input and
// known sentinels are client errors, anything else is a 500.
func writeEngineError(w http.ResponseWriter, err error) {
	var invalid *engine.InvalidInputError
	switch {
	case errors.As(err, &invalid),
		errors.Is(err, engine.ErrInsufficientPayment),
		errors.Is(err, engine.ErrUnknownStrategy),
		errors.Is(err, engine.ErrGoalDateElapsed):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, engine.ErrNoBudget), errors.Is(err, engine.ErrNoGoal):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// userID extracts the required user_id query parameter.
func userID(r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.URL.Query().Get("user_id"))
	return id, id != ""
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := strings.TrimSpace(r.URL.Query().Get(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// parseYearMonth extracts year and month from query parameters, defaulting to
// the current month.
func parseYearMonth(r *http.Request) (year int, month time.Month) {
	now := time.Now()
	year = queryInt(r, "year", now.Year())
	m := queryInt(r, "month", int(now.Month()))
	if m < 1 || m > 12 {
		m = int(now.Month())
	}
	return year, time.Month(m)
}
