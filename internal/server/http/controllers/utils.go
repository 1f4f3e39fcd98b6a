package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/David2024patton/discord-attendance-bot/internal/roster"
	"github.com/David2024patton/discord-attendance-bot/internal/signup"
)

// Helper functions for common HTTP responses

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a JSON response with the given data.
func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// writeServiceError maps service errors onto HTTP status codes. Roster
// conflicts are 409, unknown sessions 404, unavailable states 503.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, signup.ErrUnknownSession):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, signup.ErrNotReady), errors.Is(err, signup.ErrPersistence):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, signup.ErrInvalidAction):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, signup.ErrDuplicateSession),
		errors.Is(err, signup.ErrSessionClosed),
		errors.Is(err, roster.ErrAlreadyMember),
		errors.Is(err, roster.ErrRosterFull),
		errors.Is(err, roster.ErrNotAttending),
		errors.Is(err, roster.ErrNotOnStandby),
		errors.Is(err, roster.ErrNotEligible),
		errors.Is(err, roster.ErrAlreadyDeclined),
		errors.Is(err, roster.ErrAlreadyCheckedIn):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// parseLimit parses a limit string, returning 0 for empty or invalid values.
func parseLimit(limitStr string) int {
	if limitStr == "" {
		return 0
	}
	if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
		return limit
	}
	return 0
}

// parseSeq parses a sequence cursor, returning 0 for empty or invalid values.
func parseSeq(s string) uint64 {
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return n
	}
	return 0
}
