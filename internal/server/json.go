package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/warriorsbball/painttouch/internal/painttouch"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SyncErrorResponse is returned when a sync fails part way.
type SyncErrorResponse struct {
	Error   string `json:"error"`
	Written int    `json:"written"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		verr *painttouch.ValidationError
		nerr *painttouch.NotFoundError
		cfg  *painttouch.ConfigurationError
		conn *painttouch.ConnectionError
		serr *painttouch.SyncError
	)
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.As(err, &nerr):
		writeError(w, http.StatusNotFound, nerr.Error())
	case errors.As(err, &cfg):
		writeError(w, http.StatusServiceUnavailable, "sync disabled: "+cfg.Error())
	case errors.As(err, &conn):
		writeError(w, http.StatusBadGateway, "database unreachable")
	case errors.As(err, &serr):
		writeJSON(w, http.StatusBadGateway, SyncErrorResponse{Error: "sync failed", Written: serr.Written})
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
