// Package api holds what every handler shares: the error body and its status
// mapping, plus query parsing helpers.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"plant-logbook/internal/service/jobs"
	"plant-logbook/internal/service/lifecycle"
	"plant-logbook/internal/storage"
)

type ErrorResponse struct {
	Status int               `json:"status"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// StatusFor maps service errors onto HTTP statuses.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrJobLocked):
		return http.StatusConflict
	case errors.Is(err, lifecycle.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, jobs.ErrUnknownView):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Error writes err as JSON. Internal failures are logged and their text hidden.
func Error(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, err error) {
	status := StatusFor(err)

	resp := ErrorResponse{Status: status, Error: err.Error()}

	var ve *lifecycle.ValidationError
	if errors.As(err, &ve) {
		resp.Fields = ve.Fields
	}

	if status == http.StatusInternalServerError {
		log.Error("request failed", slog.String("op", op), slog.String("error", err.Error()))
		resp.Error = "Internal server error"
	} else {
		log.Warn("request rejected", slog.String("op", op), slog.String("error", err.Error()))
	}

	render.Status(r, status)
	render.JSON(w, r, resp)
}

// Date parses the calendar date in query parameter name. An absent parameter
// yields the zero time.
func Date(r *http.Request, name string) (time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(storage.DateLayout, s)
}

// DateOrToday is Date with today as the default.
func DateOrToday(r *http.Request, name string) (time.Time, error) {
	d, err := Date(r, name)
	if err != nil || !d.IsZero() {
		return d, err
	}
	return time.Now(), nil
}
