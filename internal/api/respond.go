// internal/api/respond.go
//
// JSON envelope helpers shared by every component.
//
// Context
// -------
// All endpoints answer with one of two shapes:
//
//	{"success": true,  "data": …}
//	{"success": false, "error": "…", "fields": [{"name": "…", "message": "…"}]}
//
// Handlers call OK / Created for success and Fail for any error.  Fail maps
// the shared error vocabulary (database.ErrNotFound, form.Errors, …) onto
// status codes, and logs unexpected errors without leaking them.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/linkbio/internal/auth"
	"github.com/yanizio/linkbio/internal/database"
	"github.com/yanizio/linkbio/internal/form"
)

// Envelope is the wire shape of every JSON response.
type Envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  []form.ErrorField `json:"fields,omitempty"`
}

// StatusError carries an explicit status for errors outside the shared
// vocabulary, e.g. 410 Gone for an expired link.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string { return e.Message }

// Errorf builds a *StatusError.
func Errorf(code int, msg string) error { return &StatusError{Code: code, Message: msg} }

// OK writes 200 with data.
func OK(w http.ResponseWriter, data any) {
	Write(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes 201 with data.
func Created(w http.ResponseWriter, data any) {
	Write(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// NoContent writes a bare success envelope.
func NoContent(w http.ResponseWriter) { Write(w, http.StatusOK, Envelope{Success: true}) }

// Error writes a failure envelope with msg.
func Error(w http.ResponseWriter, code int, msg string) {
	Write(w, code, Envelope{Success: false, Error: msg})
}

// Fail maps err to a status code and writes the failure envelope.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		fe form.Errors
		se *StatusError
	)
	switch {
	case errors.As(err, &fe):
		Write(w, http.StatusBadRequest, Envelope{Error: "validation failed", Fields: fe})
	case errors.As(err, &se):
		Error(w, se.Code, se.Message)
	case errors.Is(err, form.ErrBadBody):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrUnauthorized):
		Error(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, database.ErrNotFound):
		Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, database.ErrConflict):
		Error(w, http.StatusConflict, "already exists")
	case errors.Is(err, database.ErrBadOrder):
		Error(w, http.StatusBadRequest, err.Error())
	default:
		zap.L().Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		Error(w, http.StatusInternalServerError, "internal error")
	}
}

// Write encodes env with status code.
func Write(w http.ResponseWriter, code int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(env)
}
