package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/feldspar-labs/inkwell-backend/errs"
	"github.com/rs/zerolog"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteError maps err to an HTTP response. Client errors (4xx) carry the
// error message and, for validation failures, the offending field. Server
// faults are logged with their full cause chain but the response body stays
// generic: internal fault detail never reaches the wire.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) {
		r.logger.Error().Msg(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		r.WriteJSON(w, map[string]any{
			"error":  errs.ErrInternal.Error(),
			"status": "error",
		})
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Msg(apiErr.GetFullError())
		w.WriteHeader(apiErr.StatusCode)
		r.WriteJSON(w, map[string]any{
			"error":  errs.ErrInternal.Error(),
			"status": "error",
		})
		return
	}

	response := map[string]any{
		"error":  apiErr.Error(),
		"status": "error",
	}
	if apiErr.Field != "" {
		response["field"] = apiErr.Field
	}

	w.WriteHeader(apiErr.StatusCode)
	r.WriteJSON(w, response)
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
