// internal/server/respond.go
package server

import (
	"encoding/json"
	"net/http"

	"jobboard-api/internal/common/errors"
	"jobboard-api/internal/common/logger"
)

// errorEnvelope is the JSON shape of non-validation error responses.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// validationEnvelope is the 400 body for validation failures: a flat list
// of per-field problems.
type validationEnvelope struct {
	Errors []errors.FieldError `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps service errors to HTTP responses. Unknown error types
// become opaque 500s so internals never leak to clients.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	se, ok := errors.AsStandardError(err)
	if !ok {
		log.Error("unhandled error", map[string]interface{}{"error": err.Error()})
		writeJSON(w, http.StatusInternalServerError, errorEnvelope{
			Error: errorBody{
				Code:    string(errors.ErrCodeDatabaseQueryFailed),
				Message: "internal error",
			},
		})
		return
	}

	if se.Code == errors.ErrCodeValidationFailed {
		fields := se.Fields
		if fields == nil {
			fields = []errors.FieldError{}
		}
		writeJSON(w, http.StatusBadRequest, validationEnvelope{Errors: fields})
		return
	}

	status := errors.HTTPStatus(se.Code)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", map[string]interface{}{
			"code":  string(se.Code),
			"error": se.Message,
		})
		// 5xx details stay in the logs.
		writeJSON(w, status, errorEnvelope{
			Error: errorBody{Code: string(se.Code), Message: "internal error"},
		})
		return
	}

	writeJSON(w, status, errorEnvelope{
		Error: errorBody{Code: string(se.Code), Message: se.Message},
	})
}
