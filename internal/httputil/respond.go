// Package httputil provides response helpers and the recover boundary for
// the HTTP API.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/dozer-finance/reward-service/internal/errors"
	"github.com/dozer-finance/reward-service/internal/logging"
)

// MessageBody is the envelope every claim endpoint answers with.
type MessageBody struct {
	Message string `json:"message"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteMessage writes a {"message": ...} JSON body with the given status.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, MessageBody{Message: message})
}

// WritePlain writes a plain text response with the given status.
func WritePlain(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// WriteError maps err onto the claim API contract. A *errors.ServiceError
// keeps its status and message; anything else becomes an opaque 500 so
// backend and store faults never leak detail to callers.
func WriteError(w http.ResponseWriter, r *http.Request, logger *logging.Logger, err error) {
	if serviceErr := errors.GetServiceError(err); serviceErr != nil {
		if serviceErr.HTTPStatus >= http.StatusInternalServerError {
			logger.WithContext(r.Context()).WithError(err).Error("request failed")
		}
		WriteMessage(w, serviceErr.HTTPStatus, serviceErr.Message)
		return
	}
	internal := errors.Internal("Internal server error", err)
	logger.WithContext(r.Context()).WithError(internal).Error("request failed")
	WriteMessage(w, internal.HTTPStatus, internal.Message)
}
