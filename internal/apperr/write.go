package apperr

import (
	"encoding/json"
	"errors"
	"net/http"
)

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Message string   `json:"message"`
	Status  int      `json:"status"`
	Details []string `json:"details,omitempty"`
}

// WriteJSON writes err as {"error": {"message", "status"}}. Errors that are
// not *Error are written as a generic 500 without their text.
func WriteJSON(w http.ResponseWriter, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = Internal(err)
	}
	status := e.Kind.Status()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: errorPayload{
		Message: e.Message,
		Status:  status,
		Details: e.Details,
	}})
}
