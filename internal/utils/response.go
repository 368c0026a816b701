package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Detail interface{} `json:"detail"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// FieldError describes one rejected input field.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already out if this fails, nothing left to report to the client.
	_ = json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, status int, detail string) {
	WriteJSON(w, status, ErrorResponse{Detail: detail})
}

func WriteValidationError(w http.ResponseWriter, errs []FieldError) {
	WriteJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Detail: errs})
}
