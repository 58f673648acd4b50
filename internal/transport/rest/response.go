// Package rest
package rest

import (
	"encoding/json"
	"net/http"
)

type APIResponse struct {
	Message string            `json:"message"`
	Kind    string            `json:"kind,omitempty"`
	Data    any               `json:"data,omitempty"`
	Err     map[string]string `json:"err,omitempty"`
}

// kindFor derives the machine-checkable error kind from the status class so
// clients never have to parse human strings.
func kindFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "validation"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "unprocessable"
	case http.StatusTooManyRequests:
		return "rate_limited"
	default:
		return "internal"
	}
}

func writeJSON(w http.ResponseWriter, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func JSONSuccess(w http.ResponseWriter, status int, body APIResponse) {
	writeJSON(w, status, body)
}

func JSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{
		Message: message,
		Kind:    kindFor(status),
	})
}

func JSONFieldError(w http.ResponseWriter, status int, field, message string) {
	writeJSON(w, status, APIResponse{
		Message: "Validation Error",
		Kind:    kindFor(status),
		Err:     map[string]string{field: message},
	})
}

func JSONValidationError(w http.ResponseWriter, errs map[string]string) {
	writeJSON(w, http.StatusBadRequest, APIResponse{
		Message: "Validation Error",
		Kind:    kindFor(http.StatusBadRequest),
		Err:     errs,
	})
}
