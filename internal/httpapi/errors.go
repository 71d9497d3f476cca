package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	authservice "github.com/MrEthical07/authservice"
)

const (
	msgUserAlreadyExists    = "User already exists"
	msgInvalidCredentials   = "Invalid credentials"
	msgIncorrectCredentials = "Incorrect credentials"
	msgMissingToken         = "Missing token"
	msgInvalidToken         = "Invalid token"
	msgTooManyAttempts      = "Too many attempts"
	msgMalformedRequest     = "Malformed request"
	msgUnexpected           = "Unexpected error"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps an Engine error to its HTTP status and client message.
// Anything unrecognized is a 500 with a generic message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, authservice.ErrUserAlreadyExists):
		return http.StatusConflict, msgUserAlreadyExists
	case errors.Is(err, authservice.ErrInvalidInput):
		return http.StatusBadRequest, msgInvalidCredentials
	case errors.Is(err, authservice.ErrIncorrectCredentials):
		return http.StatusUnauthorized, msgIncorrectCredentials
	case errors.Is(err, authservice.ErrMissingToken):
		return http.StatusBadRequest, msgMissingToken
	case errors.Is(err, authservice.ErrInvalidToken):
		return http.StatusUnauthorized, msgInvalidToken
	case errors.Is(err, authservice.ErrTooManyAttempts):
		return http.StatusTooManyRequests, msgTooManyAttempts
	default:
		return http.StatusInternalServerError, msgUnexpected
	}
}

func writeEngineError(w http.ResponseWriter, err error) {
	status, msg := statusFor(err)
	writeError(w, status, msg)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
