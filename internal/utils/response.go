package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

type APIResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	Data      interface{}  `json:"data,omitempty"`
	Error     string       `json:"error,omitempty"`
	Fields    []FieldError `json:"fields,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func ErrorResponse(message, error string) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Error:     error,
		Timestamp: time.Now(),
	}
}

// WriteJSON encodes resp with the given status code.
func WriteJSON(w http.ResponseWriter, status int, resp interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteError maps err onto a status code and an error envelope. message is
// the operator-facing summary of the action that failed. Server errors carry
// only message; callers log the detail.
func WriteError(w http.ResponseWriter, message string, err error) {
	status := StatusFor(err)
	detail := err.Error()
	if status >= http.StatusInternalServerError {
		detail = ""
	}
	resp := ErrorResponse(message, detail)

	var verr *ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	if errors.Is(err, ErrInUse) {
		resp.Message = err.Error()
	}

	WriteJSON(w, status, resp)
}
