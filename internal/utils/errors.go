package utils

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInUse    = errors.New("record is still referenced")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// foreignKeyMarkers are the driver messages for a violated foreign key on
// Postgres and SQLite respectively.
var foreignKeyMarkers = []string{
	"violates foreign key constraint",
	"FOREIGN KEY constraint failed",
}

func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range foreignKeyMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// TranslateDeleteError turns driver errors from a delete into the service
// error taxonomy. instruction is shown to the operator on a foreign key hit.
func TranslateDeleteError(err error, instruction string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %s", ErrInUse, instruction)
	default:
		return err
	}
}

func StatusFor(err error) int {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInUse):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
