package httperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// StoreError is the client-safe translation of a raw store failure.
type StoreError struct {
	Status int
	Code   string
	Raw    string
}

// FromStore translates driver errors into {status, code}. The second return
// is false when err is not recognized as a store error.
func FromStore(err error) (StoreError, bool) {
	if err == nil {
		return StoreError{}, false
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StoreError{Status: http.StatusNotFound, Code: CodeNotFound, Raw: err.Error()}, true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return StoreError{Status: http.StatusBadRequest, Code: CodeDuplicateEntry, Raw: err.Error()}, true
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return StoreError{Status: http.StatusBadRequest, Code: CodeInvalidReference, Raw: err.Error()}, true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return StoreError{Status: http.StatusBadRequest, Code: CodeDuplicateEntry, Raw: pgErr.Message}, true
		case "23503":
			return StoreError{Status: http.StatusBadRequest, Code: CodeInvalidReference, Raw: pgErr.Message}, true
		case "23502":
			return StoreError{Status: http.StatusBadRequest, Code: CodeMissingField, Raw: pgErr.Message}, true
		case "42P01", "42703":
			return StoreError{Status: http.StatusInternalServerError, Code: CodeSchema, Raw: pgErr.Message}, true
		}
		return StoreError{}, false
	}

	// SQLite reports constraint failures only as text.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return StoreError{Status: http.StatusBadRequest, Code: CodeDuplicateEntry, Raw: msg}, true
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return StoreError{Status: http.StatusBadRequest, Code: CodeInvalidReference, Raw: msg}, true
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return StoreError{Status: http.StatusBadRequest, Code: CodeMissingField, Raw: msg}, true
	case strings.Contains(msg, "no such table"), strings.Contains(msg, "no such column"):
		return StoreError{Status: http.StatusInternalServerError, Code: CodeSchema, Raw: msg}, true
	}

	return StoreError{}, false
}

// IsUniqueViolation reports whether err is a unique-constraint failure whose
// message or constraint name mentions target.
func IsUniqueViolation(err error, target string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" &&
			(strings.Contains(pgErr.ConstraintName, target) || strings.Contains(pgErr.Detail, target))
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, target)
}
