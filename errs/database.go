package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
	ErrPersistence        = errors.New("persistence failure")
)

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewPersistenceError wraps a storage failure for the current request. The
// cause is kept for logging; clients only ever see the generic message.
func NewPersistenceError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if cause != nil && strings.Contains(cause.Error(), "connection") {
		return &ApiErr{
			StatusCode: http.StatusInternalServerError,
			err:        fmt.Errorf("%w: %w", ErrPersistence, ErrDatabaseConnection),
			Details:    details,
			Cause:      cause,
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        fmt.Errorf("%w: %w", ErrPersistence, ErrDatabaseQuery),
		Details:    details,
		Cause:      cause,
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsPersistenceError(err error) bool {
	return errors.Is(err, ErrPersistence)
}

func IsDatabaseConnectionError(err error) bool {
	return errors.Is(err, ErrDatabaseConnection)
}
