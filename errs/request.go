package errs

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
)

// Request & Input-Validation Errors
var (
	ErrInvalidInput        = errors.New("Invalid input")
	ErrMaxBodySizeExceeded = errors.New("max body size exceeded")
	ErrInvalidSlug         = errors.New("invalid slug")
)

// NewValidationError reports every failing field at once. The map is keyed by
// field name; each entry holds one or more human-readable messages.
func NewValidationError(fields map[string][]string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidInput,
		Fields:     fields,
	}
}


func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusRequestEntityTooLarge,
		err:        ErrMaxBodySizeExceeded,
		Details:    fmt.Sprintf("Request body size exceeded maximum allowed size of %d bytes", maxSize),
		Field:      "body_size",
	}
}

func NewInvalidSlugError(slug string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidSlug,
		Details:    fmt.Sprintf("%q is not a valid slug", slug),
		Field:      "slug",
	}
}

// Request & Input-Validation Error Type Checkers
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}


func IsInvalidSlugError(err error) bool {
	return errors.Is(err, ErrInvalidSlug)
}

// FieldNames returns the sorted names of the fields that failed validation.
func FieldNames(err error) []string {
	var apiErr *ApiErr
	if !errors.As(err, &apiErr) || len(apiErr.Fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(apiErr.Fields))
	for name := range apiErr.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
