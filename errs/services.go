package errs

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Throttling & dependency errors
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrSourceUnavailable = errors.New("content source unavailable")
)

// DefaultRetryLaterMessage is shown to throttled submitters. It says nothing
// about how close any identity is to the limit.
const DefaultRetryLaterMessage = "Too many submissions. Please try again in a few minutes."

func NewRateLimitError(message string, retryAfter time.Duration) *ApiErr {
	if message == "" {
		message = DefaultRetryLaterMessage
	}
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		err:        ErrRateLimitExceeded,
		Details:    message,
		Field:      "rate_limit",
		RetryAfter: retryAfter,
	}
}

// NewSourceUnavailableError marks a content source failure. Resolvers treat it
// as a soft miss so the other source still gets a chance to answer.
func NewSourceUnavailableError(source, slug string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrSourceUnavailable,
		Details:    fmt.Sprintf("%s source could not load %q", source, slug),
		Cause:      cause,
	}
}


func IsRateLimitError(err error) bool {
	return errors.Is(err, ErrRateLimitExceeded)
}

func IsSourceUnavailableError(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}
