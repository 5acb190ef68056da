package httpclient

import (
	"fmt"
	"net/http"

	apperrors "github.com/MustMe0430/Must-Me-app-sub000/pkg/errors"
)

// ProviderError carries the HTTP status and response body of a failed
// provider call for diagnostics. A 429 status additionally matches
// apperrors.ErrRateLimited through the wrapped sentinel chain.
type ProviderError struct {
	StatusCode int
	Body       string
	Attempts   int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider returned status %d after %d attempt(s): %s", e.StatusCode, e.Attempts, e.Body)
	}
	return fmt.Sprintf("provider request failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// newStatusError builds a ProviderError for a non-success HTTP status.
func newStatusError(status int, body string, attempts int) *ProviderError {
	sentinel := apperrors.ErrProvider
	if status == http.StatusTooManyRequests {
		sentinel = apperrors.ErrRateLimited
	}
	return &ProviderError{
		StatusCode: status,
		Body:       body,
		Attempts:   attempts,
		Err:        sentinel,
	}
}

// newTransportError builds a ProviderError for a failed network round trip.
func newTransportError(err error, attempts int) *ProviderError {
	return &ProviderError{
		Attempts: attempts,
		Err:      fmt.Errorf("%w: %w", apperrors.ErrProvider, err),
	}
}
