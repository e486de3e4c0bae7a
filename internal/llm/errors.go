package llm

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey indicates the provider credential was absent from
// configuration. This is fatal for the invocation and must not be retried.
var ErrMissingAPIKey = errors.New("completion service API key is not configured")

// ServiceError indicates a transport failure or a non-2xx HTTP response from
// the completion endpoint. The provider's error body is preserved for logs.
type ServiceError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("completion service request failed: %v", e.Err)
	}
	return fmt.Sprintf("completion service returned status %d: %s", e.StatusCode, e.Body)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// UnexpectedResponseError indicates a 2xx response whose body did not contain
// the expected structure (e.g., no choices, no content).
type UnexpectedResponseError struct {
	Reason string
}

func (e *UnexpectedResponseError) Error() string {
	return "unexpected completion response: " + e.Reason
}
