package pipeline

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the document does not exist or is not owned by the
// requesting principal. The two cases are deliberately indistinguishable and
// no status is mutated.
var ErrNotFound = errors.New("document not found")

// DownloadError indicates the raw file could not be read from the blob store.
// The document is marked failed before this is returned.
type DownloadError struct {
	Locator string
	Err     error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download %s: %v", e.Locator, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// ConfigurationError indicates a missing provider credential. It is fatal for
// the invocation and must not be retried.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("completion service misconfigured: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// PersistenceError indicates a datastore write failed. When the failing write
// is the terminal status update itself there is no further recovery; the
// caller sees this error either way.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
