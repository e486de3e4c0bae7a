package profile

import "fmt"

// MalformedOutputError indicates the model response could not be parsed as a
// JSON object. A bounded snippet of the offending text is kept for logs.
type MalformedOutputError struct {
	Snippet string
	Err     error
}

func (e *MalformedOutputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed model output: %v (content: %s)", e.Err, e.Snippet)
	}
	return fmt.Sprintf("malformed model output: %s", e.Snippet)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Err
}

// snippet bounds error context to something loggable.
func snippet(s string) string {
	const max = 200
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
