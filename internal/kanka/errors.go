package kanka

import "fmt"

// UpstreamError is returned when the Kanka API answers with a non-2xx status.
// Body holds the best-effort response text; it may be empty when the body
// could not be read.
type UpstreamError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("kanka returned %s", e.Status)
	}
	return fmt.Sprintf("kanka returned %s: %s", e.Status, e.Body)
}
