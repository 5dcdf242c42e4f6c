package services

import "fmt"

// HTTPError carries the bare {error, details} contract used by the proxy
// and link preview endpoints, together with the status to send.
type HTTPError struct {
	Status  int
	Message string
	Details string
}

func (e *HTTPError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Details)
}

func newHTTPError(status int, message, details string) *HTTPError {
	return &HTTPError{Status: status, Message: message, Details: details}
}
