package client

import (
	"fmt"
	"strings"

	"resty.dev/v3"
)

// RemoteError is an opaque failure from the catalog service: connectivity,
// auth, rate limiting, or a malformed response. The identity caches
// propagate it verbatim; it is never translated into a not-found result.
type RemoteError struct {
	StatusCode int
	RequestID  string
	Body       string
}

func (e *RemoteError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("catalog service returned %d (request %s): %s", e.StatusCode, e.RequestID, e.Body)
	}
	return fmt.Sprintf("catalog service returned %d: %s", e.StatusCode, e.Body)
}

func newRemoteError(resp *resty.Response) *RemoteError {
	return &RemoteError{
		StatusCode: resp.StatusCode(),
		RequestID:  resp.Request.Header.Get(headerRequestID),
		Body:       strings.TrimSpace(resp.String()),
	}
}
