package api

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport covers requests that never produced an HTTP response
	ErrTransport = errors.New("transport failure")
	// ErrStatus is returned for any status outside the accepted set
	ErrStatus = errors.New("unexpected response status")
	// ErrDecode covers malformed JSON and payloads that fail schema validation
	ErrDecode = errors.New("malformed response")
	// ErrStaleRevision is returned when an update names a preference set that
	// is no longer the latest one on the server
	ErrStaleRevision = errors.New("preference set revision is stale")
)

// StatusError carries the status code of a rejected response
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: response error: %d", e.Method, e.Path, e.Code)
}

func (e *StatusError) Unwrap() error { return ErrStatus }
