package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoIndexForPath signals a family name with no registered index table.
	ErrNoIndexForPath = errors.New("There is not a search index for the given path") //nolint:staticcheck // wire-compatible message
	// ErrNotInitialized signals use of the table registry before Init or after Close.
	ErrNotInitialized = errors.New("index tables not initialized")
	// ErrAlreadyInitialized signals a second Init of the table registry before Close.
	ErrAlreadyInitialized = errors.New("index tables already initialized")
	// ErrInvalidEntity signals a source entity missing fields the transformer needs.
	ErrInvalidEntity = errors.New("invalid entity")
	// ErrLookupFailed signals a failed enrichment lookup against an upstream service.
	ErrLookupFailed = errors.New("enrichment lookup failed")
)

// LookupError wraps ErrLookupFailed with the upstream URL and HTTP status.
type LookupError struct {
	URL    string
	Status int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: GET %s returned %d", ErrLookupFailed.Error(), e.URL, e.Status)
}

func (e *LookupError) Unwrap() error { return ErrLookupFailed }

// NewLookupError creates a lookup error for a non-success upstream response.
func NewLookupError(url string, status int) error {
	return &LookupError{URL: url, Status: status}
}
