package bizsearch

import (
	"github.com/kailas-cloud/bizsearch/internal/domain"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNoIndexForPath     = domain.ErrNoIndexForPath
	ErrNotInitialized     = domain.ErrNotInitialized
	ErrAlreadyInitialized = domain.ErrAlreadyInitialized
	ErrInvalidEntity      = domain.ErrInvalidEntity
	ErrLookupFailed       = domain.ErrLookupFailed
	ErrInvalidQuery       = query.ErrInvalidParam
)

// LookupError carries the URL and status of a failed catalog lookup.
type LookupError = domain.LookupError
