package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrClosed        = errors.New("db: closed")
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
	ErrWrongStore    = errors.New("db: store belongs to another driver")
)

// Op constants name the failing operation for error context. Redis
// operations use the command name.
const (
	OpOpenStore   = "open store"
	OpOpenEngine  = "open engine"
	OpIndex       = "index"
	OpCommit      = "commit"
	OpDelete      = "delete"
	OpLoad        = "load"
	OpClose       = "close"
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpJSONSet     = "JSON.SET"
	OpDel         = "DEL"
	OpGet         = "GET"
	OpSet         = "SET"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
