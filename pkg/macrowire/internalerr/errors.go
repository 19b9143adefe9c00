package internalerr

import "errors"

// Sentinel errors shared by the stores, the status reader and config loading.
var (
	ErrNotFound         = errors.New("not found")
	ErrMalformed        = errors.New("malformed record")
	ErrInvalidInput     = errors.New("invalid input")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
