package core

import "errors"

// Input errors abort an import before any row is processed.
var (
	ErrMissingCSV             = errors.New("no CSV data provided")
	ErrMissingHeaders         = errors.New("missing required columns")
	ErrInvalidMode            = errors.New("invalid mode")
	ErrInvalidDuplicateAction = errors.New("invalid duplicate action")
)

// ErrBatchNotFound is returned by undo when the batch is unknown, already
// undone, or older than the undo window.
var ErrBatchNotFound = errors.New("batch not found or too old to undo")

// IsInputError reports whether err is caused by the request itself rather
// than by the store or the server.
func IsInputError(err error) bool {
	return errors.Is(err, ErrMissingCSV) ||
		errors.Is(err, ErrMissingHeaders) ||
		errors.Is(err, ErrInvalidMode) ||
		errors.Is(err, ErrInvalidDuplicateAction)
}
