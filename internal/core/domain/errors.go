package domain

import (
	"errors"
	"strconv"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Corpus Errors.

	// ErrMalformedDocument indicates a document whose metadata could not be read.
	// The document is still indexed with degraded metadata.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrInvalidFrontMatter indicates YAML front-matter that failed to parse
	// while a metadata section still supplied the title.
	ErrInvalidFrontMatter = errors.New("invalid front-matter")

	// ErrDuplicateID indicates two documents share an id.
	// The later document wins and the earlier one is shadowed.
	ErrDuplicateID = errors.New("duplicate document id")

	// ErrCorpusUnreadable indicates the corpus root could not be read.
	// It is fatal for the current build attempt only.
	ErrCorpusUnreadable = errors.New("corpus unreadable")

	// Routing Errors.

	// ErrIndexNotReady indicates no index has been published yet.
	ErrIndexNotReady = errors.New("index not ready")
)

// DocumentError reports a recoverable problem with one logical document.
// It wraps a sentinel such as ErrMalformedDocument.
type DocumentError struct {
	SourcePath string
	Ordinal    int
	Reason     string
	Err        error
}

// Error implements error.
func (e *DocumentError) Error() string {
	return e.SourcePath + "#" + strconv.Itoa(e.Ordinal) + ": " + e.Err.Error() + ": " + e.Reason
}

// Unwrap returns the wrapped sentinel.
func (e *DocumentError) Unwrap() error {
	return e.Err
}
