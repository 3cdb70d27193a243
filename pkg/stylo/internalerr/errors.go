package internalerr

import "errors"

// Sentinel errors for common cases
var (
	// ErrInvalidInput covers validation failures: non-positive book IDs,
	// chunk windows whose step would be zero or negative.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRetrieval marks a failed metadata fetch. Fatal for that book,
	// harmless for its batch siblings.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrContentUnavailable marks a failed content download or a body
	// without the expected markers. Soft: the book keeps an empty text.
	ErrContentUnavailable = errors.New("content unavailable")

	// ErrNotFound marks a missing store root or config file.
	ErrNotFound = errors.New("not found")

	// ErrUnknownAuthor marks an author name absent from configuration.
	ErrUnknownAuthor = errors.New("unknown author")

	// ErrInvalidConfig marks a configuration that fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)
