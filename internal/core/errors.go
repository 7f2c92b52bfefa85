package core

import "errors"

// Stage-level failures. Per-unit failures inside a batch never surface as
// errors; they become failed-status records on the unit instead.
var (
	// ErrPageLimitExceeded means the document has more pages than the
	// configured ceiling allows.
	ErrPageLimitExceeded = errors.New("page limit exceeded")

	// ErrDocumentUnreadable means the document could not be opened at all.
	ErrDocumentUnreadable = errors.New("document unreadable")

	// ErrBatchTooLarge means the caller submitted more units than the
	// configured batch ceiling.
	ErrBatchTooLarge = errors.New("batch too large")

	// ErrEmptyInput means the caller submitted empty or missing input.
	ErrEmptyInput = errors.New("empty input")

	// ErrBackendUnavailable means an external engine or API is unreachable.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrStorageWriteFailed means a batch transaction could not commit.
	// Nothing from the batch is visible after this error.
	ErrStorageWriteFailed = errors.New("storage write failed")
)
