package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrFileNotFound      = errors.New("backing file not found")
	ErrOwnershipMismatch = errors.New("asset belongs to a different owner")
	ErrWriteFailure      = errors.New("storage write failed")
	ErrDuplicatePath     = errors.New("storage path already in use")
	ErrInvalidInput      = errors.New("invalid input")

	// ErrHasAttachedImages rejects deleting a catalog entity that still
	// owns images; the caller must detach or delete them first.
	ErrHasAttachedImages = errors.New("entity still has attached images")

	// ErrStoreDiverged means a compensating file move failed after a database
	// error: file and metadata no longer agree and operator intervention is
	// required. It is never returned for an ordinary recoverable failure.
	ErrStoreDiverged = errors.New("storage and database diverged")
)
