package service

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every service. Callers match with errors.Is.
var (
	ErrValidationFailed  = errors.New("validation failed")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrQuotaExceeded     = errors.New("storage quota exceeded")
	ErrNotFound          = errors.New("not found")
	ErrNotEmpty          = errors.New("folder is not empty")
	ErrDuplicateName     = errors.New("a folder with this name already exists")
	ErrMissingChunk      = errors.New("missing chunk")
	ErrCorrupted         = errors.New("file is corrupted")
	ErrStorageIO         = errors.New("storage i/o failure")
	ErrEmptyFolder       = errors.New("folder has no documents")

	ErrIDRequired = fmt.Errorf("%w: id is required", ErrValidationFailed)
	ErrReaderNil  = fmt.Errorf("%w: reader is nil", ErrValidationFailed)
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}

// storageFailure marks err as a retryable storage error while keeping it matchable.
func storageFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageIO, op, err)
}

// IsRetryable reports whether err is a transient storage failure the client may retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorageIO)
}
