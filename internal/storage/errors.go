package storage

import "errors"

// Storage errors returned by FileStore and ChunkStore implementations.
var (
	// ErrNotFound indicates the requested location token or chunk does not exist.
	ErrNotFound = errors.New("storage: key not found")

	// ErrPermissionDenied indicates insufficient permissions to access the key.
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrInvalidKey indicates the key is malformed or contains invalid characters.
	// This includes empty keys and path traversal attempts.
	ErrInvalidKey = errors.New("storage: invalid key")
)
