package storage

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Package storage places document bytes on durable storage and keeps chunk sessions on local disk.
//
// Location tokens have the form "<userID>/<yyyy-MM-dd>/<uuid><ext>" and are relative to the store root
// (a directory for the local backend, a bucket for MinIO). The layout is shared by both backends.

// PartitionLayout is the date format of the second token segment.
const PartitionLayout = "2006-01-02"

// FileStore maps (user, display name) pairs to unique physical locations and back.
// Implementations must be safe for concurrent use; uniqueness comes from the generated id.
type FileStore interface {
	// Store writes r under a freshly generated location and returns its token.
	// size is the exact byte count when known, or -1.
	Store(ctx context.Context, userID, displayName string, r io.Reader, size int64) (string, error)
	// Load opens the object behind token. Returns ErrNotFound if it does not exist.
	Load(ctx context.Context, token string) (io.ReadCloser, error)
	// Delete removes the object behind token. Deleting a missing token is not an error.
	Delete(ctx context.Context, token string) error
	// Exists reports whether token resolves to an object.
	Exists(ctx context.Context, token string) (bool, error)
}

// NewLocationToken generates a collision-free token for displayName owned by userID.
func NewLocationToken(userID, displayName string, now time.Time) (string, error) {
	if !validSegment(userID) {
		return "", ErrInvalidKey
	}
	name := uuid.NewString() + filepath.Ext(filepath.Base(displayName))
	return path.Join(userID, now.Format(PartitionLayout), name), nil
}

// validSegment reports whether s can be used as a single path element.
func validSegment(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`)
}

// cleanToken validates a relative token and returns it in canonical slash form.
func cleanToken(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(filepath.ToSlash(token))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || strings.HasPrefix(cleaned, "/") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
