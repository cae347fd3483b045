package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// localStore implements FileStore on the local filesystem.
// Files live at <root>/<userID>/<yyyy-MM-dd>/<uuid><ext>.
type localStore struct {
	root   string
	now    func() time.Time
	logger zerolog.Logger
}

// NewLocal creates a filesystem FileStore rooted at root. The directory is created if missing.
func NewLocal(root string, logger zerolog.Logger) (FileStore, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &localStore{
		root:   abs,
		now:    time.Now,
		logger: logger.With().Str("component", "storage").Str("backend", "local").Logger(),
	}, nil
}

func (l *localStore) Store(ctx context.Context, userID, displayName string, r io.Reader, size int64) (string, error) {
	if r == nil {
		return "", fmt.Errorf("reader is nil")
	}
	token, err := NewLocationToken(userID, displayName, l.now())
	if err != nil {
		return "", err
	}
	full, err := l.fullPath(token)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	tmp := full + ".tmp"
	if err := writeFile(ctx, tmp, r); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, full); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename temp file: %w", err)
	}

	l.logger.Debug().Str("token", token).Int64("size", size).Msg("file stored")
	return token, nil
}

func (l *localStore) Load(ctx context.Context, token string) (io.ReadCloser, error) {
	full, err := l.fullPath(token)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, mapFSError(err, "open file")
	}
	return f, nil
}

func (l *localStore) Delete(ctx context.Context, token string) error {
	full, err := l.fullPath(token)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return mapFSError(err, "remove file")
	}

	// Drop the date partition once it is empty; the user directory is kept.
	dir := filepath.Dir(full)
	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		if err := os.Remove(dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn().Str("dir", dir).Err(err).Msg("failed to remove empty directory")
		}
	}
	return nil
}

func (l *localStore) Exists(ctx context.Context, token string) (bool, error) {
	full, err := l.fullPath(token)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, mapFSError(err, "stat file")
	}
	return true, nil
}

func (l *localStore) fullPath(token string) (string, error) {
	cleaned, err := cleanToken(token)
	if err != nil {
		return "", err
	}
	full := filepath.Join(l.root, filepath.FromSlash(cleaned))
	if !strings.HasPrefix(full, l.root+string(filepath.Separator)) {
		return "", ErrInvalidKey
	}
	return full, nil
}

// writeFile copies r into a new file at p, honoring ctx cancellation between reads.
func writeFile(ctx context.Context, p string, r io.Reader) error {
	f, err := createFile(p)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, contextReader{ctx: ctx, r: r}); err != nil {
		f.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}

// createFile opens p for writing. A concurrent Delete may prune the empty
// date directory after Store created it, so the directory is recreated once.
func createFile(p string) (*os.File, error) {
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if !errors.Is(err, fs.ErrNotExist) {
		return f, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
}

func mapFSError(err error, op string) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrPermissionDenied
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
