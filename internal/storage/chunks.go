package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const chunkExt = ".chunk"

// ChunkStore keeps the temporary area of resumable upload sessions.
// A session is a directory <root>/<userID>/<identifier>/ holding one <index>.chunk file per received chunk.
// The directory listing is the only session state, so sessions survive process restarts.
type ChunkStore interface {
	// SaveChunk writes data as chunk index of the session, replacing any previous copy.
	SaveChunk(ctx context.Context, userID, identifier string, index int, data []byte) error
	// ListChunks returns the sorted indices present in the session, or an empty slice if it does not exist.
	ListChunks(ctx context.Context, userID, identifier string) ([]int, error)
	// OpenChunk opens one chunk for reading. Returns ErrNotFound if it is absent.
	OpenChunk(ctx context.Context, userID, identifier string, index int) (io.ReadCloser, error)
	// RemoveSession deletes the session directory. Removing a missing session is not an error.
	RemoveSession(ctx context.Context, userID, identifier string) error
	// SessionExists reports whether the session directory is present.
	SessionExists(ctx context.Context, userID, identifier string) (bool, error)
}

type localChunks struct {
	root   string
	logger zerolog.Logger
}

// NewLocalChunks creates a disk-backed ChunkStore under root.
func NewLocalChunks(root string, logger zerolog.Logger) (ChunkStore, error) {
	if root == "" {
		return nil, fmt.Errorf("temp root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve temp root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create temp root: %w", err)
	}
	return &localChunks{
		root:   abs,
		logger: logger.With().Str("component", "chunks").Logger(),
	}, nil
}

func (c *localChunks) SaveChunk(ctx context.Context, userID, identifier string, index int, data []byte) error {
	if index < 0 {
		return ErrInvalidKey
	}
	dir, err := c.sessionDir(userID, identifier)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	final := filepath.Join(dir, chunkName(index))
	tmp, err := os.CreateTemp(dir, chunkName(index)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp chunk: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write chunk: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close chunk: %w", err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename chunk: %w", err)
	}
	return nil
}

func (c *localChunks) ListChunks(ctx context.Context, userID, identifier string) ([]int, error) {
	dir, err := c.sessionDir(userID, identifier)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []int{}, nil
		}
		return nil, mapFSError(err, "read session directory")
	}

	indices := make([]int, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), chunkExt) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(e.Name(), chunkExt))
		if err != nil || n < 0 {
			continue
		}
		indices = append(indices, n)
	}
	sort.Ints(indices)
	return indices, nil
}

func (c *localChunks) OpenChunk(ctx context.Context, userID, identifier string, index int) (io.ReadCloser, error) {
	dir, err := c.sessionDir(userID, identifier)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(dir, chunkName(index)))
	if err != nil {
		return nil, mapFSError(err, "open chunk")
	}
	return f, nil
}

func (c *localChunks) RemoveSession(ctx context.Context, userID, identifier string) error {
	dir, err := c.sessionDir(userID, identifier)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return mapFSError(err, "remove session")
	}
	c.logger.Debug().Str("user_id", userID).Str("identifier", identifier).Msg("chunk session removed")
	return nil
}

func (c *localChunks) SessionExists(ctx context.Context, userID, identifier string) (bool, error) {
	dir, err := c.sessionDir(userID, identifier)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, mapFSError(err, "stat session")
	}
	return true, nil
}

func (c *localChunks) sessionDir(userID, identifier string) (string, error) {
	if !validSegment(userID) || !validSegment(identifier) {
		return "", ErrInvalidKey
	}
	return filepath.Join(c.root, userID, identifier), nil
}

func chunkName(index int) string {
	return strconv.Itoa(index) + chunkExt
}
