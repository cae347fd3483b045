package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChunks(t *testing.T) (ChunkStore, string) {
	t.Helper()
	root := t.TempDir()
	cs, err := NewLocalChunks(root, zerolog.Nop())
	require.NoError(t, err)
	return cs, root
}

func TestLocalChunks_SaveListOpen(t *testing.T) {
	cs, root := newTestChunks(t)
	ctx := context.Background()

	require.NoError(t, cs.SaveChunk(ctx, "u1", "file-abc", 2, []byte("cc")))
	require.NoError(t, cs.SaveChunk(ctx, "u1", "file-abc", 0, []byte("aa")))

	_, err := os.Stat(filepath.Join(root, "u1", "file-abc", "2.chunk"))
	require.NoError(t, err)

	idx, err := cs.ListChunks(ctx, "u1", "file-abc")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, idx)

	rc, err := cs.OpenChunk(ctx, "u1", "file-abc", 0)
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "aa", string(b))

	_, err = cs.OpenChunk(ctx, "u1", "file-abc", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalChunks_OverwriteOnRetry(t *testing.T) {
	cs, _ := newTestChunks(t)
	ctx := context.Background()

	require.NoError(t, cs.SaveChunk(ctx, "u1", "f", 0, []byte("first")))
	require.NoError(t, cs.SaveChunk(ctx, "u1", "f", 0, []byte("second")))

	idx, err := cs.ListChunks(ctx, "u1", "f")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, idx)

	rc, err := cs.OpenChunk(ctx, "u1", "f", 0)
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "second", string(b))
}

func TestLocalChunks_IgnoresForeignFiles(t *testing.T) {
	cs, root := newTestChunks(t)
	ctx := context.Background()

	require.NoError(t, cs.SaveChunk(ctx, "u1", "f", 1, []byte("x")))
	dir := filepath.Join(root, "u1", "f")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "3.chunk.123.tmp"), []byte("partial"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("?"), 0o644))

	idx, err := cs.ListChunks(ctx, "u1", "f")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, idx)
}

func TestLocalChunks_UnknownSession(t *testing.T) {
	cs, _ := newTestChunks(t)
	ctx := context.Background()

	idx, err := cs.ListChunks(ctx, "u1", "nope")
	require.NoError(t, err)
	assert.Empty(t, idx)

	ok, err := cs.SessionExists(ctx, "u1", "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, cs.RemoveSession(ctx, "u1", "nope"))
}

func TestLocalChunks_RemoveSession(t *testing.T) {
	cs, _ := newTestChunks(t)
	ctx := context.Background()

	require.NoError(t, cs.SaveChunk(ctx, "u1", "f", 0, []byte("x")))
	require.NoError(t, cs.RemoveSession(ctx, "u1", "f"))

	ok, err := cs.SessionExists(ctx, "u1", "f")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, cs.RemoveSession(ctx, "u1", "f"))
}

func TestLocalChunks_InvalidIdentifier(t *testing.T) {
	cs, _ := newTestChunks(t)
	ctx := context.Background()

	for _, id := range []string{"", ".", "..", "a/b", `a\b`} {
		err := cs.SaveChunk(ctx, "u1", id, 0, []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, id)
	}
	assert.ErrorIs(t, cs.SaveChunk(ctx, "u1", "f", -1, nil), ErrInvalidKey)
}
