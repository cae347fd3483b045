package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/docker/go-units"
	"github.com/rs/zerolog"

	"docvault/internal/metrics"
	"docvault/internal/model"
	"docvault/internal/storage"
)

// ChunkUploadService accepts resumable uploads chunk by chunk and assembles them once complete.
type ChunkUploadService interface {
	// AcceptChunk stores one chunk and finalizes the upload when every chunk is present.
	AcceptChunk(ctx context.Context, userID string, c model.ChunkUpload) (*model.ChunkResult, error)

	// UploadedChunks returns the sorted chunk indices already received for identifier.
	UploadedChunks(ctx context.Context, userID, identifier string) ([]int, error)

	// Cancel discards the temporary area of identifier.
	Cancel(ctx context.Context, userID, identifier string) error
}

type chunkUploadService struct {
	chunks storage.ChunkStore
	store  storage.FileStore
	docs   DocumentService
	quota  *QuotaGuard
	audit  auditor
	opts   Options
	logger zerolog.Logger
	locks  sessionLocks
}

// NewChunkUploadService constructs a ChunkUploadService. Finalized files are registered through docs.
func NewChunkUploadService(
	chunks storage.ChunkStore,
	store storage.FileStore,
	docs DocumentService,
	quota *QuotaGuard,
	sink AuditSink,
	opts Options,
) ChunkUploadService {
	opts = opts.withDefaults()
	return &chunkUploadService{
		chunks: chunks,
		store:  store,
		docs:   docs,
		quota:  quota,
		audit:  auditor{sink: sink},
		opts:   opts,
		logger: opts.Logger.With().Str("component", "chunk_upload").Logger(),
	}
}

func (s *chunkUploadService) AcceptChunk(ctx context.Context, userID string, c model.ChunkUpload) (*model.ChunkResult, error) {
	if err := s.validate(c); err != nil {
		return nil, err
	}
	c.Filename = cleanDisplayName(c.Filename)

	// Quota is admitted once per session, against the declared total.
	if c.ChunkIndex == 0 {
		if err := s.quota.Admit(ctx, userID, c.TotalSize); err != nil {
			return nil, err
		}
	}

	if err := s.chunks.SaveChunk(ctx, userID, c.FileIdentifier, c.ChunkIndex, c.Data); err != nil {
		return nil, s.mapChunkError("save chunk", err)
	}

	uploaded, err := s.chunks.ListChunks(ctx, userID, c.FileIdentifier)
	if err != nil {
		return nil, s.mapChunkError("list chunks", err)
	}

	res := &model.ChunkResult{
		UploadedChunks: uploaded,
		Progress:       progress(len(uploaded), c.TotalChunks),
	}
	if len(uploaded) < c.TotalChunks {
		return res, nil
	}

	unlock := s.locks.lock(userID + "/" + c.FileIdentifier)
	doc, err := s.finalize(ctx, userID, c)
	unlock()
	if err != nil {
		s.opts.Metrics.ObserveMerge(metrics.MergeFailed)
		s.audit.failure(ctx, userID, model.OpChunkUpload, model.ResourceDocument, "", map[string]any{
			"identifier":   c.FileIdentifier,
			"filename":     c.Filename,
			"total_chunks": c.TotalChunks,
		}, err)
		return nil, err
	}

	res.Completed = true
	res.Progress = 100
	res.Document = doc
	return res, nil
}

// finalize merges the session into the FileStore and registers the resulting document.
// A session that is already gone was finalized by a concurrent request; that call reports completion without a document.
func (s *chunkUploadService) finalize(ctx context.Context, userID string, c model.ChunkUpload) (*model.Document, error) {
	exists, err := s.chunks.SessionExists(ctx, userID, c.FileIdentifier)
	if err != nil {
		return nil, s.mapChunkError("stat session", err)
	}
	if !exists {
		s.opts.Metrics.ObserveMerge(metrics.MergeDuplicate)
		return nil, nil
	}

	present, err := s.chunks.ListChunks(ctx, userID, c.FileIdentifier)
	if err != nil {
		return nil, s.mapChunkError("list chunks", err)
	}
	have := make(map[int]struct{}, len(present))
	for _, i := range present {
		have[i] = struct{}{}
	}
	for i := 0; i < c.TotalChunks; i++ {
		if _, ok := have[i]; !ok {
			return nil, fmt.Errorf("%w: chunk %d of %s", ErrMissingChunk, i, c.FileIdentifier)
		}
	}

	r := &sessionReader{ctx: ctx, chunks: s.chunks, userID: userID, identifier: c.FileIdentifier, total: c.TotalChunks}
	counter := &countingReader{r: r}
	token, err := s.store.Store(ctx, userID, c.Filename, counter, -1)
	r.Close()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrMissingChunk, err)
		}
		return nil, storageFailure("merge chunks", err)
	}
	if r.n != c.TotalSize {
		s.logger.Warn().
			Str("identifier", c.FileIdentifier).
			Int64("declared", c.TotalSize).
			Int64("merged", r.n).
			Msg("merged size differs from declared total size")
	}

	doc, err := s.docs.RegisterStored(ctx, userID, StoredFile{
		Token:       token,
		DisplayName: c.Filename,
		Size:        r.n,
		FolderID:    c.FolderID,
		Head:        counter.head,
	})
	if err != nil {
		if errors.Is(err, ErrValidationFailed) {
			// Resending chunks cannot change the merged content.
			s.removeSession(ctx, userID, c.FileIdentifier)
			return nil, err
		}
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnsupportedFormat) {
			return nil, err
		}
		return nil, storageFailure("register merged file", err)
	}

	s.removeSession(ctx, userID, c.FileIdentifier)

	s.opts.Metrics.ObserveMerge(metrics.MergeCompleted)
	s.opts.Metrics.ObserveUpload(metrics.ModeChunk, doc.FileSize)
	s.audit.success(ctx, userID, model.OpChunkUpload, model.ResourceDocument, doc.ID, map[string]any{
		"identifier":   c.FileIdentifier,
		"filename":     doc.OriginalFilename,
		"total_chunks": c.TotalChunks,
		"size":         doc.FileSize,
	})
	s.logger.Info().
		Str("user_id", userID).
		Str("identifier", c.FileIdentifier).
		Str("document_id", doc.ID).
		Str("size", units.HumanSize(float64(doc.FileSize))).
		Msg("chunked upload completed")
	return doc, nil
}

func (s *chunkUploadService) UploadedChunks(ctx context.Context, userID, identifier string) ([]int, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, invalid("file identifier is required")
	}
	indices, err := s.chunks.ListChunks(ctx, userID, identifier)
	if err != nil {
		return nil, s.mapChunkError("list chunks", err)
	}
	return indices, nil
}

func (s *chunkUploadService) Cancel(ctx context.Context, userID, identifier string) error {
	if strings.TrimSpace(identifier) == "" {
		return invalid("file identifier is required")
	}
	if err := s.chunks.RemoveSession(ctx, userID, identifier); err != nil {
		return s.mapChunkError("remove session", err)
	}
	s.logger.Info().Str("user_id", userID).Str("identifier", identifier).Msg("chunked upload cancelled")
	return nil
}

// validate rejects a chunk before anything touches the disk.
func (s *chunkUploadService) validate(c model.ChunkUpload) error {
	switch {
	case strings.TrimSpace(c.FileIdentifier) == "":
		return invalid("file identifier is required")
	case c.TotalChunks <= 0:
		return invalid("total chunks must be positive")
	case c.ChunkIndex < 0 || c.ChunkIndex >= c.TotalChunks:
		return invalid("chunk index %d out of range [0,%d)", c.ChunkIndex, c.TotalChunks)
	case len(c.Data) == 0:
		return invalid("chunk is empty")
	case c.TotalSize <= 0:
		return invalid("total size must be positive")
	case c.TotalSize > s.opts.MaxFileSize:
		return invalid("file exceeds maximum size of %s", units.BytesSize(float64(s.opts.MaxFileSize)))
	case cleanDisplayName(c.Filename) == "":
		return invalid("filename is required")
	}
	if _, ok := model.DocumentTypeFromName(cleanDisplayName(c.Filename)); !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, c.Filename)
	}
	return nil
}

func (s *chunkUploadService) mapChunkError(op string, err error) error {
	if errors.Is(err, storage.ErrInvalidKey) {
		return invalid("invalid file identifier")
	}
	return storageFailure(op, err)
}

// progress returns received/total as a percentage rounded to two decimals.
func progress(received, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(received)*10000/float64(total)) / 100
}

// sessionReader streams the chunks of a session in index order, opening each one lazily.
type sessionReader struct {
	ctx        context.Context
	chunks     storage.ChunkStore
	userID     string
	identifier string
	total      int

	next int
	cur  io.ReadCloser
	n    int64
}

func (r *sessionReader) Read(p []byte) (int, error) {
	for {
		if r.cur == nil {
			if r.next >= r.total {
				return 0, io.EOF
			}
			rc, err := r.chunks.OpenChunk(r.ctx, r.userID, r.identifier, r.next)
			if err != nil {
				return 0, fmt.Errorf("chunk %d: %w", r.next, err)
			}
			r.cur = rc
			r.next++
		}

		n, err := r.cur.Read(p)
		r.n += int64(n)
		if errors.Is(err, io.EOF) {
			r.cur.Close()
			r.cur = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (r *sessionReader) Close() error {
	if r.cur == nil {
		return nil
	}
	err := r.cur.Close()
	r.cur = nil
	return err
}

// sessionLocks serializes finalization per session within this process.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func (l *sessionLocks) lock(key string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sessionLock)
	}
	sl, ok := l.locks[key]
	if !ok {
		sl = &sessionLock{}
		l.locks[key] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

func (s *chunkUploadService) removeSession(ctx context.Context, userID, identifier string) {
	if err := s.chunks.RemoveSession(ctx, userID, identifier); err != nil {
		s.logger.Warn().Str("identifier", identifier).Err(err).Msg("failed to clean up chunk session")
	}
}
