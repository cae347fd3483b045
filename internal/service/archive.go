package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"

	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

// ArchiveService streams document sets as a single zip archive.
type ArchiveService interface {
	// Compress writes the documents with the given ids to w. Unreadable documents are skipped.
	Compress(ctx context.Context, userID string, ids []string, w io.Writer) (*ExportResult, error)

	// CompressFolder writes every document directly inside folderID to w.
	// Returns ErrEmptyFolder before touching w if the folder holds no documents.
	CompressFolder(ctx context.Context, userID, folderID string, w io.Writer) (*ExportResult, error)

	// FolderDocuments resolves the current document set of a folder, failing with ErrEmptyFolder when it is empty.
	// Callers that must commit response headers before streaming use it as a precheck.
	FolderDocuments(ctx context.Context, userID, folderID string) ([]model.Document, error)

	// WriteDocuments writes an already resolved document set to w.
	WriteDocuments(ctx context.Context, userID string, docs []model.Document, w io.Writer) (*ExportResult, error)
}

// ExportResult summarizes a finished archive.
type ExportResult struct {
	Entries int      `json:"entries"`
	Skipped []string `json:"skipped"`
}

type archiveService struct {
	store   storage.FileStore
	docs    repository.DocumentRepository
	folders FolderService
	audit   auditor
	opts    Options
	logger  zerolog.Logger
}

// NewArchiveService constructs an ArchiveService.
func NewArchiveService(store storage.FileStore, docs repository.DocumentRepository, folders FolderService, sink AuditSink, opts Options) ArchiveService {
	opts = opts.withDefaults()
	return &archiveService{
		store:   store,
		docs:    docs,
		folders: folders,
		audit:   auditor{sink: sink},
		opts:    opts,
		logger:  opts.Logger.With().Str("component", "archive").Logger(),
	}
}

func (s *archiveService) Compress(ctx context.Context, userID string, ids []string, w io.Writer) (*ExportResult, error) {
	if len(ids) == 0 {
		return nil, invalid("no ids provided")
	}

	docs := make([]model.Document, 0, len(ids))
	var missing []string
	for _, id := range ids {
		doc, err := s.docs.FindByID(ctx, userID, id)
		if err != nil {
			s.logger.Warn().Str("user_id", userID).Str("document_id", id).Err(err).Msg("skipping document in export")
			s.opts.Metrics.ObserveArchiveSkip()
			missing = append(missing, id)
			continue
		}
		docs = append(docs, *doc)
	}

	res, err := s.WriteDocuments(ctx, userID, docs, w)
	if err != nil {
		return nil, err
	}
	res.Skipped = append(missing, res.Skipped...)
	return res, nil
}

func (s *archiveService) CompressFolder(ctx context.Context, userID, folderID string, w io.Writer) (*ExportResult, error) {
	docs, err := s.FolderDocuments(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}
	return s.WriteDocuments(ctx, userID, docs, w)
}

func (s *archiveService) FolderDocuments(ctx context.Context, userID, folderID string) ([]model.Document, error) {
	docs, err := s.folders.Documents(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrEmptyFolder
	}
	return docs, nil
}

func (s *archiveService) WriteDocuments(ctx context.Context, userID string, docs []model.Document, w io.Writer) (*ExportResult, error) {
	zw := zip.NewWriter(w)
	names := make(map[string]int, len(docs))
	res := &ExportResult{Skipped: []string{}}

	for i := range docs {
		doc := &docs[i]
		if err := ctx.Err(); err != nil {
			zw.Close()
			return nil, err
		}

		// Each document is loaded fully before its entry is opened so a read failure never leaves a truncated entry.
		data, err := loadAll(ctx, s.store, doc.FilePath)
		if err != nil {
			s.logger.Warn().Str("user_id", userID).Str("document_id", doc.ID).Err(err).Msg("skipping document in export")
			s.opts.Metrics.ObserveArchiveSkip()
			res.Skipped = append(res.Skipped, doc.ID)
			continue
		}

		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     entryName(names, doc.OriginalFilename),
			Method:   zip.Deflate,
			Modified: doc.UpdatedAt,
		})
		if err != nil {
			return nil, storageFailure("create archive entry", err)
		}
		if _, err := fw.Write(data); err != nil {
			return nil, storageFailure("write archive entry", err)
		}
		res.Entries++
	}

	if err := zw.Close(); err != nil {
		return nil, storageFailure("finish archive", err)
	}

	s.audit.success(ctx, userID, model.OpExport, model.ResourceDocument, "", map[string]any{
		"requested": len(docs),
		"entries":   res.Entries,
		"skipped":   len(res.Skipped),
	})
	return res, nil
}

// entryName returns name, or "name (n).ext" when name was already used in the archive.
func entryName(used map[string]int, name string) string {
	name = cleanDisplayName(name)
	if name == "" {
		name = "document"
	}
	n := used[strings.ToLower(name)]
	used[strings.ToLower(name)] = n + 1
	if n == 0 {
		return name
	}

	ext := filepath.Ext(name)
	candidate := fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(name, ext), n, ext)
	for used[strings.ToLower(candidate)] > 0 {
		n++
		candidate = fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(name, ext), n, ext)
	}
	used[strings.ToLower(candidate)] = 1
	return candidate
}
