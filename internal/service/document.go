package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math"
	"path"
	"path/filepath"
	"strings"

	"github.com/docker/go-units"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"docvault/internal/metrics"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items      []model.Document `json:"data"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Size       int              `json:"size"`
	TotalPages int              `json:"total_pages"`
}

// ListQuery describes a document listing request. Page is zero-based.
type ListQuery struct {
	Keyword   string
	FileType  string
	FolderID  *string
	SortBy    string
	Direction string
	Page      int
	Size      int
}

// UpdateInput holds the optional changes of a document update.
// FolderID moves the document into a folder; MoveToRoot detaches it from any folder.
type UpdateInput struct {
	Filename   *string
	FolderID   *string
	MoveToRoot bool
}

// StoredFile describes bytes already written to the FileStore that still need a document record.
type StoredFile struct {
	Token       string
	DisplayName string
	Size        int64
	FolderID    *string
	// Head holds the first bytes of the content as it was written.
	Head []byte
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload validates, admits against quota, stores the content and saves its metadata.
	Upload(ctx context.Context, userID string, r io.Reader, size int64, displayName string, folderID *string) (*model.Document, error)

	// BatchUpload uploads every file independently and reports per-file outcomes.
	BatchUpload(ctx context.Context, userID string, files []model.FileUpload, folderID *string) (*model.BatchUploadResult, error)

	// RegisterStored creates the document record for a file that is already in the FileStore.
	RegisterStored(ctx context.Context, userID string, f StoredFile) (*model.Document, error)

	// List returns a filtered, sorted page of the user's documents.
	List(ctx context.Context, userID string, q ListQuery) (*DocumentListResult, error)

	// Get returns a single document owned by userID.
	Get(ctx context.Context, userID, id string) (*model.Document, error)

	// Update renames and/or moves a document.
	Update(ctx context.Context, userID, id string, in UpdateInput) (*model.Document, error)

	// Delete removes a document from both storage and repository.
	Delete(ctx context.Context, userID, id string) error

	// BatchDelete deletes every id independently and reports per-id outcomes.
	BatchDelete(ctx context.Context, userID string, ids []string) (*model.BatchDeleteResult, error)

	// Download returns the document and its verified content.
	Download(ctx context.Context, userID, id string) (*model.Document, []byte, error)

	// StorageInfo returns the user's live storage usage.
	StorageInfo(ctx context.Context, userID string) (*model.StorageInfo, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store   storage.FileStore
	repo    repository.DocumentRepository
	folders repository.FolderRepository
	quota   *QuotaGuard
	audit   auditor
	opts    Options
	logger  zerolog.Logger
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(
	store storage.FileStore,
	repo repository.DocumentRepository,
	folders repository.FolderRepository,
	quota *QuotaGuard,
	sink AuditSink,
	opts Options,
) DocumentService {
	opts = opts.withDefaults()
	return &documentService{
		store:   store,
		repo:    repo,
		folders: folders,
		quota:   quota,
		audit:   auditor{sink: sink},
		opts:    opts,
		logger:  opts.Logger.With().Str("component", "documents").Logger(),
	}
}

func (s *documentService) Upload(ctx context.Context, userID string, r io.Reader, size int64, displayName string, folderID *string) (*model.Document, error) {
	doc, err := s.upload(ctx, userID, r, size, displayName, folderID)
	if err != nil {
		s.audit.failure(ctx, userID, model.OpUpload, model.ResourceDocument, "",
			map[string]any{"filename": displayName, "size": size}, err)
		return nil, err
	}
	s.opts.Metrics.ObserveUpload(metrics.ModeSingle, doc.FileSize)
	s.audit.success(ctx, userID, model.OpUpload, model.ResourceDocument, doc.ID, uploadDetails(doc))
	return doc, nil
}

func (s *documentService) upload(ctx context.Context, userID string, r io.Reader, size int64, displayName string, folderID *string) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	displayName = cleanDisplayName(displayName)
	if displayName == "" {
		return nil, invalid("filename is required")
	}
	if size <= 0 {
		return nil, invalid("file is empty")
	}
	if size > s.opts.MaxFileSize {
		return nil, invalid("file exceeds maximum size of %s", units.BytesSize(float64(s.opts.MaxFileSize)))
	}
	if _, ok := model.DocumentTypeFromName(displayName); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, displayName)
	}
	if err := s.quota.Admit(ctx, userID, size); err != nil {
		return nil, err
	}
	if err := s.checkFolder(ctx, userID, folderID); err != nil {
		return nil, err
	}

	// Read one byte past the ceiling so an understated size cannot bypass it.
	counter := &countingReader{r: io.LimitReader(r, s.opts.MaxFileSize+1)}
	token, err := s.store.Store(ctx, userID, displayName, counter, size)
	if err != nil {
		return nil, storageFailure("upload to storage", err)
	}
	if counter.n == 0 || counter.n > s.opts.MaxFileSize {
		s.removeOrphan(ctx, token)
		if counter.n == 0 {
			return nil, invalid("file is empty")
		}
		return nil, invalid("file exceeds maximum size of %s", units.BytesSize(float64(s.opts.MaxFileSize)))
	}

	return s.RegisterStored(ctx, userID, StoredFile{
		Token:       token,
		DisplayName: displayName,
		Size:        counter.n,
		FolderID:    folderID,
		Head:        counter.head,
	})
}

// RegisterStored persists metadata for bytes already in the FileStore.
// The stored file is removed when its content does not match its type or the record cannot be saved.
func (s *documentService) RegisterStored(ctx context.Context, userID string, f StoredFile) (*model.Document, error) {
	fileType, ok := model.DocumentTypeFromName(f.DisplayName)
	if !ok {
		s.removeOrphan(ctx, f.Token)
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.DisplayName)
	}
	if err := s.checkFolder(ctx, userID, f.FolderID); err != nil {
		s.removeOrphan(ctx, f.Token)
		return nil, err
	}
	if err := verifyContent(fileType, f.Head); err != nil {
		s.removeOrphan(ctx, f.Token)
		return nil, invalid("content is not a valid .%s file", fileType)
	}

	now := s.opts.Now().UTC()
	doc := &model.Document{
		ID:               uuid.NewString(),
		UserID:           userID,
		FolderID:         f.FolderID,
		Filename:         path.Base(f.Token),
		OriginalFilename: f.DisplayName,
		FilePath:         f.Token,
		FileType:         fileType,
		FileSize:         f.Size,
		ContentType:      fileType.ContentType(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		if delErr := s.store.Delete(ctx, f.Token); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("document_id", stored.ID).
		Str("token", f.Token).
		Int64("size", f.Size).
		Msg("document created")
	return stored, nil
}

func (s *documentService) BatchUpload(ctx context.Context, userID string, files []model.FileUpload, folderID *string) (*model.BatchUploadResult, error) {
	if len(files) == 0 {
		return nil, invalid("no files provided")
	}

	res := &model.BatchUploadResult{
		Successes: make([]model.Document, 0, len(files)),
		Failures:  make([]model.UploadFailure, 0),
	}
	for _, f := range files {
		doc, err := s.upload(ctx, userID, bytes.NewReader(f.Data), int64(len(f.Data)), f.Filename, folderID)
		if err != nil {
			s.logger.Warn().Str("user_id", userID).Str("filename", f.Filename).Err(err).Msg("batch upload item failed")
			res.Failures = append(res.Failures, model.UploadFailure{Filename: f.Filename, Reason: err.Error()})
			continue
		}
		s.opts.Metrics.ObserveUpload(metrics.ModeBatch, doc.FileSize)
		res.Successes = append(res.Successes, *doc)
	}

	s.audit.success(ctx, userID, model.OpBatchUpload, model.ResourceDocument, "", map[string]any{
		"total":     len(files),
		"succeeded": len(res.Successes),
		"failed":    len(res.Failures),
	})
	return res, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, userID string, q ListQuery) (*DocumentListResult, error) {
	if q.Size <= 0 {
		q.Size = defaultPageSize
	}
	if q.Size > maxPageSize {
		q.Size = maxPageSize
	}
	if q.Page < 0 {
		q.Page = 0
	}

	var f repository.DocumentFilter
	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		f.Keyword = &kw
	}
	if q.FileType != "" {
		t := model.DocumentType(strings.ToLower(q.FileType))
		if !t.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, q.FileType)
		}
		f.FileType = &t
	}
	f.FolderID = q.FolderID

	res, err := s.repo.List(ctx, userID, f,
		repository.NewDocumentSort(q.SortBy, q.Direction),
		repository.PageQuery{Limit: q.Size, Offset: q.Page * q.Size})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{
		Items:      res.Items,
		Total:      res.Total,
		Page:       q.Page,
		Size:       q.Size,
		TotalPages: int(math.Ceil(float64(res.Total) / float64(q.Size))),
	}, nil
}

// Get returns a document by ID, scoped to its owner.
func (s *documentService) Get(ctx context.Context, userID, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %w", ErrNotFound)
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Update(ctx context.Context, userID, id string, in UpdateInput) (*model.Document, error) {
	doc, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	before := *doc
	if in.Filename != nil {
		name := cleanDisplayName(*in.Filename)
		if name == "" {
			return nil, invalid("filename is required")
		}
		if t, ok := model.DocumentTypeFromName(name); !ok || t != doc.FileType {
			return nil, invalid("filename must keep the .%s extension", doc.FileType)
		}
		doc.OriginalFilename = name
	}
	switch {
	case in.MoveToRoot:
		doc.FolderID = nil
	case in.FolderID != nil:
		if err := s.checkFolder(ctx, userID, in.FolderID); err != nil {
			s.audit.failure(ctx, userID, model.OpMove, model.ResourceDocument, id, map[string]any{
				"before_folder_id": folderValue(before.FolderID),
				"after_folder_id":  *in.FolderID,
			}, err)
			return nil, err
		}
		doc.FolderID = in.FolderID
	}

	moved := !before.InFolder(doc.FolderID)
	op := model.OpUpdate
	details := map[string]any{}
	if doc.OriginalFilename != before.OriginalFilename {
		details["before_filename"] = before.OriginalFilename
		details["after_filename"] = doc.OriginalFilename
	}
	if moved {
		op = model.OpMove
		details["before_folder_id"] = folderValue(before.FolderID)
		details["after_folder_id"] = folderValue(doc.FolderID)
	}

	doc.UpdatedAt = s.opts.Now().UTC()
	updated, err := s.repo.Update(ctx, doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("document %w", ErrNotFound)
		}
		s.audit.failure(ctx, userID, op, model.ResourceDocument, id, details, err)
		return nil, err
	}

	s.audit.success(ctx, userID, op, model.ResourceDocument, id, details)
	return updated, nil
}

// Delete removes a document from storage, then deletes its record.
// A storage failure keeps the record so the file is never orphaned behind a missing row.
func (s *documentService) Delete(ctx context.Context, userID, id string) error {
	doc, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	snapshot := deleteSnapshot(doc)
	if err := s.store.Delete(ctx, doc.FilePath); err != nil {
		err = storageFailure("delete storage", err)
		s.audit.failure(ctx, userID, model.OpDelete, model.ResourceDocument, id, snapshot, err)
		return err
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// A concurrent delete removed the row between lookup and now.
			s.audit.success(ctx, userID, model.OpDelete, model.ResourceDocument, id, snapshot)
			return nil
		}
		s.logger.Error().Str("document_id", id).Str("token", doc.FilePath).Err(err).
			Msg("file removed but metadata delete failed")
		s.audit.failure(ctx, userID, model.OpDelete, model.ResourceDocument, id, snapshot, err)
		return fmt.Errorf("delete record: %w", err)
	}

	s.audit.success(ctx, userID, model.OpDelete, model.ResourceDocument, id, snapshot)
	return nil
}

func (s *documentService) BatchDelete(ctx context.Context, userID string, ids []string) (*model.BatchDeleteResult, error) {
	if len(ids) == 0 {
		return nil, invalid("no ids provided")
	}

	res := &model.BatchDeleteResult{
		SuccessIDs: make([]string, 0, len(ids)),
		Failures:   make([]model.DeleteFailure, 0),
	}
	for _, id := range ids {
		if err := s.Delete(ctx, userID, id); err != nil {
			res.Failures = append(res.Failures, model.DeleteFailure{ID: id, Reason: err.Error()})
			continue
		}
		res.SuccessIDs = append(res.SuccessIDs, id)
	}

	s.audit.success(ctx, userID, model.OpBatchDelete, model.ResourceDocument, "", map[string]any{
		"total":     len(ids),
		"succeeded": len(res.SuccessIDs),
		"failed":    len(res.Failures),
	})
	return res, nil
}

func (s *documentService) Download(ctx context.Context, userID, id string) (*model.Document, []byte, error) {
	doc, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := loadAll(ctx, s.store, doc.FilePath)
	if err != nil {
		return nil, nil, err
	}
	if err := verifyContent(doc.FileType, data); err != nil {
		s.logger.Warn().Str("document_id", id).Err(err).Msg("stored file failed sanity check")
		return nil, nil, err
	}
	s.audit.success(ctx, userID, model.OpDownload, model.ResourceDocument, id, map[string]any{
		"filename": doc.OriginalFilename,
		"size":     len(data),
	})
	return doc, data, nil
}

func (s *documentService) StorageInfo(ctx context.Context, userID string) (*model.StorageInfo, error) {
	return s.quota.Info(ctx, userID)
}

// checkFolder verifies that folderID, when set, exists and belongs to userID.
func (s *documentService) checkFolder(ctx context.Context, userID string, folderID *string) error {
	if folderID == nil {
		return nil
	}
	if _, err := s.folders.FindByID(ctx, userID, *folderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("folder %w", ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *documentService) removeOrphan(ctx context.Context, token string) {
	if err := s.store.Delete(ctx, token); err != nil {
		s.logger.Error().Str("token", token).Err(err).Msg("failed to remove orphaned file")
	}
}

// loadAll reads the object behind token, mapping storage errors onto the service taxonomy.
func loadAll(ctx context.Context, store storage.FileStore, token string) ([]byte, error) {
	rc, err := store.Load(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("stored file %w", ErrNotFound)
		}
		return nil, storageFailure("load file", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, storageFailure("read file", err)
	}
	return data, nil
}

func cleanDisplayName(name string) string {
	name = strings.TrimSpace(filepath.Base(filepath.ToSlash(strings.TrimSpace(name))))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func folderValue(id *string) any {
	if id == nil {
		return nil
	}
	return *id
}

func uploadDetails(doc *model.Document) map[string]any {
	return map[string]any{
		"filename":  doc.OriginalFilename,
		"file_type": string(doc.FileType),
		"size":      doc.FileSize,
		"folder_id": folderValue(doc.FolderID),
	}
}

func deleteSnapshot(doc *model.Document) map[string]any {
	return map[string]any{
		"filename":   doc.OriginalFilename,
		"file_type":  string(doc.FileType),
		"size":       units.HumanSize(float64(doc.FileSize)),
		"folder_id":  folderValue(doc.FolderID),
		"created_at": doc.CreatedAt,
		"summary": fmt.Sprintf("%s (%s, %s)", doc.OriginalFilename, strings.ToUpper(string(doc.FileType)),
			units.HumanSize(float64(doc.FileSize))),
	}
}

// countingReader counts what passes through and keeps the leading bytes for verifyContent.
type countingReader struct {
	r    io.Reader
	n    int64
	head []byte
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if room := contentHeadSize - len(c.head); room > 0 && n > 0 {
		c.head = append(c.head, p[:min(n, room)]...)
	}
	c.n += int64(n)
	return n, err
}
