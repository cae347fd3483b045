package service

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"docvault/internal/model"
)

const tracerName = "docvault/internal/service"

func startSpan(ctx context.Context, name, userID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("user.id", userID))
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// TraceDocuments wraps svc so every call runs in its own span.
func TraceDocuments(svc DocumentService) DocumentService { return tracedDocuments{svc} }

// TraceChunks wraps svc so every call runs in its own span.
func TraceChunks(svc ChunkUploadService) ChunkUploadService { return tracedChunks{svc} }

// TraceFolders wraps svc so every call runs in its own span.
func TraceFolders(svc FolderService) FolderService { return tracedFolders{svc} }

// TraceArchives wraps svc so every call runs in its own span.
func TraceArchives(svc ArchiveService) ArchiveService { return tracedArchives{svc} }

type tracedDocuments struct{ next DocumentService }

func (t tracedDocuments) Upload(ctx context.Context, userID string, r io.Reader, size int64, displayName string, folderID *string) (doc *model.Document, err error) {
	ctx, span := startSpan(ctx, "documents.Upload", userID, attribute.Int64("file.size", size))
	defer func() { endSpan(span, err) }()
	return t.next.Upload(ctx, userID, r, size, displayName, folderID)
}

func (t tracedDocuments) BatchUpload(ctx context.Context, userID string, files []model.FileUpload, folderID *string) (res *model.BatchUploadResult, err error) {
	ctx, span := startSpan(ctx, "documents.BatchUpload", userID, attribute.Int("batch.size", len(files)))
	defer func() { endSpan(span, err) }()
	return t.next.BatchUpload(ctx, userID, files, folderID)
}

func (t tracedDocuments) RegisterStored(ctx context.Context, userID string, f StoredFile) (doc *model.Document, err error) {
	ctx, span := startSpan(ctx, "documents.RegisterStored", userID, attribute.Int64("file.size", f.Size))
	defer func() { endSpan(span, err) }()
	return t.next.RegisterStored(ctx, userID, f)
}

func (t tracedDocuments) List(ctx context.Context, userID string, q ListQuery) (res *DocumentListResult, err error) {
	ctx, span := startSpan(ctx, "documents.List", userID, attribute.Int("page", q.Page))
	defer func() { endSpan(span, err) }()
	return t.next.List(ctx, userID, q)
}

func (t tracedDocuments) Get(ctx context.Context, userID, id string) (doc *model.Document, err error) {
	ctx, span := startSpan(ctx, "documents.Get", userID, attribute.String("document.id", id))
	defer func() { endSpan(span, err) }()
	return t.next.Get(ctx, userID, id)
}

func (t tracedDocuments) Update(ctx context.Context, userID, id string, in UpdateInput) (doc *model.Document, err error) {
	ctx, span := startSpan(ctx, "documents.Update", userID, attribute.String("document.id", id))
	defer func() { endSpan(span, err) }()
	return t.next.Update(ctx, userID, id, in)
}

func (t tracedDocuments) Delete(ctx context.Context, userID, id string) (err error) {
	ctx, span := startSpan(ctx, "documents.Delete", userID, attribute.String("document.id", id))
	defer func() { endSpan(span, err) }()
	return t.next.Delete(ctx, userID, id)
}

func (t tracedDocuments) BatchDelete(ctx context.Context, userID string, ids []string) (res *model.BatchDeleteResult, err error) {
	ctx, span := startSpan(ctx, "documents.BatchDelete", userID, attribute.Int("batch.size", len(ids)))
	defer func() { endSpan(span, err) }()
	return t.next.BatchDelete(ctx, userID, ids)
}

func (t tracedDocuments) Download(ctx context.Context, userID, id string) (doc *model.Document, data []byte, err error) {
	ctx, span := startSpan(ctx, "documents.Download", userID, attribute.String("document.id", id))
	defer func() { endSpan(span, err) }()
	return t.next.Download(ctx, userID, id)
}

func (t tracedDocuments) StorageInfo(ctx context.Context, userID string) (info *model.StorageInfo, err error) {
	ctx, span := startSpan(ctx, "documents.StorageInfo", userID)
	defer func() { endSpan(span, err) }()
	return t.next.StorageInfo(ctx, userID)
}

type tracedChunks struct{ next ChunkUploadService }

func (t tracedChunks) AcceptChunk(ctx context.Context, userID string, c model.ChunkUpload) (res *model.ChunkResult, err error) {
	ctx, span := startSpan(ctx, "chunks.AcceptChunk", userID,
		attribute.String("upload.identifier", c.FileIdentifier),
		attribute.Int("chunk.index", c.ChunkIndex),
		attribute.Int("chunk.total", c.TotalChunks))
	defer func() {
		if res != nil {
			span.SetAttributes(attribute.Bool("upload.completed", res.Completed))
		}
		endSpan(span, err)
	}()
	return t.next.AcceptChunk(ctx, userID, c)
}

func (t tracedChunks) UploadedChunks(ctx context.Context, userID, identifier string) (indices []int, err error) {
	ctx, span := startSpan(ctx, "chunks.UploadedChunks", userID, attribute.String("upload.identifier", identifier))
	defer func() { endSpan(span, err) }()
	return t.next.UploadedChunks(ctx, userID, identifier)
}

func (t tracedChunks) Cancel(ctx context.Context, userID, identifier string) (err error) {
	ctx, span := startSpan(ctx, "chunks.Cancel", userID, attribute.String("upload.identifier", identifier))
	defer func() { endSpan(span, err) }()
	return t.next.Cancel(ctx, userID, identifier)
}

type tracedFolders struct{ next FolderService }

func (t tracedFolders) Create(ctx context.Context, userID, name string, parentID *string) (f *model.Folder, err error) {
	ctx, span := startSpan(ctx, "folders.Create", userID)
	defer func() { endSpan(span, err) }()
	return t.next.Create(ctx, userID, name, parentID)
}

func (t tracedFolders) List(ctx context.Context, userID string, parentID *string) (folders []model.Folder, err error) {
	ctx, span := startSpan(ctx, "folders.List", userID)
	defer func() { endSpan(span, err) }()
	return t.next.List(ctx, userID, parentID)
}

func (t tracedFolders) Get(ctx context.Context, userID, id string) (f *model.Folder, err error) {
	ctx, span := startSpan(ctx, "folders.Get", userID, attribute.String("folder.id", id))
	defer func() { endSpan(span, err) }()
	return t.next.Get(ctx, userID, id)
}

func (t tracedFolders) Rename(ctx context.Context, userID, id, name string) (f *model.Folder, err error) {
	ctx, span := startSpan(ctx, "folders.Rename", userID, attribute.String("folder.id", id))
	defer func() { endSpan(span, err) }()
	return t.next.Rename(ctx, userID, id, name)
}

func (t tracedFolders) Delete(ctx context.Context, userID, id string) (err error) {
	ctx, span := startSpan(ctx, "folders.Delete", userID, attribute.String("folder.id", id))
	defer func() { endSpan(span, err) }()
	return t.next.Delete(ctx, userID, id)
}

func (t tracedFolders) Documents(ctx context.Context, userID, id string) (docs []model.Document, err error) {
	ctx, span := startSpan(ctx, "folders.Documents", userID, attribute.String("folder.id", id))
	defer func() { endSpan(span, err) }()
	return t.next.Documents(ctx, userID, id)
}

type tracedArchives struct{ next ArchiveService }

func (t tracedArchives) Compress(ctx context.Context, userID string, ids []string, w io.Writer) (res *ExportResult, err error) {
	ctx, span := startSpan(ctx, "archives.Compress", userID, attribute.Int("batch.size", len(ids)))
	defer func() { endSpan(span, err) }()
	return t.next.Compress(ctx, userID, ids, w)
}

func (t tracedArchives) CompressFolder(ctx context.Context, userID, folderID string, w io.Writer) (res *ExportResult, err error) {
	ctx, span := startSpan(ctx, "archives.CompressFolder", userID, attribute.String("folder.id", folderID))
	defer func() { endSpan(span, err) }()
	return t.next.CompressFolder(ctx, userID, folderID, w)
}

func (t tracedArchives) FolderDocuments(ctx context.Context, userID, folderID string) (docs []model.Document, err error) {
	ctx, span := startSpan(ctx, "archives.FolderDocuments", userID, attribute.String("folder.id", folderID))
	defer func() { endSpan(span, err) }()
	return t.next.FolderDocuments(ctx, userID, folderID)
}

func (t tracedArchives) WriteDocuments(ctx context.Context, userID string, docs []model.Document, w io.Writer) (res *ExportResult, err error) {
	ctx, span := startSpan(ctx, "archives.WriteDocuments", userID, attribute.Int("batch.size", len(docs)))
	defer func() { endSpan(span, err) }()
	return t.next.WriteDocuments(ctx, userID, docs, w)
}
