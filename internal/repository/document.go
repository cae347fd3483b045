package repository

import (
	"context"

	"docvault/internal/model"
)

// DocumentFilter narrows document listings. Nil fields are ignored.
type DocumentFilter struct {
	Keyword  *string
	FileType *model.DocumentType
	FolderID *string
}

// DocumentRepository defines data access for documents using SQL queries only.
// Every lookup is scoped by user id; a document owned by another user is indistinguishable from a missing one.
// No business logic here, strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns the user's document with the given id, or sql.ErrNoRows.
	FindByID(ctx context.Context, userID, id string) (*model.Document, error)

	// List returns a filtered, sorted page of the user's documents and the total match count.
	List(ctx context.Context, userID string, f DocumentFilter, s SortQuery, pq PageQuery) (*PageResult[model.Document], error)

	// ListByFolder returns every document directly inside folderID, newest first.
	ListByFolder(ctx context.Context, userID, folderID string) ([]model.Document, error)

	// CountByFolder returns the number of documents directly inside folderID.
	CountByFolder(ctx context.Context, userID, folderID string) (int, error)

	// Update persists the mutable fields (original filename, folder) and returns the stored row.
	// Returns sql.ErrNoRows if the document does not exist for the user.
	Update(ctx context.Context, doc *model.Document) (*model.Document, error)

	// Delete removes the user's document. Returns sql.ErrNoRows if no row was deleted.
	Delete(ctx context.Context, userID, id string) error

	// SumSizeByUser returns the total file size of the user's documents.
	SumSizeByUser(ctx context.Context, userID string) (int64, error)
}
