package repository

import (
	"context"

	"docvault/internal/model"
)

// PathUpdate sets the cached path of one folder.
type PathUpdate struct {
	ID   string
	Path string
}

// FolderRepository defines data access for folders.
type FolderRepository interface {
	// Create inserts a folder. Returns ErrDuplicate if a sibling with the same name exists.
	Create(ctx context.Context, f *model.Folder) (*model.Folder, error)

	// FindByID returns the user's folder, or sql.ErrNoRows.
	FindByID(ctx context.Context, userID, id string) (*model.Folder, error)

	// ExistsByName reports whether parentID (nil for root) already has a child named name.
	ExistsByName(ctx context.Context, userID string, parentID *string, name string) (bool, error)

	// ListByParent returns the direct children of parentID (nil for root folders), ordered by name.
	ListByParent(ctx context.Context, userID string, parentID *string) ([]model.Folder, error)

	// CountChildren returns the number of direct child folders of id.
	CountChildren(ctx context.Context, userID, id string) (int, error)

	// Rename sets the folder's name and applies every path update in a single transaction.
	// Either all rows change or none do.
	Rename(ctx context.Context, userID, id, name string, paths []PathUpdate) error

	// Delete removes the folder row. Returns sql.ErrNoRows if nothing was deleted.
	Delete(ctx context.Context, userID, id string) error
}
