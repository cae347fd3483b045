package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// MaxFolderNameLength is the longest folder name accepted, in characters.
const MaxFolderNameLength = 255

// FolderService manages a user's folder tree.
type FolderService interface {
	Create(ctx context.Context, userID, name string, parentID *string) (*model.Folder, error)
	// List returns root folders when parentID is nil, direct children otherwise.
	List(ctx context.Context, userID string, parentID *string) ([]model.Folder, error)
	Get(ctx context.Context, userID, id string) (*model.Folder, error)
	// Rename changes the folder name and rewrites the path of every descendant.
	Rename(ctx context.Context, userID, id, name string) (*model.Folder, error)
	// Delete removes an empty folder. Contents are never deleted implicitly.
	Delete(ctx context.Context, userID, id string) error
	// Documents returns the documents directly inside the folder.
	Documents(ctx context.Context, userID, id string) ([]model.Document, error)
}

type folderService struct {
	repo   repository.FolderRepository
	docs   repository.DocumentRepository
	audit  auditor
	opts   Options
	logger zerolog.Logger
}

// NewFolderService constructs a FolderService.
func NewFolderService(repo repository.FolderRepository, docs repository.DocumentRepository, sink AuditSink, opts Options) FolderService {
	opts = opts.withDefaults()
	return &folderService{
		repo:   repo,
		docs:   docs,
		audit:  auditor{sink: sink},
		opts:   opts,
		logger: opts.Logger.With().Str("component", "folders").Logger(),
	}
}

func (s *folderService) Create(ctx context.Context, userID, name string, parentID *string) (*model.Folder, error) {
	name, err := cleanFolderName(name)
	if err != nil {
		return nil, err
	}

	parentPath := ""
	if parentID != nil {
		parent, err := s.find(ctx, userID, *parentID, "parent folder")
		if err != nil {
			return nil, err
		}
		parentPath = parent.Path
	}

	exists, err := s.repo.ExistsByName(ctx, userID, parentID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}

	now := s.opts.Now().UTC()
	folder, err := s.repo.Create(ctx, &model.Folder{
		ID:        uuid.NewString(),
		UserID:    userID,
		ParentID:  parentID,
		Name:      name,
		Path:      model.ChildPath(parentPath, name),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		return nil, err
	}

	s.audit.success(ctx, userID, model.OpFolderCreate, model.ResourceFolder, folder.ID, map[string]any{
		"name":      folder.Name,
		"path":      folder.Path,
		"parent_id": folderValue(parentID),
	})
	return folder, nil
}

func (s *folderService) List(ctx context.Context, userID string, parentID *string) ([]model.Folder, error) {
	if parentID != nil {
		if _, err := s.find(ctx, userID, *parentID, "parent folder"); err != nil {
			return nil, err
		}
	}
	folders, err := s.repo.ListByParent(ctx, userID, parentID)
	if err != nil {
		return nil, err
	}
	if folders == nil {
		folders = []model.Folder{}
	}
	return folders, nil
}

func (s *folderService) Get(ctx context.Context, userID, id string) (*model.Folder, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return s.find(ctx, userID, id, "folder")
}

func (s *folderService) Rename(ctx context.Context, userID, id, name string) (*model.Folder, error) {
	folder, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	name, err = cleanFolderName(name)
	if err != nil {
		return nil, err
	}
	if name == folder.Name {
		return folder, nil
	}

	details := map[string]any{"before_name": folder.Name, "after_name": name, "before_path": folder.Path}
	renamed, err := s.rename(ctx, userID, folder, name)
	if err != nil {
		s.audit.failure(ctx, userID, model.OpFolderRename, model.ResourceFolder, id, details, err)
		return nil, err
	}

	details["after_path"] = renamed.Path
	s.audit.success(ctx, userID, model.OpFolderRename, model.ResourceFolder, id, details)
	return renamed, nil
}

func (s *folderService) rename(ctx context.Context, userID string, folder *model.Folder, name string) (*model.Folder, error) {
	exists, err := s.repo.ExistsByName(ctx, userID, folder.ParentID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}

	oldPath := folder.Path
	newPath := model.ChildPath(parentPath(oldPath), name)

	updates, err := s.descendantPaths(ctx, userID, folder.ID, oldPath, newPath)
	if err != nil {
		return nil, err
	}
	updates = append([]repository.PathUpdate{{ID: folder.ID, Path: newPath}}, updates...)

	if err := s.repo.Rename(ctx, userID, folder.ID, name, updates); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		case errors.Is(err, sql.ErrNoRows):
			return nil, fmt.Errorf("folder %w", ErrNotFound)
		}
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("folder_id", folder.ID).
		Str("old_path", oldPath).
		Str("new_path", newPath).
		Int("descendants", len(updates)-1).
		Msg("folder renamed")

	renamed := *folder
	renamed.Name = name
	renamed.Path = newPath
	renamed.UpdatedAt = s.opts.Now().UTC()
	return &renamed, nil
}

// descendantPaths walks the subtree below rootID with an explicit stack and
// returns the rebased path of every descendant.
func (s *folderService) descendantPaths(ctx context.Context, userID, rootID, oldPrefix, newPrefix string) ([]repository.PathUpdate, error) {
	var updates []repository.PathUpdate
	visited := map[string]struct{}{rootID: {}}
	stack := []string{rootID}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		parent := id
		children, err := s.repo.ListByParent(ctx, userID, &parent)
		if err != nil {
			return nil, fmt.Errorf("list children of %s: %w", id, err)
		}
		for _, child := range children {
			if _, seen := visited[child.ID]; seen {
				continue
			}
			visited[child.ID] = struct{}{}
			updates = append(updates, repository.PathUpdate{
				ID:   child.ID,
				Path: model.RebasePath(child.Path, oldPrefix, newPrefix),
			})
			stack = append(stack, child.ID)
		}
	}
	return updates, nil
}

func (s *folderService) Delete(ctx context.Context, userID, id string) error {
	folder, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	details := map[string]any{"name": folder.Name, "path": folder.Path}
	if err := s.ensureEmpty(ctx, userID, id); err != nil {
		s.audit.failure(ctx, userID, model.OpFolderDelete, model.ResourceFolder, id, details, err)
		return err
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("folder %w", ErrNotFound)
		}
		s.audit.failure(ctx, userID, model.OpFolderDelete, model.ResourceFolder, id, details, err)
		return err
	}

	s.audit.success(ctx, userID, model.OpFolderDelete, model.ResourceFolder, id, details)
	return nil
}

func (s *folderService) ensureEmpty(ctx context.Context, userID, id string) error {
	docs, err := s.docs.CountByFolder(ctx, userID, id)
	if err != nil {
		return err
	}
	if docs > 0 {
		return fmt.Errorf("%w: contains %d document(s)", ErrNotEmpty, docs)
	}
	children, err := s.repo.CountChildren(ctx, userID, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("%w: contains %d folder(s)", ErrNotEmpty, children)
	}
	return nil
}

func (s *folderService) Documents(ctx context.Context, userID, id string) ([]model.Document, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	docs, err := s.docs.ListByFolder(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}

func (s *folderService) find(ctx context.Context, userID, id, what string) (*model.Folder, error) {
	f, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %w", what, ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

func cleanFolderName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", invalid("folder name is required")
	case strings.ContainsAny(name, `/\`):
		return "", invalid("folder name must not contain path separators")
	case name == "." || name == "..":
		return "", invalid("folder name %q is reserved", name)
	case utf8.RuneCountInString(name) > MaxFolderNameLength:
		return "", invalid("folder name exceeds %d characters", MaxFolderNameLength)
	}
	return name, nil
}

// parentPath returns the path of the folder containing p; "" for root folders.
func parentPath(p string) string {
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return ""
	}
	return p[:i]
}
