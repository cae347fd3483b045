package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"
)

const folderColumns = `id, user_id, parent_id, name, path, created_at, updated_at`

// FolderPostgres is a PostgreSQL implementation of repository.FolderRepository.
type FolderPostgres struct {
	db  *sql.DB
	now func() time.Time
}

// NewFolderPostgres creates a new FolderPostgres repository.
func NewFolderPostgres(db *sql.DB) *FolderPostgres {
	return &FolderPostgres{db: db, now: time.Now}
}

var _ repository.FolderRepository = (*FolderPostgres)(nil)

func scanFolder(row rowScanner) (*model.Folder, error) {
	var (
		f        model.Folder
		parentID sql.NullString
	)
	if err := row.Scan(&f.ID, &f.UserID, &parentID, &f.Name, &f.Path, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.ParentID = nullStringPtr(parentID)
	return &f, nil
}

// Create inserts a folder row. A sibling name collision surfaces as repository.ErrDuplicate.
func (r *FolderPostgres) Create(ctx context.Context, f *model.Folder) (*model.Folder, error) {
	const q = `
		INSERT INTO folders (` + folderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + folderColumns
	out, err := scanFolder(r.db.QueryRowContext(ctx, q,
		f.ID, f.UserID, ptrValue(f.ParentID), f.Name, f.Path, f.CreatedAt, f.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	return out, nil
}

// FindByID fetches a folder by id, scoped to its owner.
func (r *FolderPostgres) FindByID(ctx context.Context, userID, id string) (*model.Folder, error) {
	const q = `SELECT ` + folderColumns + ` FROM folders WHERE id = $1 AND user_id = $2`
	return scanFolder(r.db.QueryRowContext(ctx, q, id, userID))
}

// ExistsByName checks sibling-name uniqueness under parentID.
func (r *FolderPostgres) ExistsByName(ctx context.Context, userID string, parentID *string, name string) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT 1 FROM folders
		WHERE user_id = $1 AND parent_id IS NOT DISTINCT FROM $2 AND name = $3
	)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, userID, ptrValue(parentID), name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListByParent lists root folders when parentID is nil, direct children otherwise.
func (r *FolderPostgres) ListByParent(ctx context.Context, userID string, parentID *string) ([]model.Folder, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if parentID == nil {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+folderColumns+` FROM folders WHERE user_id = $1 AND parent_id IS NULL ORDER BY name ASC`, userID)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+folderColumns+` FROM folders WHERE user_id = $1 AND parent_id = $2 ORDER BY name ASC`, userID, *parentID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Folder, 0)
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// CountChildren counts direct child folders.
func (r *FolderPostgres) CountChildren(ctx context.Context, userID, id string) (int, error) {
	const q = `SELECT COUNT(*) FROM folders WHERE user_id = $1 AND parent_id = $2`
	var n int
	if err := r.db.QueryRowContext(ctx, q, userID, id).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Rename updates the folder name and all supplied paths inside one transaction.
func (r *FolderPostgres) Rename(ctx context.Context, userID, id, name string, paths []repository.PathUpdate) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := r.now().UTC()
	res, err := tx.ExecContext(ctx,
		`UPDATE folders SET name = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`,
		name, now, id, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	for _, p := range paths {
		if _, err = tx.ExecContext(ctx,
			`UPDATE folders SET path = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`,
			p.Path, now, p.ID, userID); err != nil {
			return fmt.Errorf("update path of %s: %w", p.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Delete removes a folder row. It returns sql.ErrNoRows if the row did not exist for the user.
func (r *FolderPostgres) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM folders WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
