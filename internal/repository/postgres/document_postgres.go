package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"docvault/internal/model"
	"docvault/internal/repository"
)

const documentColumns = `id, user_id, folder_id, filename, original_filename, file_path, file_type, file_size, content_type, created_at, updated_at`

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d        model.Document
		folderID sql.NullString
		fileType string
	)
	if err := row.Scan(
		&d.ID,
		&d.UserID,
		&folderID,
		&d.Filename,
		&d.OriginalFilename,
		&d.FilePath,
		&fileType,
		&d.FileSize,
		&d.ContentType,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	d.FolderID = nullStringPtr(folderID)
	d.FileType = model.DocumentType(fileType)
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.UserID,
		ptrValue(doc.FolderID),
		doc.Filename,
		doc.OriginalFilename,
		doc.FilePath,
		string(doc.FileType),
		doc.FileSize,
		doc.ContentType,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by id, scoped to its owner.
func (r *DocumentPostgres) FindByID(ctx context.Context, userID, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND user_id = $2`
	return scanDocument(r.db.QueryRowContext(ctx, q, id, userID))
}

// List returns the user's documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, userID string, f repository.DocumentFilter, s repository.SortQuery, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	where, args := documentWhere(userID, f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE `+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT %s FROM documents WHERE %s ORDER BY %s, id DESC LIMIT $%d OFFSET $%d`,
		documentColumns, where, orderBy(s), len(args)+1, len(args)+2)
	items, err := r.queryDocuments(ctx, q, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// ListByFolder returns the documents directly inside a folder.
func (r *DocumentPostgres) ListByFolder(ctx context.Context, userID, folderID string) ([]model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE user_id = $1 AND folder_id = $2 ORDER BY created_at DESC, id DESC`
	return r.queryDocuments(ctx, q, userID, folderID)
}

// CountByFolder counts the documents directly inside a folder.
func (r *DocumentPostgres) CountByFolder(ctx context.Context, userID, folderID string) (int, error) {
	const q = `SELECT COUNT(*) FROM documents WHERE user_id = $1 AND folder_id = $2`
	var n int
	if err := r.db.QueryRowContext(ctx, q, userID, folderID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Update writes the original filename and folder of a document.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		UPDATE documents SET original_filename = $1, folder_id = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.OriginalFilename,
		ptrValue(doc.FolderID),
		doc.UpdatedAt,
		doc.ID,
		doc.UserID,
	)
	return scanDocument(row)
}

// Delete removes a document row. It returns sql.ErrNoRows if the row did not exist for the user.
func (r *DocumentPostgres) Delete(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM documents WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, userID)
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

// SumSizeByUser aggregates the user's stored bytes. There is no cached counter.
func (r *DocumentPostgres) SumSizeByUser(ctx context.Context, userID string) (int64, error) {
	const q = `SELECT COALESCE(SUM(file_size), 0) FROM documents WHERE user_id = $1`
	var used int64
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&used); err != nil {
		return 0, err
	}
	return used, nil
}

func (r *DocumentPostgres) queryDocuments(ctx context.Context, q string, args ...any) ([]model.Document, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func documentWhere(userID string, f repository.DocumentFilter) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{userID}

	if f.Keyword != nil && *f.Keyword != "" {
		args = append(args, "%"+escapeLike(*f.Keyword)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(original_filename ILIKE $%d OR filename ILIKE $%d)", n, n))
	}
	if f.FileType != nil {
		args = append(args, string(*f.FileType))
		conds = append(conds, fmt.Sprintf("file_type = $%d", len(args)))
	}
	if f.FolderID != nil {
		args = append(args, *f.FolderID)
		conds = append(conds, fmt.Sprintf("folder_id = $%d", len(args)))
	}
	return strings.Join(conds, " AND "), args
}

// orderBy renders a SortQuery. The column has already been whitelisted by repository.NewDocumentSort;
// anything else falls back to the default ordering.
func orderBy(s repository.SortQuery) string {
	switch s.Column {
	case "created_at", "updated_at", "filename", "original_filename", "file_size", "file_type":
	default:
		s = repository.DefaultDocumentSort
	}
	if s.Desc {
		return s.Column + " DESC"
	}
	return s.Column + " ASC"
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
