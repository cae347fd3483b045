// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
package repository

import (
	"errors"
	"strings"
)

// ErrDuplicate is returned when an insert or update violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate key")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// SortQuery is a validated ORDER BY clause. Column is always one of the whitelisted column names.
type SortQuery struct {
	Column string
	Desc   bool
}

// DefaultDocumentSort is used whenever the requested sort field is not recognized.
var DefaultDocumentSort = SortQuery{Column: "created_at", Desc: true}

var documentSortColumns = map[string]string{
	"createdAt":        "created_at",
	"updatedAt":        "updated_at",
	"filename":         "filename",
	"originalFilename": "original_filename",
	"fileSize":         "file_size",
	"fileType":         "file_type",
}

// NewDocumentSort resolves an API sort field and direction. Unknown fields fall back to DefaultDocumentSort;
// direction is ascending only when it equals "asc" (case-insensitive).
func NewDocumentSort(field, direction string) SortQuery {
	col, ok := documentSortColumns[field]
	if !ok {
		return DefaultDocumentSort
	}
	return SortQuery{Column: col, Desc: !strings.EqualFold(direction, "asc")}
}
