package model

import (
	"path/filepath"
	"strings"
	"time"
)

// DocumentType is the closed set of file formats the service accepts.
type DocumentType string

const (
	TypePDF  DocumentType = "pdf"
	TypeDOC  DocumentType = "doc"
	TypeDOCX DocumentType = "docx"
	TypeTXT  DocumentType = "txt"
)

var contentTypes = map[DocumentType]string{
	TypePDF:  "application/pdf",
	TypeDOC:  "application/msword",
	TypeDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	TypeTXT:  "text/plain",
}

// DocumentTypeFromName returns the document type implied by filename's extension.
// The match is case-insensitive; ok is false for unsupported or missing extensions.
func DocumentTypeFromName(filename string) (DocumentType, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	t := DocumentType(ext)
	_, ok := contentTypes[t]
	return t, ok
}

// Valid reports whether t is one of the supported document types.
func (t DocumentType) Valid() bool {
	_, ok := contentTypes[t]
	return ok
}

// ContentType returns the MIME type stored alongside documents of type t.
func (t DocumentType) ContentType() string {
	if ct, ok := contentTypes[t]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Document represents a stored file in the system.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Document struct {
	ID               string       `json:"id"`
	UserID           string       `json:"user_id"`
	FolderID         *string      `json:"folder_id"`
	Filename         string       `json:"filename"`
	OriginalFilename string       `json:"original_filename"`
	FilePath         string       `json:"file_path"`
	FileType         DocumentType `json:"file_type"`
	FileSize         int64        `json:"file_size"`
	ContentType      string       `json:"content_type"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// InFolder reports whether the document is attached to folderID (nil means root).
func (d *Document) InFolder(folderID *string) bool {
	if d.FolderID == nil || folderID == nil {
		return d.FolderID == nil && folderID == nil
	}
	return *d.FolderID == *folderID
}
