package model

// Audit operation types.
const (
	OpUpload       = "UPLOAD"
	OpBatchUpload  = "BATCH_UPLOAD"
	OpChunkUpload  = "CHUNK_UPLOAD"
	OpUpdate       = "UPDATE"
	OpMove         = "MOVE"
	OpDelete       = "DELETE"
	OpBatchDelete  = "BATCH_DELETE"
	OpDownload     = "DOWNLOAD"
	OpExport       = "EXPORT"
	OpFolderCreate = "FOLDER_CREATE"
	OpFolderRename = "FOLDER_RENAME"
	OpFolderDelete = "FOLDER_DELETE"
)

// Audit resource types.
const (
	ResourceDocument = "DOCUMENT"
	ResourceFolder   = "FOLDER"
)

// Audit statuses.
const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
)

// AuditEvent is handed to the audit sink for every operation with audit significance.
type AuditEvent struct {
	UserID     string
	Operation  string
	ResourceID string
	Resource   string
	Details    map[string]any
	Status     string
	Error      string
}
