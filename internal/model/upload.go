package model

// ChunkResult describes the state of a chunk session after a chunk was accepted.
// Document is set only on the call that completed the session.
type ChunkResult struct {
	Completed      bool      `json:"completed"`
	UploadedChunks []int     `json:"uploaded_chunks"`
	Progress       float64   `json:"progress"`
	Document       *Document `json:"document,omitempty"`
}

// ChunkUpload is one chunk of a resumable upload together with the session metadata sent with every chunk.
type ChunkUpload struct {
	FileIdentifier string
	ChunkIndex     int
	TotalChunks    int
	TotalSize      int64
	Filename       string
	FolderID       *string
	Data           []byte
}

// FileUpload is a single file submitted to a batch upload.
type FileUpload struct {
	Filename string
	Data     []byte
}

// UploadFailure records why one file of a batch upload was rejected.
type UploadFailure struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// BatchUploadResult aggregates per-file outcomes of a batch upload.
type BatchUploadResult struct {
	Successes []Document      `json:"successes"`
	Failures  []UploadFailure `json:"failures"`
}

// DeleteFailure records why one id of a batch delete was not removed.
type DeleteFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BatchDeleteResult aggregates per-id outcomes of a batch delete.
type BatchDeleteResult struct {
	SuccessIDs []string        `json:"success_ids"`
	Failures   []DeleteFailure `json:"failures"`
}
