package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docvault/internal/http/middleware"
	"docvault/internal/model"
	"docvault/internal/service"
	serviceMocks "docvault/internal/service/mocks"
)

const testUser = "user-1"

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.Identity())
	return app
}

func newRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(middleware.UserIDHeader, testUser)
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := newRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, target string, fields map[string]string, fileField string, files map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	for name, content := range files {
		part, err := writer.CreateFormFile(fileField, name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := newRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var res errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res.Error.Code
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", errorCode(t, resp))
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation exposes message", fmt.Errorf("%w: filename is required", service.ErrValidationFailed), 400, "VALIDATION_FAILED", "validation failed: filename is required"},
		{"quota", service.ErrQuotaExceeded, 413, "QUOTA_EXCEEDED", service.ErrQuotaExceeded.Error()},
		{"unsupported", service.ErrUnsupportedFormat, 415, "UNSUPPORTED_FORMAT", service.ErrUnsupportedFormat.Error()},
		{"not found", service.ErrNotFound, 404, "NOT_FOUND", service.ErrNotFound.Error()},
		{"not empty", service.ErrNotEmpty, 409, "NOT_EMPTY", service.ErrNotEmpty.Error()},
		{"duplicate", service.ErrDuplicateName, 409, "DUPLICATE_NAME", service.ErrDuplicateName.Error()},
		{"missing chunk", service.ErrMissingChunk, 409, "MISSING_CHUNK", service.ErrMissingChunk.Error()},
		{"empty folder", service.ErrEmptyFolder, 400, "EMPTY_FOLDER", "folder has no documents"},
		{"corrupted hides detail", fmt.Errorf("%w: bad header", service.ErrCorrupted), 422, "CORRUPTED", "stored file is corrupted"},
		{"storage hides detail", fmt.Errorf("%w: open /data/x: permission denied", service.ErrStorageIO), 503, "STORAGE_IO", "storage temporarily unavailable, retry later"},
		{"unknown", errors.New("pq: connection refused"), 500, "INTERNAL_ERROR", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return writeServiceError(c, tt.err) })

			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			var res errorPayload
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
			assert.Equal(t, tt.wantCode, res.Error.Code)
			assert.Equal(t, tt.wantMsg, res.Error.Message)
		})
	}
}

func TestListDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newTestApp()
	app.Get("/documents", ListDocuments(mockSvc))

	t.Run("success", func(t *testing.T) {
		folderID := uuid.New().String()
		expected := &service.DocumentListResult{
			Items: []model.Document{{ID: uuid.New().String(), OriginalFilename: "test.pdf"}},
			Total: 1,
			Page:  1,
			Size:  5,
		}
		mockSvc.On("List", mock.Anything, testUser, service.ListQuery{
			Keyword:   "report",
			FileType:  "pdf",
			FolderID:  &folderID,
			SortBy:    "file_size",
			Direction: "asc",
			Page:      1,
			Size:      5,
		}).Return(expected, nil).Once()

		target := "/documents?keyword=report&file_type=pdf&sort=file_size&direction=asc&page=1&size=5&folder_id=" + folderID
		resp, _ := app.Test(newRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result service.DocumentListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid page", func(t *testing.T) {
		resp, _ := app.Test(newRequest(http.MethodGet, "/documents?page=abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_PAGE", errorCode(t, resp))
	})

	t.Run("invalid folder id", func(t *testing.T) {
		resp, _ := app.Test(newRequest(http.MethodGet, "/documents?folder_id=nope", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", errorCode(t, resp))
	})

	t.Run("unsupported file type", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, testUser, mock.Anything).Return(nil, service.ErrUnsupportedFormat).Once()

		resp, _ := app.Test(newRequest(http.MethodGet, "/documents?file_type=exe", nil))

		assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing identity", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents", nil))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, resp))
	})
}

func TestUploadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newTestApp()
	app.Post("/documents", UploadDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		folderID := uuid.New().String()
		expected := &model.Document{ID: uuid.New().String(), OriginalFilename: "test.txt"}
		mockSvc.On("Upload", mock.Anything, testUser, mock.Anything, int64(11), "test.txt", &folderID).Return(expected, nil).Once()

		req := multipartRequest(t, "/documents", map[string]string{"folder_id": folderID}, "file", map[string]string{"test.txt": "hello world"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, expected.ID, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		resp, _ := app.Test(newRequest(http.MethodPost, "/documents", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", errorCode(t, resp))
	})

	t.Run("quota exceeded", func(t *testing.T) {
		mockSvc.On("Upload", mock.Anything, testUser, mock.Anything, int64(5), "big.pdf", (*string)(nil)).
			Return(nil, fmt.Errorf("%w: 5 bytes requested", service.ErrQuotaExceeded)).Once()

		req := multipartRequest(t, "/documents", nil, "file", map[string]string{"big.pdf": "hello"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
		assert.Equal(t, "QUOTA_EXCEEDED", errorCode(t, resp))
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Upload", mock.Anything, testUser, mock.Anything, int64(5), "test.txt", (*string)(nil)).Return(nil, errors.New("upload failed")).Once()

		req := multipartRequest(t, "/documents", nil, "file", map[string]string{"test.txt": "hello"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestBatchUploadDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newTestApp()
	app.Post("/documents/batch", BatchUploadDocuments(mockSvc))

	t.Run("partial failure is still 200", func(t *testing.T) {
		result := &model.BatchUploadResult{
			Successes: []model.Document{{ID: "d1", OriginalFilename: "a.txt"}},
			Failures:  []model.UploadFailure{{Filename: "b.exe", Reason: "unsupported file format"}},
		}
		mockSvc.On("BatchUpload", mock.Anything, testUser, mock.MatchedBy(func(files []model.FileUpload) bool {
			return len(files) == 2
		}), (*string)(nil)).Return(result, nil).Once()

		req := multipartRequest(t, "/documents/batch", nil, "files", map[string]string{"a.txt": "a", "b.exe": "b"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var got model.BatchUploadResult
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Len(t, got.Successes, 1)
		assert.Len(t, got.Failures, 1)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no files", func(t *testing.T) {
		req := multipartRequest(t, "/documents/batch", map[string]string{"x": "y"}, "files", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", errorCode(t, resp))
	})
}

func TestGetDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newTestApp()
	app.Get("/documents/:id", GetDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, testUser, id).Return(&model.Document{ID: id}, nil).Once()

		resp, _ := app.Test(newRequest(http.MethodGet, "/documents/"+id, nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, id, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, testUser, id).Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(newRequest(http.MethodGet, "/documents/"+id, nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(newRequest(http.MethodGet, "/documents/invalid-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", errorCode(t, resp))
	})
}

func TestUpdateDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newTestApp()
	app.Patch("/documents/:id", UpdateDocument(mockSvc))

	t.Run("rename", func(t *testing.T) {
		id := uuid.New().String()
		name := "renamed.pdf"
		mockSvc.On("Update", mock.Anything, testUser, id, service.UpdateInput{Filename: &name}).
			Return(&model.Document{ID: id, OriginalFilename: name}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/documents/"+id, `{"filename":"renamed.pdf"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("move to root", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Update", mock.Anything, testUser, id, service.UpdateInput{MoveToRoot: true}).
			Return(&model.Document{ID: id}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/documents/"+id, `{"move_to_root":true}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid folder id", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/documents/"+uuid.New().String(), `{"folder_id":"x"}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", errorCode(t, resp))
	})

	t.Run("type change rejected", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Update", mock.Anything, testUser, id, mock.Anything).
			Return(nil, fmt.Errorf("%w: file type cannot change", service.ErrValidationFailed)).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/documents/"+id, `{"filename":"a.txt"}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, resp))
		mockSvc.AssertExpectations(t)
	})
}

func TestDeleteDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newTestApp()
	app.Delete("/documents/:id", DeleteDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, testUser, id).Return(nil).Once()

		resp, _ := app.Test(newRequest(http.MethodDelete, "/documents/"+id, nil))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("storage failure", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, testUser, id).Return(fmt.Errorf("%w: delete file", service.ErrStorageIO)).Once()

		resp, _ := app.Test(newRequest(http.MethodDelete, "/documents/"+id, nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "STORAGE_IO", errorCode(t, resp))
		mockSvc.AssertExpectations(t)
	})
}

func TestBatchDeleteDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newTestApp()
	app.Post("/documents/batch-delete", BatchDeleteDocuments(mockSvc))

	t.Run("success", func(t *testing.T) {
		res := &model.BatchDeleteResult{
			SuccessIDs: []string{"a"},
			Failures:   []model.DeleteFailure{{ID: "b", Reason: "not found"}},
		}
		mockSvc.On("BatchDelete", mock.Anything, testUser, []string{"a", "b"}).Return(res, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/documents/batch-delete", `{"ids":["a","b"]}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var got model.BatchDeleteResult
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, []string{"a"}, got.SuccessIDs)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid body", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/documents/batch-delete", `{"ids":`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", errorCode(t, resp))
	})
}

func TestDownloadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newTestApp()
	app.Get("/documents/:id/download", DownloadDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		doc := &model.Document{ID: id, OriginalFilename: "résumé.pdf", FileType: model.TypePDF}
		mockSvc.On("Download", mock.Anything, testUser, id).Return(doc, []byte("%PDF-1.7"), nil).Once()

		resp, _ := app.Test(newRequest(http.MethodGet, "/documents/"+id+"/download", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="r_sum_.pdf"`)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "filename*=UTF-8''r%C3%A9sum%C3%A9.pdf")
		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "%PDF-1.7", string(data))
		mockSvc.AssertExpectations(t)
	})

	t.Run("corrupted", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Download", mock.Anything, testUser, id).Return(nil, nil, service.ErrCorrupted).Once()

		resp, _ := app.Test(newRequest(http.MethodGet, "/documents/"+id+"/download", nil))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "CORRUPTED", errorCode(t, resp))
	})
}

func TestGetStorageInfo(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newTestApp()
	app.Get("/storage", GetStorageInfo(mockSvc))

	info := &model.StorageInfo{UsedSpace: 10, TotalQuota: 100, Remaining: 90, UsagePercent: 10}
	mockSvc.On("StorageInfo", mock.Anything, testUser).Return(info, nil).Once()

	resp, _ := app.Test(newRequest(http.MethodGet, "/storage", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got model.StorageInfo
	json.NewDecoder(resp.Body).Decode(&got)
	assert.Equal(t, int64(90), got.Remaining)
	mockSvc.AssertExpectations(t)
}

func TestExportDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockArchiveService)
	app := newTestApp()
	app.Post("/documents/export", ExportDocuments(mockSvc))

	t.Run("streams archive", func(t *testing.T) {
		mockSvc.On("Compress", mock.Anything, testUser, []string{"a", "b"}, mock.Anything).
			Return(func(_ context.Context, _ string, _ []string, w io.Writer) *service.ExportResult {
				io.WriteString(w, "PK-archive")
				return &service.ExportResult{Entries: 2}
			}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/documents/export", `{"ids":["a","b"]}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "documents.zip")
		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "PK-archive", string(data))
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty ids", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/documents/export", `{"ids":[]}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, resp))
	})
}

func TestUploadChunk(t *testing.T) {
	mockSvc := new(serviceMocks.MockChunkUploadService)
	app := newTestApp()
	app.Post("/uploads/chunk", UploadChunk(mockSvc))

	fields := func(index string) map[string]string {
		return map[string]string{
			"file_identifier": "abc",
			"chunk_index":     index,
			"total_chunks":    "2",
			"total_size":      "6",
			"filename":        "notes.txt",
		}
	}

	t.Run("partial progress", func(t *testing.T) {
		mockSvc.On("AcceptChunk", mock.Anything, testUser, model.ChunkUpload{
			FileIdentifier: "abc",
			ChunkIndex:     0,
			TotalChunks:    2,
			TotalSize:      6,
			Filename:       "notes.txt",
			Data:           []byte("abc"),
		}).Return(&model.ChunkResult{UploadedChunks: []int{0}, Progress: 50}, nil).Once()

		resp, _ := app.Test(multipartRequest(t, "/uploads/chunk", fields("0"), "chunk", map[string]string{"blob": "abc"}))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var got model.ChunkResult
		json.NewDecoder(resp.Body).Decode(&got)
		assert.False(t, got.Completed)
		assert.Equal(t, 50.0, got.Progress)
		mockSvc.AssertExpectations(t)
	})

	t.Run("completing chunk", func(t *testing.T) {
		doc := &model.Document{ID: "d1", OriginalFilename: "notes.txt"}
		mockSvc.On("AcceptChunk", mock.Anything, testUser, mock.MatchedBy(func(c model.ChunkUpload) bool {
			return c.ChunkIndex == 1
		})).Return(&model.ChunkResult{Completed: true, UploadedChunks: []int{0, 1}, Progress: 100, Document: doc}, nil).Once()

		resp, _ := app.Test(multipartRequest(t, "/uploads/chunk", fields("1"), "chunk", map[string]string{"blob": "def"}))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid index", func(t *testing.T) {
		resp, _ := app.Test(multipartRequest(t, "/uploads/chunk", fields("x"), "chunk", map[string]string{"blob": "abc"}))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, resp))
	})

	t.Run("missing chunk at merge", func(t *testing.T) {
		mockSvc.On("AcceptChunk", mock.Anything, testUser, mock.MatchedBy(func(c model.ChunkUpload) bool {
			return c.ChunkIndex == 0
		})).Return(nil, service.ErrMissingChunk).Once()

		resp, _ := app.Test(multipartRequest(t, "/uploads/chunk", fields("0"), "chunk", map[string]string{"blob": "abc"}))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "MISSING_CHUNK", errorCode(t, resp))
	})
}

func TestUploadedChunksAndCancel(t *testing.T) {
	mockSvc := new(serviceMocks.MockChunkUploadService)
	app := newTestApp()
	app.Get("/uploads/:identifier", UploadedChunks(mockSvc))
	app.Delete("/uploads/:identifier", CancelUpload(mockSvc))

	t.Run("unknown session lists nothing", func(t *testing.T) {
		mockSvc.On("UploadedChunks", mock.Anything, testUser, "abc").Return(nil, nil).Once()

		resp, _ := app.Test(newRequest(http.MethodGet, "/uploads/abc", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var got uploadedChunksResponse
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, "abc", got.FileIdentifier)
		assert.Equal(t, []int{}, got.UploadedChunks)
	})

	t.Run("cancel", func(t *testing.T) {
		mockSvc.On("Cancel", mock.Anything, testUser, "abc").Return(nil).Once()

		resp, _ := app.Test(newRequest(http.MethodDelete, "/uploads/abc", nil))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestFolderHandlers(t *testing.T) {
	mockSvc := new(serviceMocks.MockFolderService)
	app := newTestApp()
	app.Get("/folders", ListFolders(mockSvc))
	app.Post("/folders", CreateFolder(mockSvc))
	app.Patch("/folders/:id", RenameFolder(mockSvc))
	app.Delete("/folders/:id", DeleteFolder(mockSvc))
	app.Get("/folders/:id/documents", FolderDocuments(mockSvc))

	t.Run("list roots", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, testUser, (*string)(nil)).Return(nil, nil).Once()

		resp, _ := app.Test(newRequest(http.MethodGet, "/folders", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"data":[]}`, string(body))
	})

	t.Run("create under parent", func(t *testing.T) {
		parent := uuid.New().String()
		mockSvc.On("Create", mock.Anything, testUser, "reports", &parent).
			Return(&model.Folder{ID: "f1", Name: "reports", Path: "/a/reports"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/folders", `{"name":"reports","parent_id":"`+parent+`"}`))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("duplicate name", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, testUser, "dup", (*string)(nil)).Return(nil, service.ErrDuplicateName).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/folders", `{"name":"dup"}`))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "DUPLICATE_NAME", errorCode(t, resp))
	})

	t.Run("rename", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Rename", mock.Anything, testUser, id, "new").Return(&model.Folder{ID: id, Name: "new"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/folders/"+id, `{"name":"new"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("delete non-empty", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, testUser, id).Return(service.ErrNotEmpty).Once()

		resp, _ := app.Test(newRequest(http.MethodDelete, "/folders/"+id, nil))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "NOT_EMPTY", errorCode(t, resp))
	})

	t.Run("documents", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Documents", mock.Anything, testUser, id).Return([]model.Document{{ID: "d1"}}, nil).Once()

		resp, _ := app.Test(newRequest(http.MethodGet, "/folders/"+id+"/documents", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestExportFolder(t *testing.T) {
	mockSvc := new(serviceMocks.MockArchiveService)
	app := newTestApp()
	app.Get("/folders/:id/export", ExportFolder(mockSvc))

	t.Run("empty folder fails before streaming", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("FolderDocuments", mock.Anything, testUser, id).Return(nil, service.ErrEmptyFolder).Once()

		resp, _ := app.Test(newRequest(http.MethodGet, "/folders/"+id+"/export", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "EMPTY_FOLDER", errorCode(t, resp))
		mockSvc.AssertNotCalled(t, "WriteDocuments", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("streams resolved documents", func(t *testing.T) {
		id := uuid.New().String()
		docs := []model.Document{{ID: "d1", OriginalFilename: "a.txt"}}
		mockSvc.On("FolderDocuments", mock.Anything, testUser, id).Return(docs, nil).Once()
		mockSvc.On("WriteDocuments", mock.Anything, testUser, docs, mock.Anything).
			Return(func(_ context.Context, _ string, _ []model.Document, w io.Writer) *service.ExportResult {
				io.WriteString(w, "PK")
				return &service.ExportResult{Entries: 1}
			}, nil).Once()

		resp, _ := app.Test(newRequest(http.MethodGet, "/folders/"+id+"/export", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "PK", string(data))
		mockSvc.AssertExpectations(t)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	RegisterRoutes(app, nil, Services{
		Documents: new(serviceMocks.MockDocumentService),
		Chunks:    new(serviceMocks.MockChunkUploadService),
		Folders:   new(serviceMocks.MockFolderService),
		Archives:  new(serviceMocks.MockArchiveService),
	})

	t.Run("not found route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", errorCode(t, resp))
	})

	t.Run("api requires identity", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/storage", nil))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, resp))
	})
}
