package handler

import (
	"bufio"
	"context"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"docvault/internal/model"
	"docvault/internal/service"
)

type updateDocumentRequest struct {
	Filename   *string `json:"filename"`
	FolderID   *string `json:"folder_id"`
	MoveToRoot bool    `json:"move_to_root"`
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

// ListDocuments serves GET /api/documents.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := intValue(c.Query("page"), 0)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page")
		}
		size, err := intValue(c.Query("size"), 0)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SIZE", "invalid size")
		}
		folderID, ok := optionalID(c.Query("folder_id"))
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid folder_id format")
		}

		res, err := svc.List(c.UserContext(), userID(c), service.ListQuery{
			Keyword:   c.Query("keyword"),
			FileType:  c.Query("file_type"),
			FolderID:  folderID,
			SortBy:    c.Query("sort"),
			Direction: c.Query("direction"),
			Page:      page,
			Size:      size,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadDocument serves POST /api/documents (multipart/form-data, field name: file).
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		folderID, ok := optionalID(c.FormValue("folder_id"))
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid folder_id format")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		doc, err := svc.Upload(c.UserContext(), userID(c), f, fh.Size, fh.Filename, folderID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// BatchUploadDocuments serves POST /api/documents/batch (multipart/form-data, field name: files).
// Per-file failures are reported in the body; the request itself succeeds.
func BatchUploadDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil || len(form.File["files"]) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "at least one file is required")
		}
		var folderValue string
		if v := form.Value["folder_id"]; len(v) > 0 {
			folderValue = v[0]
		}
		folderID, ok := optionalID(folderValue)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid folder_id format")
		}

		files := make([]model.FileUpload, 0, len(form.File["files"]))
		for _, fh := range form.File["files"] {
			data, err := readPart(fh)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			files = append(files, model.FileUpload{Filename: fh.Filename, Data: data})
		}

		res, err := svc.BatchUpload(c.UserContext(), userID(c), files, folderID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetDocument serves GET /api/documents/:id.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), userID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// UpdateDocument serves PATCH /api/documents/:id. It renames and/or moves the document.
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req updateDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		in := service.UpdateInput{Filename: req.Filename, MoveToRoot: req.MoveToRoot}
		if req.FolderID != nil {
			folderID, ok := optionalID(*req.FolderID)
			if !ok || folderID == nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid folder_id format")
			}
			in.FolderID = folderID
		}

		doc, err := svc.Update(c.UserContext(), userID(c), id, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument serves DELETE /api/documents/:id.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), userID(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// BatchDeleteDocuments serves POST /api/documents/batch-delete.
func BatchDeleteDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req idsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := svc.BatchDelete(c.UserContext(), userID(c), req.IDs)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// DownloadDocument serves GET /api/documents/:id/download.
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, data, err := svc.Download(c.UserContext(), userID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, doc.FileType.ContentType())
		c.Set(fiber.HeaderContentDisposition, attachment(doc.OriginalFilename))
		return c.Send(data)
	}
}

// ExportDocuments serves POST /api/documents/export as a zip stream.
func ExportDocuments(svc service.ArchiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req idsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if len(req.IDs) == 0 {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "ids must not be empty")
		}
		user := userID(c)
		return streamArchive(c, "documents.zip", func(ctx context.Context, w io.Writer) (*service.ExportResult, error) {
			return svc.Compress(ctx, user, req.IDs, w)
		})
	}
}

// GetStorageInfo serves GET /api/storage.
func GetStorageInfo(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info, err := svc.StorageInfo(c.UserContext(), userID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(info)
	}
}

// streamArchive commits the zip response headers and streams the archive body once the handler returns.
// Errors past this point can no longer change the status code and are only logged.
func streamArchive(c *fiber.Ctx, name string, write func(ctx context.Context, w io.Writer) (*service.ExportResult, error)) error {
	ctx := context.WithoutCancel(c.UserContext())
	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, attachment(name))
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		logger := zerolog.Ctx(ctx)
		res, err := write(ctx, w)
		if err != nil {
			logger.Error().Err(err).Str("archive", name).Msg("archive stream aborted")
			return
		}
		if err := w.Flush(); err != nil {
			logger.Warn().Err(err).Str("archive", name).Msg("archive flush failed")
			return
		}
		if res != nil {
			logger.Debug().Str("archive", name).Int("entries", res.Entries).Int("skipped", len(res.Skipped)).Msg("archive streamed")
		}
	})
	return nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
