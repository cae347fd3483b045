package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/model"
	"docvault/internal/service"
)

type uploadedChunksResponse struct {
	FileIdentifier string `json:"file_identifier"`
	UploadedChunks []int  `json:"uploaded_chunks"`
}

// UploadChunk serves POST /api/uploads/chunk (multipart/form-data, field name: chunk).
// Every chunk carries the session metadata; the response reports progress and, on the
// completing chunk, the created document.
func UploadChunk(svc service.ChunkUploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("chunk")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "chunk is required")
		}

		index, err := strconv.Atoi(c.FormValue("chunk_index"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "invalid chunk_index")
		}
		total, err := strconv.Atoi(c.FormValue("total_chunks"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "invalid total_chunks")
		}
		totalSize, err := strconv.ParseInt(c.FormValue("total_size"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "invalid total_size")
		}
		folderID, ok := optionalID(c.FormValue("folder_id"))
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid folder_id format")
		}

		data, err := readPart(fh)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded chunk")
		}

		res, err := svc.AcceptChunk(c.UserContext(), userID(c), model.ChunkUpload{
			FileIdentifier: c.FormValue("file_identifier"),
			ChunkIndex:     index,
			TotalChunks:    total,
			TotalSize:      totalSize,
			Filename:       c.FormValue("filename"),
			FolderID:       folderID,
			Data:           data,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		if res.Completed && res.Document != nil {
			return c.Status(fiber.StatusCreated).JSON(res)
		}
		return c.JSON(res)
	}
}

// UploadedChunks serves GET /api/uploads/:identifier so clients can resume an interrupted upload.
func UploadedChunks(svc service.ChunkUploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := c.Params("identifier")
		indices, err := svc.UploadedChunks(c.UserContext(), userID(c), identifier)
		if err != nil {
			return writeServiceError(c, err)
		}
		if indices == nil {
			indices = []int{}
		}
		return c.JSON(uploadedChunksResponse{FileIdentifier: identifier, UploadedChunks: indices})
	}
}

// CancelUpload serves DELETE /api/uploads/:identifier.
func CancelUpload(svc service.ChunkUploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Cancel(c.UserContext(), userID(c), c.Params("identifier")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
