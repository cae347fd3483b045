package handler

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/model"
	"docvault/internal/service"
)

type createFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

type renameFolderRequest struct {
	Name string `json:"name"`
}

// ListFolders serves GET /api/folders. Without parent_id it lists root folders.
func ListFolders(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parentID, ok := optionalID(c.Query("parent_id"))
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid parent_id format")
		}
		folders, err := svc.List(c.UserContext(), userID(c), parentID)
		if err != nil {
			return writeServiceError(c, err)
		}
		if folders == nil {
			folders = []model.Folder{}
		}
		return c.JSON(fiber.Map{"data": folders})
	}
}

// CreateFolder serves POST /api/folders.
func CreateFolder(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createFolderRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		var parentID *string
		if req.ParentID != nil {
			var ok bool
			if parentID, ok = optionalID(*req.ParentID); !ok {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid parent_id format")
			}
		}

		folder, err := svc.Create(c.UserContext(), userID(c), req.Name, parentID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(folder)
	}
}

// GetFolder serves GET /api/folders/:id.
func GetFolder(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		folder, err := svc.Get(c.UserContext(), userID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(folder)
	}
}

// RenameFolder serves PATCH /api/folders/:id.
func RenameFolder(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req renameFolderRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		folder, err := svc.Rename(c.UserContext(), userID(c), id, req.Name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(folder)
	}
}

// DeleteFolder serves DELETE /api/folders/:id. Only empty folders can be deleted.
func DeleteFolder(svc service.FolderService) fiber.Handler {
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

// FolderDocuments serves GET /api/folders/:id/documents.
func FolderDocuments(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		docs, err := svc.Documents(c.UserContext(), userID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": docs})
	}
}

// ExportFolder serves GET /api/folders/:id/export as a zip stream.
// The folder contents are resolved before any header is sent so an empty or unknown
// folder still gets a proper error response.
func ExportFolder(svc service.ArchiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		user := userID(c)
		docs, err := svc.FolderDocuments(c.UserContext(), user, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return streamArchive(c, "folder-"+id+".zip", func(ctx context.Context, w io.Writer) (*service.ExportResult, error) {
			return svc.WriteDocuments(ctx, user, docs, w)
		})
	}
}
