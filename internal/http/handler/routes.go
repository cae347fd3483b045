package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/http/middleware"
	"docvault/internal/service"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Documents service.DocumentService
	Chunks    service.ChunkUploadService
	Folders   service.FolderService
	Archives  service.ArchiveService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Everything under /api requires the X-User-ID identity header.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api", middleware.Identity())

	docs := api.Group("/documents")
	docs.Get("/", ListDocuments(svc.Documents))
	docs.Post("/", UploadDocument(svc.Documents))
	docs.Post("/batch", BatchUploadDocuments(svc.Documents))
	docs.Post("/batch-delete", BatchDeleteDocuments(svc.Documents))
	docs.Post("/export", ExportDocuments(svc.Archives))
	docs.Get("/:id", GetDocument(svc.Documents))
	docs.Patch("/:id", UpdateDocument(svc.Documents))
	docs.Delete("/:id", DeleteDocument(svc.Documents))
	docs.Get("/:id/download", DownloadDocument(svc.Documents))

	api.Get("/storage", GetStorageInfo(svc.Documents))

	uploads := api.Group("/uploads")
	uploads.Post("/chunk", UploadChunk(svc.Chunks))
	uploads.Get("/:identifier", UploadedChunks(svc.Chunks))
	uploads.Delete("/:identifier", CancelUpload(svc.Chunks))

	folders := api.Group("/folders")
	folders.Get("/", ListFolders(svc.Folders))
	folders.Post("/", CreateFolder(svc.Folders))
	folders.Get("/:id", GetFolder(svc.Folders))
	folders.Patch("/:id", RenameFolder(svc.Folders))
	folders.Delete("/:id", DeleteFolder(svc.Folders))
	folders.Get("/:id/documents", FolderDocuments(svc.Folders))
	folders.Get("/:id/export", ExportFolder(svc.Archives))
}

// HealthCheck reports healthy only when the database answers a ping.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200 while the process is serving.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
