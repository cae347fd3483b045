// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/health": {
			"get": {
				"summary": "Readiness probe (database ping)",
				"tags": [
					"health"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"503": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				}
			}
		},
		"/healthz": {
			"get": {
				"summary": "Liveness probe",
				"tags": [
					"health"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/documents": {
			"get": {
				"summary": "List documents",
				"tags": [
					"documents"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"name": "keyword",
						"in": "query"
					},
					{
						"type": "string",
						"name": "file_type",
						"in": "query",
						"description": "pdf, doc, docx or txt"
					},
					{
						"type": "string",
						"name": "folder_id",
						"in": "query"
					},
					{
						"type": "string",
						"name": "sort",
						"in": "query",
						"description": "created_at, updated_at, original_filename or file_size"
					},
					{
						"type": "string",
						"name": "direction",
						"in": "query",
						"description": "asc or desc"
					},
					{
						"type": "integer",
						"name": "page",
						"in": "query",
						"description": "zero-based"
					},
					{
						"type": "integer",
						"name": "size",
						"in": "query",
						"description": "1-100"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/service.DocumentListResult"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"415": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				}
			},
			"post": {
				"summary": "Upload a document",
				"tags": [
					"documents"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "file",
						"name": "file",
						"in": "formData",
						"required": true
					},
					{
						"type": "string",
						"name": "folder_id",
						"in": "formData",
						"required": false
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/model.Document"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"413": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"415": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"503": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"consumes": [
					"multipart/form-data"
				]
			}
		},
		"/api/documents/batch": {
			"post": {
				"summary": "Upload several documents",
				"tags": [
					"documents"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "file",
						"name": "files",
						"in": "formData",
						"required": true
					},
					{
						"type": "string",
						"name": "folder_id",
						"in": "formData",
						"required": false
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.BatchUploadResult"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"consumes": [
					"multipart/form-data"
				]
			}
		},
		"/api/documents/batch-delete": {
			"post": {
				"summary": "Delete several documents",
				"tags": [
					"documents"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.idsRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.BatchDeleteResult"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				}
			}
		},
		"/api/documents/export": {
			"post": {
				"summary": "Export documents as a zip archive",
				"tags": [
					"documents"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.idsRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "zip stream"
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"produces": [
					"application/zip"
				]
			}
		},
		"/api/documents/{id}": {
			"get": {
				"summary": "Get a document",
				"tags": [
					"documents"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.Document"
						}
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				}
			},
			"patch": {
				"summary": "Rename or move a document",
				"tags": [
					"documents"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.updateDocumentRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.Document"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				}
			},
			"delete": {
				"summary": "Delete a document",
				"tags": [
					"documents"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"503": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				}
			}
		},
		"/api/documents/{id}/download": {
			"get": {
				"summary": "Download a document",
				"tags": [
					"documents"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "file content"
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"422": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"503": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"produces": [
					"application/octet-stream"
				]
			}
		},
		"/api/storage": {
			"get": {
				"summary": "Storage usage",
				"tags": [
					"storage"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.StorageInfo"
						}
					}
				}
			}
		},
		"/api/uploads/chunk": {
			"post": {
				"summary": "Upload one chunk of a resumable upload",
				"tags": [
					"uploads"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "file",
						"name": "chunk",
						"in": "formData",
						"required": true
					},
					{
						"type": "string",
						"name": "file_identifier",
						"in": "formData",
						"required": true
					},
					{
						"type": "integer",
						"name": "chunk_index",
						"in": "formData",
						"required": true
					},
					{
						"type": "integer",
						"name": "total_chunks",
						"in": "formData",
						"required": true
					},
					{
						"type": "integer",
						"name": "total_size",
						"in": "formData",
						"required": true
					},
					{
						"type": "string",
						"name": "filename",
						"in": "formData",
						"required": true
					},
					{
						"type": "string",
						"name": "folder_id",
						"in": "formData",
						"required": false
					}
				],
				"responses": {
					"200": {
						"description": "progress",
						"schema": {
							"$ref": "#/definitions/model.ChunkResult"
						}
					},
					"201": {
						"description": "completed",
						"schema": {
							"$ref": "#/definitions/model.ChunkResult"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"409": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"413": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"consumes": [
					"multipart/form-data"
				]
			}
		},
		"/api/uploads/{identifier}": {
			"get": {
				"summary": "Chunk indices already received",
				"tags": [
					"uploads"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"name": "identifier",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"delete": {
				"summary": "Cancel a resumable upload",
				"tags": [
					"uploads"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"name": "identifier",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					}
				}
			}
		},
		"/api/folders": {
			"get": {
				"summary": "List folders",
				"tags": [
					"folders"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"name": "parent_id",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"summary": "Create a folder",
				"tags": [
					"folders"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.createFolderRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/model.Folder"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"409": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				}
			}
		},
		"/api/folders/{id}": {
			"get": {
				"summary": "Get a folder",
				"tags": [
					"folders"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.Folder"
						}
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				}
			},
			"patch": {
				"summary": "Rename a folder",
				"tags": [
					"folders"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.renameFolderRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.Folder"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"409": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				}
			},
			"delete": {
				"summary": "Delete an empty folder",
				"tags": [
					"folders"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"409": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				}
			}
		},
		"/api/folders/{id}/documents": {
			"get": {
				"summary": "Documents in a folder",
				"tags": [
					"folders"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/folders/{id}/export": {
			"get": {
				"summary": "Export a folder as a zip archive",
				"tags": [
					"folders"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Authenticated user id",
						"name": "X-User-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "zip stream"
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"produces": [
					"application/zip"
				]
			}
		}
	},
	"definitions": {
		"handler.errorPayload": {
			"type": "object",
			"properties": {
				"request_id": {
					"type": "string"
				},
				"error": {
					"type": "object",
					"properties": {
						"code": {
							"type": "string"
						},
						"message": {
							"type": "string"
						}
					}
				}
			}
		},
		"handler.idsRequest": {
			"type": "object",
			"properties": {
				"ids": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			}
		},
		"handler.updateDocumentRequest": {
			"type": "object",
			"properties": {
				"filename": {
					"type": "string"
				},
				"folder_id": {
					"type": "string"
				},
				"move_to_root": {
					"type": "boolean"
				}
			}
		},
		"handler.createFolderRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"parent_id": {
					"type": "string"
				}
			}
		},
		"handler.renameFolderRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				}
			}
		},
		"model.Document": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"user_id": {
					"type": "string"
				},
				"folder_id": {
					"type": "string"
				},
				"filename": {
					"type": "string"
				},
				"original_filename": {
					"type": "string"
				},
				"file_path": {
					"type": "string"
				},
				"file_type": {
					"type": "string"
				},
				"file_size": {
					"type": "integer"
				},
				"content_type": {
					"type": "string"
				},
				"created_at": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"model.Folder": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"user_id": {
					"type": "string"
				},
				"parent_id": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"path": {
					"type": "string"
				},
				"created_at": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"model.StorageInfo": {
			"type": "object",
			"properties": {
				"used_space": {
					"type": "integer"
				},
				"total_quota": {
					"type": "integer"
				},
				"remaining_space": {
					"type": "integer"
				},
				"usage_percent": {
					"type": "number"
				},
				"near_limit": {
					"type": "boolean"
				},
				"used_human": {
					"type": "string"
				},
				"quota_human": {
					"type": "string"
				}
			}
		},
		"model.ChunkResult": {
			"type": "object",
			"properties": {
				"completed": {
					"type": "boolean"
				},
				"uploaded_chunks": {
					"type": "array",
					"items": {
						"type": "integer"
					}
				},
				"progress": {
					"type": "number"
				},
				"document": {
					"$ref": "#/definitions/model.Document"
				}
			}
		},
		"model.BatchUploadResult": {
			"type": "object",
			"properties": {
				"successes": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/model.Document"
					}
				},
				"failures": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"filename": {
								"type": "string"
							},
							"reason": {
								"type": "string"
							}
						}
					}
				}
			}
		},
		"model.BatchDeleteResult": {
			"type": "object",
			"properties": {
				"success_ids": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"failures": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"id": {
								"type": "string"
							},
							"reason": {
								"type": "string"
							}
						}
					}
				}
			}
		},
		"service.DocumentListResult": {
			"type": "object",
			"properties": {
				"data": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/model.Document"
					}
				},
				"total": {
					"type": "integer"
				},
				"page": {
					"type": "integer"
				},
				"size": {
					"type": "integer"
				},
				"total_pages": {
					"type": "integer"
				}
			}
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "DocVault API",
	Description:      "Per-user document storage with folders, resumable uploads and archive export.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
