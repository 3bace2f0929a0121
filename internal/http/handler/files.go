package handler

import (
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"convertapi/internal/apperr"
	"convertapi/internal/model"
	"convertapi/internal/service"
)

// uploadResponse is returned by POST /upload.
type uploadResponse struct {
	*model.StoredFile
	URL string `json:"url,omitempty"`
}

// saveFormFile persists one multipart part through the blob store.
func saveFormFile(c *fiber.Ctx, uploads service.UploadService, fh *multipart.FileHeader) (*model.StoredFile, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindIO, "handler.saveFormFile", err, "cannot open uploaded file")
	}
	defer f.Close()

	return uploads.Save(c.UserContext(), service.Upload{
		Reader:      f,
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	})
}

// requireFile reads the "file" part or writes a FILE_REQUIRED error.
func requireFile(c *fiber.Ctx) (*multipart.FileHeader, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, false
	}
	return fh, true
}

// UploadFile godoc
// @Summary Upload a file to the working store
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "file to store"
// @Success 201 {object} uploadResponse
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /upload [post]
func UploadFile(uploads service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, ok := requireFile(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		stored, err := saveFormFile(c, uploads, fh)
		if err != nil {
			return writeAppError(c, err)
		}

		url, err := uploads.DownloadURL(c.UserContext(), stored.Path)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(uploadResponse{StoredFile: stored, URL: url})
	}
}

// ListFiles godoc
// @Summary List cataloged uploads
// @Tags files
// @Produce json
// @Param limit query int false "page size" default(10)
// @Param offset query int false "offset" default(0)
// @Success 200 {object} service.FileListResult
// @Router /files [get]
func ListFiles(uploads service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := uploads.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(res)
	}
}

// GetFile godoc
// @Summary Get one cataloged upload
// @Tags files
// @Produce json
// @Param id path string true "file ID (UUID)"
// @Success 200 {object} model.StoredFile
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /files/{id} [get]
func GetFile(uploads service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		f, err := uploads.Get(c.UserContext(), id)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(f)
	}
}

// DeleteFile godoc
// @Summary Delete an upload
// @Description Removes the stored blob and its catalog entry.
// @Tags files
// @Param id path string true "file ID (UUID)"
// @Success 204
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /files/{id} [delete]
func DeleteFile(uploads service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := uploads.Delete(c.UserContext(), id); err != nil {
			return writeAppError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
