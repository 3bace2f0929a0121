package handler

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"convertapi/internal/model"
	"convertapi/internal/service"
)

const (
	// ConversionStatusHeader tells clients whether the body is a real conversion.
	ConversionStatusHeader = "X-Conversion-Status"
	// OutputPathHeader carries the storage key of the generated file.
	OutputPathHeader = "X-Output-Path"
)

// sendResult writes a converted file as an attachment.
func sendResult(c *fiber.Ctx, res *model.ConversionResult) error {
	status := "converted"
	if res.Stub {
		status = "passthrough"
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+strings.ReplaceAll(res.DownloadName, `"`, "")+`"`)
	c.Set(fiber.HeaderContentType, res.MediaType)
	c.Set(ConversionStatusHeader, status)
	c.Set(OutputPathHeader, res.File.Path)
	return c.Status(fiber.StatusOK).Send(res.Content)
}

// ListFormats godoc
// @Summary Supported conversion targets
// @Tags convert
// @Produce json
// @Success 200 {array} model.FormatInfo
// @Router /formats [get]
func ListFormats(conv service.ConvertService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(conv.Formats())
	}
}

// ConvertTo godoc
// @Summary Convert an uploaded file
// @Description Targets flagged as stubs return the input unchanged under the new
// @Description extension and answer X-Conversion-Status: passthrough.
// @Tags convert
// @Accept multipart/form-data
// @Produce octet-stream
// @Param format path string true "target format, e.g. docx"
// @Param file formData file true "input file"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /convert-to-{format} [post]
func ConvertTo(uploads service.UploadService, conv service.ConvertService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		format := model.Format(strings.ToLower(c.Params("format")))
		if !conv.Supports(format) {
			return writeError(c, fiber.StatusNotFound, "UNSUPPORTED_FORMAT", "unsupported target format: "+string(format))
		}

		fh, ok := requireFile(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		in, err := saveFormFile(c, uploads, fh)
		if err != nil {
			return writeAppError(c, err)
		}

		res, err := conv.Convert(c.UserContext(), in.Path, format)
		if err != nil {
			return writeAppError(c, err)
		}
		return sendResult(c, res)
	}
}

// MergePDFs godoc
// @Summary Merge PDFs in upload order
// @Tags pdf
// @Accept multipart/form-data
// @Produce application/pdf
// @Param files formData file true "PDF files, repeated"
// @Success 200 {file} binary
// @Failure 400 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /merge-pdfs [post]
func MergePDFs(uploads service.UploadService, pdfs service.PDFService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var files []*multipart.FileHeader
		if form, err := c.MultipartForm(); err == nil {
			files = form.File["files"]
		}
		if len(files) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILES_REQUIRED", "at least one file is required")
		}

		paths := make([]string, 0, len(files))
		for _, fh := range files {
			in, err := saveFormFile(c, uploads, fh)
			if err != nil {
				return writeAppError(c, err)
			}
			paths = append(paths, in.Path)
		}

		res, err := pdfs.Merge(c.UserContext(), paths)
		if err != nil {
			return writeAppError(c, err)
		}
		return sendResult(c, res)
	}
}

// SplitPDF godoc
// @Summary Split a PDF into single-page files
// @Tags pdf
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF file"
// @Success 200 {object} service.SplitResult
// @Failure 422 {object} errorPayload
// @Router /split-pdf [post]
func SplitPDF(uploads service.UploadService, pdfs service.PDFService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, ok := requireFile(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		in, err := saveFormFile(c, uploads, fh)
		if err != nil {
			return writeAppError(c, err)
		}

		res, err := pdfs.Split(c.UserContext(), in.Path)
		if err != nil {
			return writeAppError(c, err)
		}
		c.Set("X-Split-Pages", strconv.Itoa(res.Pages))
		return c.JSON(res)
	}
}

// EncryptPDF godoc
// @Summary Password-protect a PDF
// @Description An empty passphrase is accepted.
// @Tags pdf
// @Accept multipart/form-data
// @Produce application/pdf
// @Param file formData file true "PDF file"
// @Param passphrase formData string false "user and owner password"
// @Success 200 {file} binary
// @Failure 422 {object} errorPayload
// @Router /encrypt-pdf [post]
func EncryptPDF(uploads service.UploadService, pdfs service.PDFService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, ok := requireFile(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		passphrase := c.FormValue("passphrase")

		in, err := saveFormFile(c, uploads, fh)
		if err != nil {
			return writeAppError(c, err)
		}

		res, err := pdfs.Encrypt(c.UserContext(), in.Path, passphrase)
		if err != nil {
			return writeAppError(c, err)
		}
		return sendResult(c, res)
	}
}
