package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"convertapi/internal/apperr"
	"convertapi/internal/model"
	"convertapi/internal/service"
	serviceMocks "convertapi/internal/service/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storedAt(path string) *model.StoredFile {
	return &model.StoredFile{ID: "id-" + path, Path: path}
}

func TestListFormats(t *testing.T) {
	conv := new(serviceMocks.MockConvertService)
	conv.On("Formats").Return([]model.FormatInfo{
		{Format: "pdf", Extension: ".pdf", MediaType: "application/pdf"},
		{Format: "heic", Extension: ".heic", Stub: true},
	})

	app := fiber.New()
	app.Get("/formats", ListFormats(conv))

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/formats", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out []model.FormatInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 2)
	assert.True(t, out[1].Stub)
}

func TestConvertTo(t *testing.T) {
	uploads := new(serviceMocks.MockUploadService)
	conv := new(serviceMocks.MockConvertService)
	app := fiber.New()
	app.Post("/convert-to-:format", ConvertTo(uploads, conv))

	t.Run("converted", func(t *testing.T) {
		body, ct := singleFile(t, "notes.txt", []byte("hello"))
		conv.On("Supports", model.Format("pdf")).Return(true).Once()
		uploads.On("Save", mock.Anything, mock.Anything).Return(storedAt("uploads/a/notes.txt"), nil).Once()
		conv.On("Convert", mock.Anything, "uploads/a/notes.txt", model.Format("pdf")).Return(&model.ConversionResult{
			File:         model.StoredFile{Path: "converted/b/notes.pdf"},
			Format:       "pdf",
			MediaType:    "application/pdf",
			DownloadName: "notes.pdf",
			Content:      []byte("%PDF-1.4"),
		}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/convert-to-pdf", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Equal(t, `attachment; filename="notes.pdf"`, resp.Header.Get("Content-Disposition"))
		assert.Equal(t, "converted", resp.Header.Get(ConversionStatusHeader))
		assert.Equal(t, "converted/b/notes.pdf", resp.Header.Get(OutputPathHeader))
		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "%PDF-1.4", string(data))
	})

	t.Run("passthrough stub", func(t *testing.T) {
		body, ct := singleFile(t, "photo.jpg", []byte{0xff, 0xd8})
		conv.On("Supports", model.Format("heic")).Return(true).Once()
		uploads.On("Save", mock.Anything, mock.Anything).Return(storedAt("uploads/c/photo.jpg"), nil).Once()
		conv.On("Convert", mock.Anything, "uploads/c/photo.jpg", model.Format("heic")).Return(&model.ConversionResult{
			File:         model.StoredFile{Path: "converted/d/photo.heic"},
			MediaType:    "image/heic",
			DownloadName: "photo.heic",
			Content:      []byte{0xff, 0xd8},
			Stub:         true,
		}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/convert-to-HEIC", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "passthrough", resp.Header.Get(ConversionStatusHeader))
	})

	t.Run("unsupported format", func(t *testing.T) {
		conv.On("Supports", model.Format("exe")).Return(false).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/convert-to-exe", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "UNSUPPORTED_FORMAT", decodeError(t, resp).Error.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		conv.On("Supports", model.Format("txt")).Return(true).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/convert-to-txt", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("content error", func(t *testing.T) {
		body, ct := singleFile(t, "bad.csv", []byte("\xff\xfe"))
		conv.On("Supports", model.Format("xlsx")).Return(true).Once()
		uploads.On("Save", mock.Anything, mock.Anything).Return(storedAt("uploads/e/bad.csv"), nil).Once()
		conv.On("Convert", mock.Anything, "uploads/e/bad.csv", model.Format("xlsx")).
			Return(nil, apperr.New(apperr.KindContent, "convert.csv", "input is not valid UTF-8")).Once()

		req := httptest.NewRequest(http.MethodPost, "/convert-to-xlsx", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "CONTENT_ERROR", res.Error.Code)
		assert.Equal(t, "input is not valid UTF-8", res.Error.Message)
	})
	uploads.AssertExpectations(t)
	conv.AssertExpectations(t)
}

func TestMergePDFs(t *testing.T) {
	uploads := new(serviceMocks.MockUploadService)
	pdfs := new(serviceMocks.MockPDFService)
	app := fiber.New()
	app.Post("/merge-pdfs", MergePDFs(uploads, pdfs))

	t.Run("keeps upload order", func(t *testing.T) {
		files := map[string][]byte{"b.pdf": []byte("%PDF-b"), "a.pdf": []byte("%PDF-a")}
		body, ct := multipartBody(t, "files", files, []string{"b.pdf", "a.pdf"}, nil)

		uploads.On("Save", mock.Anything, mock.MatchedBy(func(up service.Upload) bool { return up.Name == "b.pdf" })).
			Return(storedAt("uploads/1/b.pdf"), nil).Once()
		uploads.On("Save", mock.Anything, mock.MatchedBy(func(up service.Upload) bool { return up.Name == "a.pdf" })).
			Return(storedAt("uploads/2/a.pdf"), nil).Once()
		pdfs.On("Merge", mock.Anything, []string{"uploads/1/b.pdf", "uploads/2/a.pdf"}).Return(&model.ConversionResult{
			File:         model.StoredFile{Path: "converted/m/merged.pdf"},
			MediaType:    "application/pdf",
			DownloadName: "merged.pdf",
			Content:      []byte("%PDF-merged"),
		}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/merge-pdfs", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "merged.pdf")
		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "%PDF-merged", string(data))
	})

	t.Run("no files", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/merge-pdfs", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILES_REQUIRED", decodeError(t, resp).Error.Code)
	})
	uploads.AssertExpectations(t)
	pdfs.AssertExpectations(t)
}

func TestSplitPDF(t *testing.T) {
	uploads := new(serviceMocks.MockUploadService)
	pdfs := new(serviceMocks.MockPDFService)
	app := fiber.New()
	app.Post("/split-pdf", SplitPDF(uploads, pdfs))

	t.Run("success", func(t *testing.T) {
		body, ct := singleFile(t, "three.pdf", []byte("%PDF"))
		uploads.On("Save", mock.Anything, mock.Anything).Return(storedAt("uploads/s/three.pdf"), nil).Once()
		pdfs.On("Split", mock.Anything, "uploads/s/three.pdf").Return(&service.SplitResult{
			Message: "PDF split successfully",
			Pages:   3,
			Files: []model.StoredFile{
				{Name: "split_0.pdf"}, {Name: "split_1.pdf"}, {Name: "split_2.pdf"},
			},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/split-pdf", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "3", resp.Header.Get("X-Split-Pages"))

		var out service.SplitResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "PDF split successfully", out.Message)
		require.Len(t, out.Files, 3)
		assert.Equal(t, "split_2.pdf", out.Files[2].Name)
	})

	t.Run("not a pdf", func(t *testing.T) {
		body, ct := singleFile(t, "notes.txt", []byte("hello"))
		uploads.On("Save", mock.Anything, mock.Anything).Return(storedAt("uploads/t/notes.txt"), nil).Once()
		pdfs.On("Split", mock.Anything, "uploads/t/notes.txt").
			Return(nil, apperr.Wrap(apperr.KindContent, "pdf.Split", errors.New("no header version available"))).Once()

		req := httptest.NewRequest(http.MethodPost, "/split-pdf", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestEncryptPDF(t *testing.T) {
	uploads := new(serviceMocks.MockUploadService)
	pdfs := new(serviceMocks.MockPDFService)
	app := fiber.New()
	app.Post("/encrypt-pdf", EncryptPDF(uploads, pdfs))

	for _, pass := range []string{"s3cret", ""} {
		t.Run("passphrase="+pass, func(t *testing.T) {
			body, ct := multipartBody(t, "file", map[string][]byte{"doc.pdf": []byte("%PDF")}, []string{"doc.pdf"},
				map[string]string{"passphrase": pass})
			uploads.On("Save", mock.Anything, mock.Anything).Return(storedAt("uploads/e/doc.pdf"), nil).Once()
			pdfs.On("Encrypt", mock.Anything, "uploads/e/doc.pdf", pass).Return(&model.ConversionResult{
				File:         model.StoredFile{Path: "converted/x/doc_encrypted.pdf"},
				MediaType:    "application/pdf",
				DownloadName: "doc_encrypted.pdf",
				Content:      []byte("%PDF-enc"),
			}, nil).Once()

			req := httptest.NewRequest(http.MethodPost, "/encrypt-pdf", body)
			req.Header.Set("Content-Type", ct)
			resp, _ := app.Test(req)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.True(t, strings.HasSuffix(resp.Header.Get("Content-Disposition"), `"doc_encrypted.pdf"`))
		})
	}
	pdfs.AssertExpectations(t)
}
