package service

import (
	"context"
	"path"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"convertapi/internal/apperr"
	"convertapi/internal/convert"
	"convertapi/internal/model"
	tracing "convertapi/internal/otel"
	"convertapi/internal/pdfkit"
	"convertapi/internal/storage"
)

const (
	pdfMediaType    = "application/pdf"
	mergedName      = "merged.pdf"
	splitSuccessMsg = "PDF split successfully"
)

// SplitResult lists the single-page files of a split, in page order.
type SplitResult struct {
	Message string             `json:"message"`
	Pages   int                `json:"pages"`
	Files   []model.StoredFile `json:"files"`
}

// PDFService is the PDF toolkit use case over stored files.
type PDFService interface {
	// Merge concatenates the pages of inputPaths, in order, into one PDF.
	Merge(ctx context.Context, inputPaths []string) (*model.ConversionResult, error)

	// Split writes split_0.pdf .. split_{n-1}.pdf under a scope of its own,
	// so concurrent splits never overwrite each other.
	Split(ctx context.Context, inputPath string) (*SplitResult, error)

	// Encrypt protects the input with passphrase. An empty passphrase is allowed.
	Encrypt(ctx context.Context, inputPath, passphrase string) (*model.ConversionResult, error)
}

type pdfService struct {
	uploads UploadService
	kit     *pdfkit.Kit
}

// NewPDFService constructs a PDFService.
func NewPDFService(uploads UploadService, kit *pdfkit.Kit) PDFService {
	return &pdfService{uploads: uploads, kit: kit}
}

func (s *pdfService) Merge(ctx context.Context, inputPaths []string) (*model.ConversionResult, error) {
	ctx, span := tracing.Tracer().Start(ctx, "pdf.Merge")
	defer span.End()
	span.SetAttributes(attribute.Int("pdf.inputs", len(inputPaths)))

	if len(inputPaths) == 0 {
		return nil, apperr.New(apperr.KindValidation, "pdf.Merge", "at least one PDF is required")
	}

	docs := make([]pdfkit.Document, 0, len(inputPaths))
	for _, p := range inputPaths {
		data, err := s.uploads.Read(ctx, p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, pdfkit.Document{Name: path.Base(p), Data: data})
	}

	out, err := s.kit.Merge(ctx, docs)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, mergedName, out)
}

func (s *pdfService) Split(ctx context.Context, inputPath string) (*SplitResult, error) {
	ctx, span := tracing.Tracer().Start(ctx, "pdf.Split")
	defer span.End()

	data, err := s.uploads.Read(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	pages, err := s.kit.Split(ctx, data)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("pdf.pages", len(pages)))

	scope := uuid.NewString()
	files := make([]model.StoredFile, 0, len(pages))
	for i, page := range pages {
		key := storage.ScopedKey(storage.PrefixSplit, scope, pdfkit.SplitName(i))
		f, err := s.uploads.Store(ctx, key, page, pdfMediaType)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}

	return &SplitResult{Message: splitSuccessMsg, Pages: len(pages), Files: files}, nil
}

func (s *pdfService) Encrypt(ctx context.Context, inputPath, passphrase string) (*model.ConversionResult, error) {
	ctx, span := tracing.Tracer().Start(ctx, "pdf.Encrypt")
	defer span.End()

	data, err := s.uploads.Read(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	out, err := s.kit.Encrypt(ctx, data, passphrase)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, EncryptedName(path.Base(inputPath)), out)
}

func (s *pdfService) store(ctx context.Context, name string, data []byte) (*model.ConversionResult, error) {
	key := storage.NewKey(storage.PrefixConverted, name)
	f, err := s.uploads.Store(ctx, key, data, pdfMediaType)
	if err != nil {
		return nil, err
	}
	return &model.ConversionResult{
		File:         *f,
		Format:       "pdf",
		MediaType:    pdfMediaType,
		DownloadName: name,
		Content:      data,
	}, nil
}

// EncryptedName is the download name of an encrypted copy of name.
func EncryptedName(name string) string {
	stem := convert.Stem(name)
	if stem == "" {
		stem = "document"
	}
	return stem + "_encrypted.pdf"
}
