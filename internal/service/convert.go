package service

import (
	"context"
	"path"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"convertapi/internal/apperr"
	"convertapi/internal/convert"
	"convertapi/internal/model"
	tracing "convertapi/internal/otel"
	"convertapi/internal/storage"
)

// ConvertService is the Format Converter use case.
type ConvertService interface {
	// Supports reports whether format is a known target.
	Supports(format model.Format) bool

	// Convert reads the stored input at inputPath and writes the output under
	// a new "converted/<id>/<stem>.<ext>" key. The input is never modified.
	Convert(ctx context.Context, inputPath string, format model.Format) (*model.ConversionResult, error)

	Formats() []model.FormatInfo
}

type convertService struct {
	uploads  UploadService
	registry *convert.Registry
	observer ConversionObserver
}

// NewConvertService constructs a ConvertService. observer may be nil.
func NewConvertService(uploads UploadService, registry *convert.Registry, observer ConversionObserver) ConvertService {
	if observer == nil {
		observer = noopObserver{}
	}
	return &convertService{uploads: uploads, registry: registry, observer: observer}
}

func (s *convertService) Supports(format model.Format) bool {
	_, ok := s.registry.Lookup(format)
	return ok
}

func (s *convertService) Formats() []model.FormatInfo {
	return s.registry.Formats()
}

func (s *convertService) Convert(ctx context.Context, inputPath string, format model.Format) (res *model.ConversionResult, err error) {
	ctx, span := tracing.Tracer().Start(ctx, "convert.Convert")
	span.SetAttributes(
		attribute.String("convert.format", string(format)),
		attribute.String("convert.input", inputPath),
	)
	defer func() {
		outcome := "converted"
		switch {
		case err != nil:
			outcome = string(apperr.KindOf(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, apperr.Message(err))
		case res.Stub:
			outcome = "passthrough"
		}
		s.observer.ObserveConversion(string(format), outcome)
		span.End()
	}()

	data, err := s.uploads.Read(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	name := path.Base(inputPath)
	out, err := s.registry.Convert(ctx, format, name, data)
	if err != nil {
		return nil, err
	}

	h := out.Handler
	downloadName := convert.OutputName(name, h.Extension)
	key := storage.NewKey(storage.PrefixConverted, downloadName)

	f, err := s.uploads.Store(ctx, key, out.Data, h.MediaType)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Bool("convert.stub", h.Stub), attribute.Int("convert.output_bytes", len(out.Data)))
	return &model.ConversionResult{
		File:         *f,
		Format:       h.Format,
		MediaType:    h.MediaType,
		DownloadName: downloadName,
		Content:      out.Data,
		Stub:         h.Stub,
	}, nil
}
