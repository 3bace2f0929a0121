// Package convert turns file content into other document formats.
//
// Each target format has one self-contained Handler. The Registry dispatches
// on the target format, decodes text input for handlers that need it, and
// classifies failures: undecodable input is a content error, writer failures
// are conversion errors.
package convert

import (
	"bytes"
	"context"
	"errors"
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	"convertapi/internal/apperr"
	"convertapi/internal/model"
)

// InputKind tells the registry how to prepare input for a handler.
type InputKind string

const (
	// InputText handlers receive the input decoded as UTF-8 text.
	InputText InputKind = "text"
	// InputBinary handlers receive the raw bytes.
	InputBinary InputKind = "binary"
)

// Input is what a handler converts.
type Input struct {
	// Name is the original file name, used for titles.
	Name string
	Data []byte
	// Text is set for InputText handlers.
	Text string
}

// Title derives a document title from the input name.
func (in Input) Title() string {
	if t := Stem(in.Name); t != "" {
		return t
	}
	return "Document"
}

// WriteFunc produces the target format.
type WriteFunc func(ctx context.Context, in Input) ([]byte, error)

// Handler converts into one target format.
type Handler struct {
	Format    model.Format
	Extension string
	MediaType string
	Input     InputKind
	// Stub marks handlers whose output is the input renamed, not converted.
	Stub  bool
	Write WriteFunc
}

// Info describes the handler for listings.
func (h Handler) Info() model.FormatInfo {
	return model.FormatInfo{
		Format:    h.Format,
		Extension: h.Extension,
		MediaType: h.MediaType,
		Input:     string(h.Input),
		Stub:      h.Stub,
	}
}

// Output is a converted payload.
type Output struct {
	Data    []byte
	Handler Handler
}

// Registry is a dispatch table keyed by target format.
type Registry struct {
	handlers map[model.Format]Handler
}

// NewRegistry builds a registry from handlers; later handlers replace earlier ones.
func NewRegistry(handlers ...Handler) *Registry {
	r := &Registry{handlers: make(map[model.Format]Handler, len(handlers))}
	for _, h := range handlers {
		r.handlers[h.Format] = h
	}
	return r
}

// Default returns a registry with every built-in format.
func Default() *Registry {
	return NewRegistry(
		TXT(),
		HTML(),
		DOCX(),
		XLSX(),
		EPUB(),
		PPTX(),
		PDF(),
		CSV(),
		JSON(),
		Passthrough("rtf", "application/rtf"),
		Passthrough("odt", "application/vnd.oasis.opendocument.text"),
		Passthrough("odp", "application/vnd.oasis.opendocument.presentation"),
		Passthrough("ods", "application/vnd.oasis.opendocument.spreadsheet"),
	)
}

// Lookup returns the handler for format.
func (r *Registry) Lookup(format model.Format) (Handler, bool) {
	h, ok := r.handlers[model.Format(strings.ToLower(string(format)))]
	return h, ok
}

// Formats lists the registered targets sorted by format.
func (r *Registry) Formats() []model.FormatInfo {
	out := make([]model.FormatInfo, 0, len(r.handlers))
	for _, h := range r.handlers {
		out = append(out, h.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Format < out[j].Format })
	return out
}

// Convert runs the handler for format over data.
func (r *Registry) Convert(ctx context.Context, format model.Format, name string, data []byte) (*Output, error) {
	const op = "convert.Convert"

	h, ok := r.Lookup(format)
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, op, "unsupported target format: "+string(format))
	}

	in := Input{Name: name, Data: data}
	if h.Input == InputText {
		text, err := DecodeText(data)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindContent, op, err)
		}
		in.Text = text
	}

	out, err := h.Write(ctx, in)
	if err != nil {
		var classified *apperr.Error
		if errors.As(err, &classified) {
			return nil, err
		}
		return nil, apperr.Wrapf(apperr.KindConversion, op, err, "%s writer failed", h.Format)
	}
	return &Output{Data: out, Handler: h}, nil
}

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	errNotText = errors.New("input is not valid UTF-8 text")
)

// DecodeText decodes data as UTF-8, dropping a leading byte order mark.
func DecodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", errNotText
	}
	return string(data), nil
}

// Stem returns the base name without its extension.
func Stem(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// OutputName is the download name for name converted to ext: "<stem>.<ext>".
func OutputName(name, ext string) string {
	stem := Stem(name)
	if stem == "" {
		stem = "converted"
	}
	return stem + "." + ext
}

// Lines splits text on \n, \r\n or \r.
func Lines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
