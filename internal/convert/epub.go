package convert

import (
	"bytes"
	"context"
	"html"
	"strings"

	epub "github.com/go-shiori/go-epub"
)

// EPUB writes a single-chapter e-book holding the text, one paragraph per line.
func EPUB() Handler {
	return Handler{
		Format:    "epub",
		Extension: "epub",
		MediaType: "application/epub+zip",
		Input:     InputText,
		Write:     writeEPUB,
	}
}

func writeEPUB(_ context.Context, in Input) ([]byte, error) {
	title := in.Title()
	book, err := epub.NewEpub(title)
	if err != nil {
		return nil, err
	}

	var body strings.Builder
	body.WriteString("<h1>" + html.EscapeString(title) + "</h1>\n")
	for _, line := range Lines(in.Text) {
		if line == "" {
			continue
		}
		body.WriteString("<p>" + html.EscapeString(line) + "</p>\n")
	}
	if _, err := book.AddSection(body.String(), title, "chapter1.xhtml", ""); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := book.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
