package convert

import (
	"archive/zip"
	"bytes"
	"embed"
	"encoding/xml"
	"strings"
	"text/template"
	"time"
)

//go:embed templates
var templateFS embed.FS

var ooxmlTemplates = template.Must(
	template.New("ooxml").
		Funcs(template.FuncMap{
			"xml": xmlEscape,
			"inc": func(i int) int { return i + 1 },
			"add": func(a, b int) int { return a + b },
		}).
		ParseFS(templateFS, "templates/docx/*.tmpl", "templates/pptx/*.tmpl"),
)

type zipEntry struct {
	Name string
	Data []byte
}

// writeZip packs entries in order. OOXML readers expect [Content_Types].xml first.
func writeZip(entries []zipEntry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(e.Data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// zipBuilder collects package parts; the first failure sticks.
type zipBuilder struct {
	entries []zipEntry
	err     error
}

func (b *zipBuilder) static(name, file string) {
	if b.err != nil {
		return
	}
	data, err := templateFS.ReadFile("templates/" + file)
	if err != nil {
		b.err = err
		return
	}
	b.entries = append(b.entries, zipEntry{Name: name, Data: data})
}

func (b *zipBuilder) render(name, tmpl string, data any) {
	if b.err != nil {
		return
	}
	var buf bytes.Buffer
	if err := ooxmlTemplates.ExecuteTemplate(&buf, tmpl, data); err != nil {
		b.err = err
		return
	}
	b.entries = append(b.entries, zipEntry{Name: name, Data: buf.Bytes()})
}

func (b *zipBuilder) bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	return writeZip(b.entries)
}

// xmlEscape escapes s for XML character data. Characters not allowed in
// XML 1.0 are replaced with U+FFFD.
func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
