package convert

import (
	"bytes"
	"context"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	pdfFont       = "goregular"
	pdfFontSize   = 11
	pdfLineHeight = 5
)

// PDF flows the text over A4 pages in the embedded Go Regular font, so
// text is written as Unicode rather than a single-byte code page.
func PDF() Handler {
	return Handler{
		Format:    "pdf",
		Extension: "pdf",
		MediaType: "application/pdf",
		Input:     InputText,
		Write:     writePDF,
	}
}

func writePDF(_ context.Context, in Input) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(in.Title(), true)
	doc.AddUTF8FontFromBytes(pdfFont, "", goregular.TTF)
	doc.SetFont(pdfFont, "", pdfFontSize)

	doc.AddPage()
	doc.MultiCell(0, pdfLineHeight, in.Text, "", "L", false)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
