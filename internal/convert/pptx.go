package convert

import (
	"context"
	"fmt"
	"strings"
)

// PPTX writes a slide deck with one slide per non-empty line.
// Text without any non-empty line still yields a single blank slide.
func PPTX() Handler {
	return Handler{
		Format:    "pptx",
		Extension: "pptx",
		MediaType: "application/vnd.openxmlformats-officedocument.presentationml.presentation",
		Input:     InputText,
		Write: func(_ context.Context, in Input) ([]byte, error) {
			return writePPTX(in.Title(), slideTexts(in.Text))
		},
	}
}

func slideTexts(text string) []string {
	var slides []string
	for _, line := range Lines(text) {
		if strings.TrimSpace(line) != "" {
			slides = append(slides, line)
		}
	}
	if len(slides) == 0 {
		slides = []string{""}
	}
	return slides
}

func writePPTX(title string, slides []string) ([]byte, error) {
	deck := struct{ Slides []string }{slides}

	var b zipBuilder
	b.render("[Content_Types].xml", "content_types.xml.tmpl", deck)
	b.static("_rels/.rels", "pptx/rels.xml")
	b.render("docProps/core.xml", "core.xml.tmpl", struct{ Title string }{title})
	b.render("ppt/presentation.xml", "presentation.xml.tmpl", deck)
	b.render("ppt/_rels/presentation.xml.rels", "presentation.xml.rels.tmpl", deck)
	b.static("ppt/slideMasters/slideMaster1.xml", "pptx/slideMaster1.xml")
	b.static("ppt/slideMasters/_rels/slideMaster1.xml.rels", "pptx/slideMaster1.xml.rels")
	b.static("ppt/slideLayouts/slideLayout1.xml", "pptx/slideLayout1.xml")
	b.static("ppt/slideLayouts/_rels/slideLayout1.xml.rels", "pptx/slideLayout1.xml.rels")
	b.static("ppt/theme/theme1.xml", "pptx/theme1.xml")
	for i, text := range slides {
		b.render(fmt.Sprintf("ppt/slides/slide%d.xml", i+1), "slide.xml.tmpl", text)
		b.static(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), "pptx/slide.xml.rels")
	}
	return b.bytes()
}
