package convert

import "context"

// DOCX writes a minimal WordprocessingML document with one paragraph per line.
func DOCX() Handler {
	return Handler{
		Format:    "docx",
		Extension: "docx",
		MediaType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Input:     InputText,
		Write: func(_ context.Context, in Input) ([]byte, error) {
			return writeDOCX(in.Title(), Lines(in.Text))
		},
	}
}

func writeDOCX(title string, paragraphs []string) ([]byte, error) {
	var b zipBuilder
	b.static("[Content_Types].xml", "docx/content_types.xml")
	b.static("_rels/.rels", "docx/rels.xml")
	b.render("docProps/core.xml", "core.xml.tmpl", struct{ Title string }{title})
	b.render("word/document.xml", "document.xml.tmpl", struct{ Paragraphs []string }{paragraphs})
	return b.bytes()
}
