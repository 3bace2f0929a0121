package convert

import (
	"bytes"
	"context"
	"html/template"

	"convertapi/internal/model"
)

// TXT re-emits the decoded text unchanged.
func TXT() Handler {
	return Handler{
		Format:    "txt",
		Extension: "txt",
		MediaType: "text/plain; charset=utf-8",
		Input:     InputText,
		Write: func(_ context.Context, in Input) ([]byte, error) {
			return []byte(in.Text), nil
		},
	}
}

var htmlDoc = template.Must(template.New("html").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<pre>{{.Text}}</pre>
</body>
</html>
`))

// HTML wraps the text in a minimal HTML5 document.
func HTML() Handler {
	return Handler{
		Format:    "html",
		Extension: "html",
		MediaType: "text/html; charset=utf-8",
		Input:     InputText,
		Write: func(_ context.Context, in Input) ([]byte, error) {
			var buf bytes.Buffer
			err := htmlDoc.Execute(&buf, struct {
				Title string
				Text  string
			}{in.Title(), in.Text})
			if err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	}
}

// Passthrough copies the input unchanged under a new extension.
// These targets have no real writer; results are flagged as stubs.
func Passthrough(ext, mediaType string) Handler {
	return Handler{
		Format:    model.Format(ext),
		Extension: ext,
		MediaType: mediaType,
		Input:     InputBinary,
		Stub:      true,
		Write: func(_ context.Context, in Input) ([]byte, error) {
			out := make([]byte, len(in.Data))
			copy(out, in.Data)
			return out, nil
		},
	}
}
