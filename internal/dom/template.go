package dom

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
)

//go:embed templates/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// PageData fills the page template.
type PageData struct {
	Title  string
	Action string
}

// DefaultPageData is what the frontend server serves.
func DefaultPageData() PageData {
	return PageData{Title: "Phishing URL Detector", Action: "/"}
}

// RenderIndex executes the page template.
func RenderIndex(data PageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing index template: %w", err)
	}
	return buf.Bytes(), nil
}

// NewPage renders the template and binds the result.
func NewPage(data PageData) (*Page, error) {
	raw, err := RenderIndex(data)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(raw))
}
