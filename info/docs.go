package info

import (
	_ "embed"
	"html/template"
)

//go:embed assets/stoplight.html
var stoplightPage string

var docsTemplate = template.Must(template.New("docs").Parse(stoplightPage))

// DocsPage is the data handed to the docs template.
type DocsPage struct {
	Title       string
	DocumentURL string
}
