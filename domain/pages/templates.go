package pages

import (
	"embed"
	"html/template"
)

const IndexTemplate = "index.html"

//go:embed templates/*.html
var templateFS embed.FS

// Templates holds every page, keyed by file name.
var Templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))
