// Package posts holds the blog posts that are compiled into the binary rather
// than read from the content directory.
package posts

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/brightline-studio/site-backend/content"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.gohtml"))

// Register adds every compiled post to reg.
func Register(reg *content.Registry) error {
	return reg.Register(
		content.Entry{Slug: "rebuilding-a-lead-pipeline", Load: loadLeadPipelineCaseStudy},
		content.Entry{Slug: "choosing-between-cms-and-markdown", Load: loadContentGuide},
	)
}

// render returns a RenderFunc that executes the named template with data.
func render(name string, data any) content.RenderFunc {
	return func(_ context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, data)
	}
}
