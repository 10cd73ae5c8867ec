package templates

import (
	"embed"
	"html/template"
	"io"
)

//go:embed *.html
var tmplFS embed.FS

// RenderWithBase renders the named page template inside the base layout.
func RenderWithBase(w io.Writer, name string, data any) error {
	ts, err := template.ParseFS(tmplFS, "base.html", name)
	if err != nil {
		return err
	}
	return ts.ExecuteTemplate(w, "base", data)
}
