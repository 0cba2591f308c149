// Package web embeds the HTML views.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"yesno": func(b bool) string {
		if b {
			return "✔"
		}
		return "✘"
	},
}

// Templates parses every view. Names are the file names, e.g. "index.html".
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
