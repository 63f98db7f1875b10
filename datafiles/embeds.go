// Package datafiles carries the files the web frontend serves.
package datafiles

import (
	"embed"
	"html/template"
)

//go:embed index.html
var indexHTMLEmbed string

//go:embed index.html
var htmlTemplatesEmbed embed.FS

// IndexHTML returns the raw index page template.
func IndexHTML() string {
	return indexHTMLEmbed
}

// IndexTemplate parses the index page template.
//
// The template is executed with a value carrying Files, each with a Name and
// Sprites, each sprite with a Name and an ID.
func IndexTemplate() (*template.Template, error) {
	return template.ParseFS(htmlTemplatesEmbed, "index.html")
}
