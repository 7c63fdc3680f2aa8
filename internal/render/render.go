// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public blog
// pages. Templates are embedded at compile time; each page template is
// paired with the base layout.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"inkpress/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to public templates.
type PageData struct {
	Title string // Page title for the <title> tag
	Data  map[string]any
}

// Renderer handles template parsing and execution for public pages.
type Renderer struct {
	templates map[string]*template.Template
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem.
func New() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}

	funcMap := template.FuncMap{
		// formatDate renders a timestamp the way the post pages display it.
		"formatDate": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
		// minutes pluralizes a reading-time value.
		"minutes": func(n int) string {
			if n == 1 {
				return "1 min read"
			}
			return fmt.Sprintf("%d min read", n)
		},
		// categoryNames joins category names for compact display.
		"categoryNames": func(cats []models.Category) string {
			names := make([]string, len(cats))
			for i, c := range cats {
				names[i] = c.Name
			}
			return strings.Join(names, ", ")
		},
	}

	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}

	for _, page := range pages {
		name := strings.TrimSuffix(filepath.Base(page), ".html")
		if name == "base" {
			continue
		}
		tmpl, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html", page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	return r, nil
}

// Page executes the named page template wrapped in the base layout.
func (r *Renderer) Page(w http.ResponseWriter, name string, data *PageData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	if data == nil {
		data = &PageData{}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, "base.html", data)
}
