// Package templates dashboard HTML şablonlarını ve statik dosyaları embed eder.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"

	"github.com/onerilhan/go-activity-dashboard/internal/dateformat"
	"github.com/onerilhan/go-activity-dashboard/internal/models"
	"github.com/onerilhan/go-activity-dashboard/internal/urlresolver"
)

//go:embed *.html static
var files embed.FS

// Renderer parse edilmiş şablon seti
type Renderer struct {
	tmpl *template.Template
}

// New şablonları parse eder. env mutlak link üretiminde kullanılır.
func New(env urlresolver.Environment) (*Renderer, error) {
	funcs := template.FuncMap{
		"absolute":   func(path string) string { return urlresolver.Absolute(env, path) },
		"query":      Query,
		"formatDate": dateformat.FormatDate,
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(files, "*.html")
	if err != nil {
		return nil, fmt.Errorf("şablonlar parse edilemedi: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render şablonu önce buffer'a yazar, hata yoksa w'ye kopyalar
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("%s render edilemedi: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Static /static altındaki embed edilmiş dosyaları sunar
func Static() http.Handler {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// Query filtre, sayfa ve limit'ten query string üretir. Boş filtreler yazılmaz.
func Query(f models.Filters, page, limit int) string {
	v := url.Values{}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	if f.EntityType != "" {
		v.Set("entityType", f.EntityType)
	}
	if f.Action != "" {
		v.Set("action", f.Action)
	}
	if f.UserID != "" {
		v.Set("userId", f.UserID)
	}
	if f.Days > 0 {
		v.Set("days", strconv.Itoa(f.Days))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}
