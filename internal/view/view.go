// Package view 以 html/template 渲染頁面，每頁都從 layout 複製一份
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"inkwell/internal/flash"
	"inkwell/internal/service"

	"github.com/Masterminds/sprig/v3"
	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutName = "layout"

// Page 每個頁面共用的資料
type Page struct {
	Title   string
	User    *service.Claims
	Flashes []flash.Notice
	Data    any
}

// Renderer implements echo.Renderer
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	return newRenderer(templatesFS)
}

func newRenderer(fsys fs.FS) (*Renderer, error) {
	layout, err := template.New(layoutName).Funcs(sprig.FuncMap()).ParseFS(fsys, "templates/"+layoutName+".html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(files))
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".html")
		if name == layoutName {
			continue
		}
		t, err := template.Must(layout.Clone()).ParseFS(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// Static 回傳 /static 底下的檔案
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, layoutName, data)
}
