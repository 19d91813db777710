// File: internal/handler/pages/pages.go
package pages

import (
	"embed"
	"html/template"
	"io"
	"net/http"

	"note-keeper/internal/middleware"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer 以 html/template 實作 echo.Renderer
type Renderer struct {
	templates *template.Template
}

// NewRenderer 解析內嵌的頁面模板
func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// IndexHandler 首頁
func IndexHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, "index.html", nil)
	}
}

// LoginPageHandler 登入與註冊表單
func LoginPageHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, "login.html", nil)
	}
}

// NotesPageHandler 筆記頁，需通過 RequirePageAuth
func NotesPageHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		data := map[string]string{}
		if u := middleware.CurrentUser(c); u != nil {
			data["Name"] = u.Name
		}
		return c.Render(http.StatusOK, "notes.html", data)
	}
}
