// File: internal/router/router.go
package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"note-keeper/internal/cache"
	"note-keeper/internal/database"
	"note-keeper/internal/dto"
	"note-keeper/internal/handler"
	"note-keeper/internal/handler/auth"
	"note-keeper/internal/handler/notes"
	"note-keeper/internal/handler/pages"
	"note-keeper/internal/middleware"
	"note-keeper/internal/service"
	"note-keeper/internal/upload"
)

// App 集中路由所需的相依物件，由 cmd/service 組裝
type App struct {
	DB           database.DB
	Cache        cache.Cache
	Sessions     service.Sessions
	Uploads      upload.Uploader
	StaticRoot   string
	CookieSecure bool
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, app *App) error {
	renderer, err := pages.NewRenderer()
	if err != nil {
		return fmt.Errorf("載入頁面模板失敗: %w", err)
	}
	e.Renderer = renderer

	pageAuth := middleware.RequirePageAuth(app.Sessions, app.DB)
	apiAuth := middleware.RequireAPIAuth(app.Sessions, app.DB)

	// 頁面與表單
	e.GET("/", pages.IndexHandler())
	e.GET("/login", pages.LoginPageHandler())
	e.POST("/register", auth.RegisterHandler(app.DB))
	e.POST("/login", auth.LoginHandler(app.DB, app.Sessions, app.CookieSecure))
	e.GET("/logout", auth.LogoutHandler(app.Sessions, app.CookieSecure), pageAuth)
	e.GET("/notes", pages.NotesPageHandler(), pageAuth)

	// 上傳的圖片與靜態檔
	e.Static("/static", app.StaticRoot)

	api := e.Group("/api")

	// 健康檢查
	api.GET("/ping", handler.PingHandler(app.DB, app.Cache))

	// 目前使用者的筆記
	apiNotes := api.Group("/notes", apiAuth)
	apiNotes.GET("", notes.ListNotesHandler(app.DB))
	apiNotes.POST("", notes.CreateNoteHandler(app.DB, app.Uploads))
	apiNotes.DELETE("/:id", notes.DeleteNoteHandler(app.DB, app.Uploads))
	return nil
}

// ErrorHandler 將 echo 層的錯誤 (404 路由、405、413 等) 轉成 {"error": ...}；
// 5xx 只記錄實際錯誤，不回傳內容
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := handler.InternalErrorMessage
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if code < http.StatusInternalServerError {
			if s, ok := he.Message.(string); ok {
				msg = s
			} else {
				msg = http.StatusText(code)
			}
		}
	}
	if code >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, dto.HTTPError{Error: msg})
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
