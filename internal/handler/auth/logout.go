// File: internal/handler/auth/logout.go
package auth

import (
	"net/http"

	"note-keeper/internal/service"

	"github.com/labstack/echo/v4"
)

// LogoutHandler 刪除 session 並導回首頁。
// 刪除失敗只記錄，cookie 一律清除。
// @Summary     登出
// @Tags        auth
// @Success     302
// @Router      /logout [get]
func LogoutHandler(sessions service.Sessions, secureCookie bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		if cookie, err := c.Cookie(service.SessionCookieName); err == nil {
			if err := sessions.Destroy(c.Request().Context(), cookie.Value); err != nil {
				c.Logger().Errorf("destroy session: %v", err)
			}
		}
		c.SetCookie(&http.Cookie{
			Name:     service.SessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		return c.Redirect(http.StatusFound, "/")
	}
}
