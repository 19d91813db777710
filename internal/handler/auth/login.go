// File: internal/handler/auth/login.go
package auth

import (
	"errors"
	"net/http"

	"note-keeper/internal/api"
	"note-keeper/internal/database"
	"note-keeper/internal/dto"
	"note-keeper/internal/handler"
	"note-keeper/internal/service"

	"github.com/labstack/echo/v4"
)

// LoginHandler 驗證 email / 密碼並以 cookie 建立 session
// @Summary     登入使用者
// @Description 驗證成功後設定 HttpOnly 的 session cookie
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.LoginRequest true "登入資料"
// @Success     200  {object} dto.MessageResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Failure     500  {object} dto.HTTPError
// @Router      /login [post]
func LoginHandler(db database.Querier, sessions service.Sessions, secureCookie bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return handler.BadRequest(c, "invalid request body")
		}
		if err := c.Validate(&req); err != nil {
			return handler.BadRequest(c, invalidLoginMessage)
		}

		ctx := c.Request().Context()
		user, err := login(ctx, db, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				return c.JSON(http.StatusUnauthorized, dto.HTTPError{Error: "Invalid credentials"})
			}
			return handler.InternalError(c, err)
		}

		token, err := sessions.Create(ctx, user.ID)
		if err != nil {
			return handler.InternalError(c, err)
		}
		c.SetCookie(&http.Cookie{
			Name:     service.SessionCookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   int(sessions.TTL().Seconds()),
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Login successful"})
	}
}
