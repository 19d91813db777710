// File: internal/handler/auth/register.go
package auth

import (
	"errors"
	"net/http"

	"note-keeper/internal/api"
	"note-keeper/internal/database"
	"note-keeper/internal/dto"
	"note-keeper/internal/handler"
	"note-keeper/internal/service"
	"note-keeper/internal/store"

	"github.com/labstack/echo/v4"
)

// 以下變數供測試覆寫
var (
	register = service.Register
	login    = service.Login
)

const (
	invalidRegistrationMessage = "a valid email (at most 120 characters), a password (at most 72 bytes) and a name (at most 100 characters) are required"
	invalidLoginMessage        = "email and password are required"
)

// RegisterHandler 建立新帳號
// @Summary     註冊使用者
// @Description 以 email / 密碼 / 名稱建立帳號；email 區分大小寫且不可重複
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RegisterRequest true "註冊資料"
// @Success     201  {object} dto.MessageResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     500  {object} dto.HTTPError
// @Router      /register [post]
func RegisterHandler(db database.Querier) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return handler.BadRequest(c, "invalid request body")
		}
		if err := c.Validate(&req); err != nil {
			return handler.BadRequest(c, invalidRegistrationMessage)
		}

		if _, err := register(c.Request().Context(), db, req.Email, req.Password, req.Name); err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				return handler.BadRequest(c, "Email already exists")
			}
			if errors.Is(err, service.ErrPasswordTooLong) {
				return handler.BadRequest(c, invalidRegistrationMessage)
			}
			return handler.InternalError(c, err)
		}
		return c.JSON(http.StatusCreated, dto.MessageResponse{Message: "Registration successful"})
	}
}
