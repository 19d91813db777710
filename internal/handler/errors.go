// File: internal/handler/errors.go
package handler

import (
	"net/http"

	"note-keeper/internal/dto"

	"github.com/labstack/echo/v4"
)

// InternalErrorMessage 是所有 500 回應的固定訊息，不帶出內部錯誤內容
const InternalErrorMessage = "internal server error"

// InternalError 記錄實際錯誤並回傳通用的 500
func InternalError(c echo.Context, err error) error {
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	return c.JSON(http.StatusInternalServerError, dto.HTTPError{Error: InternalErrorMessage})
}

// BadRequest 回傳 400 與訊息
func BadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, dto.HTTPError{Error: msg})
}
