package middleware

import (
	"errors"
	"net/http"

	"note-keeper/internal/database"
	"note-keeper/internal/dto"
	"note-keeper/internal/handler"
	"note-keeper/internal/model"
	"note-keeper/internal/service"
	"note-keeper/internal/store"

	"github.com/labstack/echo/v4"
)

const ContextUserKey = "user"

// LoginPath 為頁面路由未登入時的導向位置
const LoginPath = "/login"

var getUserByID = store.GetUserByID

// currentUser 由 session cookie 解析出使用者；
// cookie 缺少、無效、已登出或使用者已不存在時回傳 service.ErrUnauthenticated
func currentUser(c echo.Context, sessions service.Sessions, db database.Querier) (*model.User, error) {
	cookie, err := c.Cookie(service.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, service.ErrUnauthenticated
	}
	ctx := c.Request().Context()
	userID, err := sessions.Resolve(ctx, cookie.Value)
	if err != nil {
		return nil, err
	}
	user, err := getUserByID(ctx, db, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, service.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// RequireAPIAuth 未登入時回傳 401 JSON
func RequireAPIAuth(sessions service.Sessions, db database.Querier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := currentUser(c, sessions, db)
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					return c.JSON(http.StatusUnauthorized, dto.HTTPError{Error: "Unauthenticated"})
				}
				return handler.InternalError(c, err)
			}
			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}

// RequirePageAuth 未登入時導向登入頁
func RequirePageAuth(sessions service.Sessions, db database.Querier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := currentUser(c, sessions, db)
			if err != nil {
				if !errors.Is(err, service.ErrUnauthenticated) {
					c.Logger().Errorf("resolve session: %v", err)
				}
				return c.Redirect(http.StatusFound, LoginPath)
			}
			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser 取得 Require*Auth 放入 context 的使用者；未經過 middleware 時為 nil
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(ContextUserKey).(*model.User)
	return u
}
