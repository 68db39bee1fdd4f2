package middleware

import (
	"net/http"

	"storefront/internal/identity"

	"github.com/labstack/echo/v4"
)

//contextに入っているroleがADMINかどうかを確認します。
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("login required"))
			}

			//ADMINだけ許可
			if role != identity.RoleAdmin {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}

			return next(c)
		}
	}
}
