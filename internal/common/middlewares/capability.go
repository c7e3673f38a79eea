package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRoles gates a route to the listed operator roles. Station-level
// allowed-roles checks happen inside the queue services, where the target
// station is known; this is the coarse route-level gate.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := OperatorClaims(c)
			if claims == nil {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"status":  http.StatusUnauthorized,
					"message": "Missing or invalid JWT claims",
					"data":    nil,
				})
			}
			if !allowed[claims.Role] {
				return c.JSON(http.StatusForbidden, map[string]interface{}{
					"status":  http.StatusForbidden,
					"message": "role " + claims.Role + " is not permitted for this action",
					"data":    nil,
				})
			}
			return next(c)
		}
	}
}
