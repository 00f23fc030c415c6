package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/recycle-connect/internal/repository"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_id"

// SessionAuth returns an Echo middleware that resolves the session
// cookie to a user and injects "user_id" and "role" into the request
// context. Handlers and downstream middleware read these via c.Get.
// Requests without a valid session fail with 401 and no state is
// touched.
func SessionAuth(sessions repository.SessionStore, users repository.UserStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			ctx := c.Request().Context()
			userID, err := sessions.Get(ctx, cookie.Value)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session lookup failed"})
			}
			u, err := users.GetByID(ctx, userID)
			if err != nil {
				// A session pointing at a vanished user is treated as no session.
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			c.Set("user_id", u.ID)
			c.Set("role", string(u.Role))
			return next(c)
		}
	}
}
