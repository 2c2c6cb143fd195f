package helpers

import (
	"github.com/labstack/echo/v4"

	"github.com/acmshq/acms/internal/core/domain/user"
)

type ctxKey string

const (
	keyCurrentUser ctxKey = "current_user"
)

// SetCurrentUser stores the resolved principal for the request.
func SetCurrentUser(c echo.Context, u *user.User) { c.Set(string(keyCurrentUser), u) }

func GetCurrentUserRaw(c echo.Context) (*user.User, bool) {
	v := c.Get(string(keyCurrentUser))
	u, ok := v.(*user.User)
	return u, ok
}
