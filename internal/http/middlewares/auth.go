package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
	"task-tracker.com/task-tracker/internal/services"
)

const loginUserKey = "login_user"

// BasicAuth logs the caller in on every request, using the basic auth user
// name as the email address.
func BasicAuth(users *services.UserService) echo.MiddlewareFunc {
	return echomw.BasicAuth(func(email, password string, c echo.Context) (bool, error) {
		user, err := users.Login(c.Request().Context(), email, password)
		if err != nil {
			if errors.Is(err, apperrors.ErrLoginFailed) {
				return false, nil
			}
			return false, err
		}

		c.Set(loginUserKey, *user)
		return true, nil
	})
}

func LoginUser(c echo.Context) (model.User, bool) {
	user, ok := c.Get(loginUserKey).(model.User)
	return user, ok
}
