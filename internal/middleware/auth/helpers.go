package auth

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stockroom/internal/models"
	"github.com/Skotchmaster/stockroom/internal/session"
)

const userKey = "user"

type UserLoader interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
}

// Sessions resolves the session cookie to a user on every request.
type Sessions struct {
	Manager *session.Manager
	Users   UserLoader
}

// CurrentUser is the logged-in user, or nil.
func CurrentUser(c echo.Context) *models.User {
	u, _ := c.Get(userKey).(*models.User)
	return u
}

func setUser(c echo.Context, u *models.User) {
	c.Set(userKey, u)
}
