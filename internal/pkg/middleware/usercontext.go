package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gigbookhq/gigbook/internal/pkg/session"
	"github.com/gigbookhq/gigbook/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the session into a UserContext local for
// every request. OAuth routes are skipped so the Goth fiber session store
// does not collide with the app session.
func UserContextMiddleware(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/auth/") {
		return c.Next()
	}

	anonymous := usercontext.UserContext{IsLoggedIn: false, IsAdmin: false}

	store := session.GetSessionStore()
	if store == nil {
		c.Locals(usercontext.KeyUserContext, anonymous)
		return c.Next()
	}

	sess, err := store.Get(c)
	if err != nil {
		c.Locals(usercontext.KeyUserContext, anonymous)
		return c.Next()
	}

	rawID := sess.Get(usercontext.KeyUserID)
	if rawID == nil {
		c.Locals(usercontext.KeyUserContext, anonymous)
		return c.Next()
	}

	userID := uint(0)
	switch v := rawID.(type) {
	case uint:
		userID = v
	case int:
		userID = uint(v)
	case string:
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			userID = uint(parsed)
		}
	}
	if userID == 0 {
		c.Locals(usercontext.KeyUserContext, anonymous)
		return c.Next()
	}

	isAdmin := false
	if v, ok := sess.Get(usercontext.KeyIsAdmin).(bool); ok {
		isAdmin = v
	}

	c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
		UserID:     userID,
		Username:   session.GetSessionValue(c, usercontext.KeyUsername),
		IsLoggedIn: true,
		IsAdmin:    isAdmin,
	})

	return c.Next()
}
