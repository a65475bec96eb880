package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "sellerconsole/internal/log"
	"sellerconsole/internal/views"
)

const screenKey = "screen"

// RequireView loads the screen addressed by :view. An unknown or expired view
// is sent back to mountPath, which mounts a fresh one.
func RequireView[T views.Closer](store *views.Store[T], mountPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := store.Get(c.Params("view"))
		if err != nil {
			if errors.Is(err, views.ErrViewNotFound) {
				applog.Security(c, "view.unknown", nil)
				return c.Redirect(mountPath, fiber.StatusSeeOther)
			}
			return err
		}
		c.Locals(screenKey, v)
		return c.Next()
	}
}

func screenFrom[T any](c *fiber.Ctx) T {
	v, _ := c.Locals(screenKey).(T)
	return v
}
