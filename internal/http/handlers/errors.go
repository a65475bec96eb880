package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "sellerconsole/internal/log"
)

const genericFailure = "Something went wrong. Please try again."

// ErrorHandler is the app-wide fiber error handler. Client errors keep their
// status and message; anything else is logged and shown as a generic page.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code, msg := fiber.StatusInternalServerError, genericFailure
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		code, msg = fe.Code, fe.Message
	} else {
		applog.Error(c, "server.error", err, nil)
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}
