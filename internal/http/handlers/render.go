package handlers

import "github.com/gofiber/fiber/v2"

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		// fall back to the cookie so hidden fields are never empty
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

// notices are the short messages a redirect can ask the next render to show.
var notices = map[string]string{
	"unavailable": "Could not reach the store. Showing what we have.",
	"badquery":    "Search text must be under 100 characters with no control characters.",
	"badurl":      "Enter a valid image URL (http, https or a relative path).",
	"badfield":    "That value is not allowed.",
	"notfound":    "That item is no longer on the list.",
	"badcolumn":   "That column cannot be sorted.",
	"saved":       "Saved locally. The store has not been updated.",
}

func notice(c *fiber.Ctx) string {
	return notices[c.Query("notice")]
}

// backTo redirects to a view page (303 so the browser re-GETs it).
func backTo(c *fiber.Ctx, base, note string) error {
	loc := base + "/v/" + c.Params("view")
	if note != "" {
		loc += "?notice=" + note
	}
	return c.Redirect(loc, fiber.StatusSeeOther)
}
