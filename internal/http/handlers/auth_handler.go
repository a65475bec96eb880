package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// AuthHandler serves the seller sign-in page. The seller id entered here is
// checked against the store when the order screen mounts.
type AuthHandler struct{}

// GET /seller/login
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "seller_login", fiber.Map{"Title": "Seller sign-in"})
}
