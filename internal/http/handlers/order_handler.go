package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "sellerconsole/internal/log"
	"sellerconsole/internal/services"
	"sellerconsole/internal/validate"
	"sellerconsole/internal/views"
)

const ordersPath = "/admin/orders"

type OrderHandler struct {
	Gate      services.Gate
	Source    services.OrderSource
	Status    services.StatusAssigner
	Views     *views.Store[*services.OrderScreen]
	LoginPath string
}

// GET /admin/orders?sellerId=
// The seller is verified before any order is fetched.
func (h *OrderHandler) Mount(c *fiber.Ctx) error {
	// the gate refuses a malformed id before it reaches the store
	sellerID, ok := validate.SellerID(c.Query("sellerId"))
	if sellerID != "" && !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "sellerId"})
	}
	ref := applog.SellerRef(sellerID)

	s, err := services.MountOrderScreen(c.UserContext(), sellerID, services.OrderScreenDeps{
		Gate: h.Gate, Source: h.Source, Status: h.Status,
	})
	if errors.Is(err, services.ErrNotVerified) {
		applog.Security(c, "seller.verify.fail", map[string]any{"seller": ref, "err": err.Error()})
		return c.Redirect(h.LoginPath, fiber.StatusSeeOther)
	}
	if s == nil {
		applog.Error(c, "orders.mount.fail", err, map[string]any{"seller": ref})
		return err
	}
	applog.Audit(c, "seller.verify.ok", map[string]any{"seller": ref})

	id := h.Views.Put(s)
	if err != nil {
		applog.Error(c, "orders.fetch.fail", err, map[string]any{"view": id})
		return c.Redirect(ordersPath+"/v/"+id+"?notice=unavailable", fiber.StatusSeeOther)
	}
	return c.Redirect(ordersPath+"/v/"+id, fiber.StatusSeeOther)
}

// GET /admin/orders/v/:view
func (h *OrderHandler) View(c *fiber.Ctx) error {
	s := screenFrom[*services.OrderScreen](c)
	return render(c, "admin_orders", fiber.Map{
		"Title": "Orders",
		"View":  c.Params("view"),
		"State": s.State(),
		"Err":   notice(c),
	})
}

// POST /admin/orders/v/:view/sort
func (h *OrderHandler) Sort(c *fiber.Ctx) error {
	key := c.FormValue("key")
	if err := screenFrom[*services.OrderScreen](c).Sort(key); err != nil {
		if errors.Is(err, services.ErrUnknownColumn) {
			applog.Security(c, "validation.fail", map[string]any{"field": "key"})
			return backTo(c, ordersPath, "badcolumn")
		}
		return h.fail(c, err)
	}
	return backTo(c, ordersPath, "")
}

// POST /admin/orders/v/:view/search
func (h *OrderHandler) Search(c *fiber.Ctx) error {
	q, ok := validate.Q(c.FormValue("q"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "q"})
		return backTo(c, ordersPath, "badquery")
	}
	screenFrom[*services.OrderScreen](c).SetQuery(q)
	return backTo(c, ordersPath, "")
}

// POST /admin/orders/v/:view/details
func (h *OrderHandler) Details(c *fiber.Ctx) error {
	id, ok := validate.ID(c.FormValue("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "id"})
		return backTo(c, ordersPath, "notfound")
	}
	if err := screenFrom[*services.OrderScreen](c).Select(id); err != nil {
		return h.fail(c, err)
	}
	return backTo(c, ordersPath, "")
}

// POST /admin/orders/v/:view/details/close
func (h *OrderHandler) CloseDetails(c *fiber.Ctx) error {
	screenFrom[*services.OrderScreen](c).CloseDetails()
	return backTo(c, ordersPath, "")
}

// POST /admin/orders/v/:view/close
func (h *OrderHandler) Close(c *fiber.Ctx) error {
	if err := h.Views.Delete(c.Params("view")); err != nil {
		applog.Error(c, "orders.close.fail", err, nil)
	}
	return c.Redirect(h.LoginPath, fiber.StatusSeeOther)
}

func (h *OrderHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		return backTo(c, ordersPath, "notfound")
	case errors.Is(err, services.ErrScreenClosed):
		// the seller must pass the gate again
		return c.Redirect(h.LoginPath, fiber.StatusSeeOther)
	}
	applog.Error(c, "orders.action.fail", err, nil)
	return err
}
