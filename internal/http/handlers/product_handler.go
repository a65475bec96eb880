package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"sellerconsole/internal/domain"
	applog "sellerconsole/internal/log"
	"sellerconsole/internal/repos"
	"sellerconsole/internal/services"
	"sellerconsole/internal/validate"
	"sellerconsole/internal/views"
)

const productsPath = "/admin/products"

type ProductHandler struct {
	Source    services.ProductSource
	Writer    services.ProductWriter
	Journal   *repos.JournalRepo
	Scheduler services.Scheduler
	Views     *views.Store[*services.ProductScreen]
}

// GET /admin/products
func (h *ProductHandler) Mount(c *fiber.Ctx) error {
	s, err := services.MountProductScreen(c.UserContext(), services.ProductScreenDeps{
		Source: h.Source, Writer: h.Writer, Scheduler: h.Scheduler,
	})
	id := h.Views.Put(s)
	if err != nil {
		applog.Error(c, "products.fetch.fail", err, map[string]any{"view": id})
		return c.Redirect(productsPath+"/v/"+id+"?notice=unavailable", fiber.StatusSeeOther)
	}
	applog.Info(c, "products.mount", map[string]any{"view": id, "count": len(s.Rows())})
	return c.Redirect(productsPath+"/v/"+id, fiber.StatusSeeOther)
}

// GET /admin/products/v/:view
func (h *ProductHandler) View(c *fiber.Ctx) error {
	s := screenFrom[*services.ProductScreen](c)
	st := s.State()
	data := fiber.Map{"Title": "Products", "View": c.Params("view"), "State": st, "Err": notice(c)}
	if st.Viewer != nil && st.Viewer.Message != "" {
		// re-render once the flash has cleared
		data["Refresh"] = int(services.MessageTTL.Seconds()) + 1
	}
	if h.Journal != nil {
		if n, err := h.Journal.CountUnsynced(); err == nil {
			data["Unsynced"] = n
		} else {
			applog.Error(c, "journal.count.fail", err, nil)
		}
	}
	return render(c, "admin_products", data)
}

// POST /admin/products/v/:view/search
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	q, ok := validate.Q(c.FormValue("q"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "q"})
		return backTo(c, productsPath, "badquery")
	}
	screenFrom[*services.ProductScreen](c).SetQuery(q)
	return backTo(c, productsPath, "")
}

// POST /admin/products/v/:view/edit
func (h *ProductHandler) Edit(c *fiber.Ctx) error {
	id, ok := validate.ID(c.FormValue("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "id"})
		return backTo(c, productsPath, "notfound")
	}
	if err := screenFrom[*services.ProductScreen](c).BeginEdit(id); err != nil {
		return h.fail(c, "products.edit.fail", err)
	}
	return backTo(c, productsPath, "")
}

// POST /admin/products/v/:view/save
// The form carries every draft field; absent fields keep their staged value.
func (h *ProductHandler) Save(c *fiber.Ctx) error {
	s := screenFrom[*services.ProductScreen](c)
	args := c.Request().PostArgs()
	for _, f := range domain.DraftFields {
		if !args.Has(f) {
			continue
		}
		v, ok := validate.DraftValue(string(args.Peek(f)))
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": f})
			return backTo(c, productsPath, "badfield")
		}
		if err := s.SetDraftField(f, v); err != nil {
			return h.fail(c, "products.draft.fail", err)
		}
	}
	p, err := s.Save(c.UserContext())
	switch {
	case errors.Is(err, services.ErrInvalidDraft):
		// draft stays open with its error shown inline
		applog.Info(c, "products.save.invalid", map[string]any{"err": err.Error()})
		return backTo(c, productsPath, "")
	case err != nil && p.ProductID == "":
		return h.fail(c, "products.save.fail", err)
	case err != nil:
		// local list already updated; only the write-back failed
		applog.Error(c, "products.write.fail", err, map[string]any{"product": p.ProductID})
		return backTo(c, productsPath, "")
	}
	applog.Audit(c, "products.save", map[string]any{"product": p.ProductID})
	return backTo(c, productsPath, "saved")
}

// POST /admin/products/v/:view/cancel
func (h *ProductHandler) Cancel(c *fiber.Ctx) error {
	screenFrom[*services.ProductScreen](c).CancelEdit()
	return backTo(c, productsPath, "")
}

// POST /admin/products/v/:view/reload
func (h *ProductHandler) Reload(c *fiber.Ctx) error {
	if err := screenFrom[*services.ProductScreen](c).Reload(c.UserContext()); err != nil {
		if errors.Is(err, services.ErrScreenClosed) {
			return c.Redirect(productsPath, fiber.StatusSeeOther)
		}
		applog.Error(c, "products.fetch.fail", err, nil)
		return backTo(c, productsPath, "unavailable")
	}
	return backTo(c, productsPath, "")
}

// POST /admin/products/v/:view/images/open
func (h *ProductHandler) OpenImages(c *fiber.Ctx) error {
	id, ok := validate.ID(c.FormValue("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "id"})
		return backTo(c, productsPath, "notfound")
	}
	if err := screenFrom[*services.ProductScreen](c).OpenImages(id); err != nil {
		return h.fail(c, "products.images.open.fail", err)
	}
	return backTo(c, productsPath, "")
}

// POST /admin/products/v/:view/images/prev
func (h *ProductHandler) PrevImage(c *fiber.Ctx) error {
	screenFrom[*services.ProductScreen](c).PrevImage()
	return backTo(c, productsPath, "")
}

// POST /admin/products/v/:view/images/next
func (h *ProductHandler) NextImage(c *fiber.Ctx) error {
	screenFrom[*services.ProductScreen](c).NextImage()
	return backTo(c, productsPath, "")
}

// POST /admin/products/v/:view/images/add
func (h *ProductHandler) AddImage(c *fiber.Ctx) error {
	url, ok := validate.ImageURL(c.FormValue("url"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "url"})
		return backTo(c, productsPath, "badurl")
	}
	s := screenFrom[*services.ProductScreen](c)
	added, err := s.AddImage(c.UserContext(), url)
	if err != nil {
		applog.Error(c, "products.write.fail", err, map[string]any{"product": s.State().Selected})
	}
	if added {
		applog.Audit(c, "products.image.add", map[string]any{"product": s.State().Selected})
	}
	return backTo(c, productsPath, "")
}

// POST /admin/products/v/:view/images/delete
func (h *ProductHandler) DeleteImage(c *fiber.Ctx) error {
	s := screenFrom[*services.ProductScreen](c)
	product := s.State().Selected
	url, ok, err := s.DeleteCurrentImage(c.UserContext())
	if err != nil {
		applog.Error(c, "products.write.fail", err, map[string]any{"product": product})
	}
	if ok {
		applog.Audit(c, "products.image.delete", map[string]any{"product": product, "url": url})
	}
	return backTo(c, productsPath, "")
}

// POST /admin/products/v/:view/images/close
func (h *ProductHandler) CloseImages(c *fiber.Ctx) error {
	screenFrom[*services.ProductScreen](c).CloseImages()
	return backTo(c, productsPath, "")
}

// POST /admin/products/v/:view/close
func (h *ProductHandler) Close(c *fiber.Ctx) error {
	if err := h.Views.Delete(c.Params("view")); err != nil {
		applog.Error(c, "products.close.fail", err, nil)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *ProductHandler) fail(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		return backTo(c, productsPath, "notfound")
	case errors.Is(err, services.ErrUnknownField):
		applog.Security(c, "validation.fail", map[string]any{"err": err.Error()})
		return backTo(c, productsPath, "badfield")
	case errors.Is(err, services.ErrNotEditing):
		return backTo(c, productsPath, "")
	case errors.Is(err, services.ErrScreenClosed):
		return c.Redirect(productsPath, fiber.StatusSeeOther)
	}
	applog.Error(c, action, err, nil)
	return err
}
