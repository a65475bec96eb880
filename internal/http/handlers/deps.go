package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"sellerconsole/internal/config"
	"sellerconsole/internal/repos"
	"sellerconsole/internal/services"
	"sellerconsole/internal/views"
)

// OrderBackend is the part of the store API the order screen talks to.
type OrderBackend interface {
	services.OrderSource
	services.SellerVerifier
}

type Deps struct {
	ProductHandler *ProductHandler
	OrderHandler   *OrderHandler
	AdminHandler   *AdminHandler
	AuthHandler    *AuthHandler

	ProductViews *views.Store[*services.ProductScreen]
	OrderViews   *views.Store[*services.OrderScreen]
	LoginPath    string
}

func NewDeps(db *sqlx.DB, cfg config.Config, products services.ProductSource, orders OrderBackend) *Deps {
	journal := repos.NewJournalRepo(db)
	checks := repos.NewSellerCheckRepo(db)

	productViews := views.NewStore[*services.ProductScreen](cfg.ViewTTL)
	orderViews := views.NewStore[*services.OrderScreen](cfg.ViewTTL)

	return &Deps{
		ProductHandler: &ProductHandler{
			Source:    products,
			Writer:    services.NewJournalWriter(journal),
			Journal:   journal,
			Scheduler: services.RealScheduler,
			Views:     productViews,
		},
		OrderHandler: &OrderHandler{
			Gate:      &services.SellerGate{Verifier: orders, Checks: checks},
			Source:    orders,
			Status:    services.StatusAssignerFor(cfg.StatusMode),
			Views:     orderViews,
			LoginPath: cfg.LoginPath,
		},
		AdminHandler: &AdminHandler{Journal: journal},
		AuthHandler:  &AuthHandler{},
		ProductViews: productViews,
		OrderViews:   orderViews,
		LoginPath:    cfg.LoginPath,
	}
}

// Register mounts the console routes on r.
func (d *Deps) Register(r fiber.Router) {
	p := d.ProductHandler
	r.Get(productsPath, p.Mount)
	pv := r.Group(productsPath+"/v/:view", RequireView(d.ProductViews, productsPath))
	pv.Get("/", p.View)
	pv.Post("/search", p.Search)
	pv.Post("/edit", p.Edit)
	pv.Post("/save", p.Save)
	pv.Post("/cancel", p.Cancel)
	pv.Post("/reload", p.Reload)
	pv.Post("/images/open", p.OpenImages)
	pv.Post("/images/prev", p.PrevImage)
	pv.Post("/images/next", p.NextImage)
	pv.Post("/images/add", p.AddImage)
	pv.Post("/images/delete", p.DeleteImage)
	pv.Post("/images/close", p.CloseImages)
	pv.Post("/close", p.Close)

	o := d.OrderHandler
	r.Get(ordersPath, o.Mount)
	ov := r.Group(ordersPath+"/v/:view", RequireView(d.OrderViews, d.LoginPath))
	ov.Get("/", o.View)
	ov.Post("/sort", o.Sort)
	ov.Post("/search", o.Search)
	ov.Post("/details", o.Details)
	ov.Post("/details/close", o.CloseDetails)
	ov.Post("/close", o.Close)

	r.Get("/admin/writes", d.AdminHandler.Writes)
	r.Get("/seller/login", d.AuthHandler.LoginForm)
	r.Get("/", func(c *fiber.Ctx) error { return c.Redirect(productsPath) })
}

// Run expires idle views until ctx is done.
func (d *Deps) Run(ctx context.Context) {
	go d.ProductViews.Run(ctx)
	d.OrderViews.Run(ctx)
}

// Close tears down every mounted screen.
func (d *Deps) Close() error {
	return errors.Join(d.ProductViews.Close(), d.OrderViews.Close())
}
