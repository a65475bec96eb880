package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	applog "sellerconsole/internal/log"
	"sellerconsole/internal/repos"
)

type AdminHandler struct {
	Journal *repos.JournalRepo
}

// GET /admin/writes
// Lists product writes that were kept locally because the store has no write API.
func (h *AdminHandler) Writes(c *fiber.Ctx) error {
	rows, err := h.Journal.ListLatest(100)
	if err != nil {
		return fmt.Errorf("list local writes: %w", err)
	}
	n, err := h.Journal.CountUnsynced()
	if err != nil {
		applog.Error(c, "admin.writes.count.fail", err, nil)
	}
	return render(c, "admin_writes", fiber.Map{"Title": "Pending writes", "Rows": rows, "Unsynced": n})
}
