package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Joelferreira98/SisFin/internal/pkg/sales"
	"github.com/Joelferreira98/SisFin/internal/pkg/scheduler"
)

// Deps carries the long-lived services the API routes depend on. They are
// constructed once in main and injected so handlers never reach for globals
// beyond the repository factory.
type Deps struct {
	Reminder *scheduler.ReminderScheduler
	Billing  *scheduler.BillingScheduler
	Sales    *sales.Workflow
}

type Router interface {
	InstallRouter(app *fiber.App)
}

// InstallRouter registers every route group on the app.
func InstallRouter(app *fiber.App, deps Deps) {
	setup(app, NewApiRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
