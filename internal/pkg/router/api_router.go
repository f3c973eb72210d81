package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Joelferreira98/SisFin/app/controllers"
	"github.com/Joelferreira98/SisFin/internal/pkg/middleware"
	"github.com/Joelferreira98/SisFin/internal/pkg/ratelimit"
)

type ApiRouter struct {
	deps Deps
}

func NewApiRouter(deps Deps) *ApiRouter {
	return &ApiRouter{deps: deps}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	reminderCtrl := controllers.NewReminderController(h.deps.Reminder)
	saleCtrl := controllers.NewSaleController(h.deps.Sales)
	billingCtrl := controllers.NewBillingController(h.deps.Billing)

	api := app.Group("/api", ratelimit.APILimiter())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "SisFin API",
		})
	})

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/register", controllers.HandleRegister)
	auth.Post("/login", controllers.HandleLogin)

	// The confirmation endpoints authenticate by token alone, so they get
	// a tighter rate limit than the rest of the API.
	confirm := api.Group("/confirm-sale", ratelimit.PublicLimiter())
	confirm.Get("/:token", saleCtrl.HandlePublicGet)
	confirm.Post("/:token", saleCtrl.HandlePublicConfirm)

	// Authenticated routes
	authed := api.Group("", middleware.RequireAuth)

	clients := authed.Group("/clients")
	clients.Get("/", controllers.HandleListClients)
	clients.Post("/", controllers.HandleCreateClient)
	clients.Get("/:id", controllers.HandleGetClient)
	clients.Put("/:id", controllers.HandleUpdateClient)
	clients.Delete("/:id", controllers.HandleDeleteClient)

	receivables := authed.Group("/receivables")
	receivables.Get("/", controllers.HandleListReceivables)
	receivables.Post("/", controllers.HandleCreateReceivable)
	receivables.Get("/:id", controllers.HandleGetReceivable)
	receivables.Put("/:id", controllers.HandleUpdateReceivable)
	receivables.Post("/:id/pay", controllers.HandleMarkReceivablePaid)
	receivables.Delete("/:id", controllers.HandleDeleteReceivable)

	payables := authed.Group("/payables")
	payables.Get("/", controllers.HandleListPayables)
	payables.Post("/", controllers.HandleCreatePayable)
	payables.Put("/:id", controllers.HandleUpdatePayable)
	payables.Post("/:id/pay", controllers.HandleMarkPayablePaid)
	payables.Delete("/:id", controllers.HandleDeletePayable)

	reminders := authed.Group("/payment-reminders")
	reminders.Get("/", reminderCtrl.HandleList)
	reminders.Post("/", reminderCtrl.HandleCreate)
	reminders.Put("/:id", reminderCtrl.HandleUpdate)
	reminders.Delete("/:id", reminderCtrl.HandleDelete)
	reminders.Post("/test", reminderCtrl.HandleTest)

	authed.Get("/reminder-logs", reminderCtrl.HandleListLogs)

	salesGroup := authed.Group("/installment-sales")
	salesGroup.Get("/", saleCtrl.HandleList)
	salesGroup.Post("/", saleCtrl.HandleCreate)
	salesGroup.Get("/:id", saleCtrl.HandleGet)
	salesGroup.Delete("/:id", saleCtrl.HandleDelete)
	salesGroup.Post("/:id/approve", saleCtrl.HandleApprove)
	salesGroup.Post("/:id/reject", saleCtrl.HandleReject)
	salesGroup.Post("/:id/regenerate-token", saleCtrl.HandleRegenerateToken)
	salesGroup.Post("/:id/send-link", saleCtrl.HandleSendLink)

	plans := authed.Group("/plans")
	plans.Get("/", controllers.HandleListPlans)
	plans.Get("/all", middleware.RequireAdmin, controllers.HandleListAllPlans)
	plans.Post("/", middleware.RequireAdmin, controllers.HandleCreatePlan)
	plans.Put("/:id", middleware.RequireAdmin, controllers.HandleUpdatePlan)
	plans.Delete("/:id", middleware.RequireAdmin, controllers.HandleDeletePlan)

	subscriptions := authed.Group("/subscriptions")
	subscriptions.Post("/", controllers.HandleSubscribe)
	subscriptions.Get("/me", controllers.HandleMySubscription)
	subscriptions.Delete("/me", controllers.HandleCancelSubscription)

	settings := authed.Group("/settings")
	settings.Get("/", controllers.HandleGetSettings)
	settings.Put("/whatsapp", controllers.HandleUpdateWhatsAppSettings)

	authed.Get("/dashboard", controllers.HandleDashboard)

	authed.Post("/billing/run", middleware.RequireAdmin, billingCtrl.HandleRun)
}
