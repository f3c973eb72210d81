package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Joelferreira98/SisFin/app/repository"
	"github.com/Joelferreira98/SisFin/internal/pkg/cache"
	"github.com/Joelferreira98/SisFin/internal/pkg/database"
	"github.com/Joelferreira98/SisFin/internal/pkg/env"
	"github.com/Joelferreira98/SisFin/internal/pkg/notifier"
	"github.com/Joelferreira98/SisFin/internal/pkg/ratelimit"
	"github.com/Joelferreira98/SisFin/internal/pkg/router"
	"github.com/Joelferreira98/SisFin/internal/pkg/sales"
	"github.com/Joelferreira98/SisFin/internal/pkg/scheduler"
	"github.com/Joelferreira98/SisFin/internal/pkg/whatsapp"
)

func main() {
	app, shutdown := NewApplication()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		shutdown()
		_ = app.Shutdown()
	}()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	if err != nil {
		log.Fatal(err)
	}
}

func NewApplication() (*fiber.App, func()) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	ratelimit.NewStorage()

	repository.InitializeFactory(database.GetDB())
	repos := repository.GetGlobalRepositories()

	// Locate the project root when run from cmd/sisfin.
	basePaths := []string{
		"./",
		"../../",
	}
	basePath := "./"
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	waClient, err := whatsapp.NewClientFromEnv()
	if err != nil {
		log.Printf("whatsapp gateway not configured: %v (reminders will be logged as failed)", err)
	}
	dispatcher := notifier.NewWhatsAppDispatcher(waClient, repos.Settings)

	reminderSched := scheduler.NewReminderScheduler(repos.Reminder, repos.Receivable, dispatcher)
	billingSched := scheduler.NewBillingScheduler(repos.Receivable)
	saleWorkflow := sales.NewWorkflow(repos.Sale, dispatcher)

	reminderSched.Start()
	billingSched.Start()

	app := fiber.New(fiber.Config{
		AppName: "SisFin",
	})
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())

	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	router.InstallRouter(app, router.Deps{
		Reminder: reminderSched,
		Billing:  billingSched,
		Sales:    saleWorkflow,
	})

	return app, func() {
		reminderSched.Stop()
		billingSched.Stop()
	}
}
