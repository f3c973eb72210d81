package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Joelferreira98/SisFin/internal/pkg/scheduler"
)

// BillingController exposes the manual trigger for subscription charge
// generation. Admin only; the trigger bypasses the day-of-month guard.
type BillingController struct {
	scheduler *scheduler.BillingScheduler
}

// NewBillingController creates a billing controller bound to the scheduler.
func NewBillingController(s *scheduler.BillingScheduler) *BillingController {
	return &BillingController{scheduler: s}
}

// HandleRun generates the current month's subscription charges immediately.
func (bc *BillingController) HandleRun(c *fiber.Ctx) error {
	created, err := bc.scheduler.RunNow()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Billing run failed"})
	}
	return c.JSON(fiber.Map{"message": "Billing run completed", "charges_created": created})
}
