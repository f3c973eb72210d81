package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Joelferreira98/SisFin/app/repository"
	"github.com/Joelferreira98/SisFin/internal/pkg/statistics"
)

// HandleDashboard returns the caller's financial overview.
func HandleDashboard(c *fiber.Ctx) error {
	userID := currentUserID(c)

	data, err := statistics.GetDashboard(repository.GetGlobalRepositories(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load dashboard"})
	}
	return c.JSON(data)
}
