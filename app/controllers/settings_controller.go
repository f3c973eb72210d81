package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Joelferreira98/SisFin/app/models"
	"github.com/Joelferreira98/SisFin/app/repository"
)

type whatsappSettingsRequest struct {
	Instance string `json:"instance"`
	APIKey   string `json:"api_key"`
}

// HandleGetSettings returns the caller's channel settings. The API key is
// never echoed back, only whether a channel is configured.
func HandleGetSettings(c *fiber.Ctx) error {
	userID := currentUserID(c)

	settings, err := repository.GetGlobalFactory().GetSettingsRepository().GetByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"whatsapp_instance": "", "whatsapp_configured": false})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load settings"})
	}
	return c.JSON(fiber.Map{
		"whatsapp_instance":   settings.WhatsAppInstance,
		"whatsapp_configured": settings.HasWhatsAppChannel(),
	})
}

// HandleUpdateWhatsAppSettings stores the user's WhatsApp gateway instance
// and API key used when dispatching payment reminders.
func HandleUpdateWhatsAppSettings(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req whatsappSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	settingsRepo := repository.GetGlobalFactory().GetSettingsRepository()
	settings, err := settingsRepo.GetByUser(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load settings"})
		}
		settings = &models.UserSettings{UserID: userID}
	}

	settings.WhatsAppInstance = req.Instance
	if req.APIKey != "" {
		settings.WhatsAppAPIKey = req.APIKey
	}
	if err := settingsRepo.Save(settings); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to save settings"})
	}
	return c.JSON(fiber.Map{
		"whatsapp_instance":   settings.WhatsAppInstance,
		"whatsapp_configured": settings.HasWhatsAppChannel(),
	})
}
