package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Joelferreira98/SisFin/app/models"
	"github.com/Joelferreira98/SisFin/app/repository"
	"github.com/Joelferreira98/SisFin/internal/pkg/entitlements"
	"github.com/Joelferreira98/SisFin/internal/pkg/statistics"
	"github.com/Joelferreira98/SisFin/internal/pkg/utils"
)

type clientRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Document string `json:"document"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

// HandleListClients returns the user's clients, optionally filtered by ?q=.
func HandleListClients(c *fiber.Ctx) error {
	userID := currentUserID(c)
	repo := repository.GetGlobalFactory().GetClientRepository()

	if query := c.Query("q"); query != "" {
		clients, err := repo.Search(userID, query)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to search clients"})
		}
		return c.JSON(fiber.Map{"clients": clients})
	}

	offset, limit := parsePagination(c)
	clients, err := repo.ListByUser(userID, offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load clients"})
	}
	total, err := repo.CountByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to count clients"})
	}
	return c.JSON(fiber.Map{"clients": clients, "total": total})
}

// HandleCreateClient creates a client within the user's plan limits.
func HandleCreateClient(c *fiber.Ctx) error {
	userID := currentUserID(c)
	var req clientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	repos := repository.GetGlobalRepositories()
	sub, err := repos.Subscription.GetActiveByUser(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subscription"})
	}
	count, err := repos.Client.CountByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to count clients"})
	}
	if !entitlements.ForSubscription(sub).CanCreateClient(count) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "plan_limit_reached", "message": "Client limit of your plan reached"})
	}

	client := models.Client{
		UserID:   userID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Document: req.Document,
		Address:  req.Address,
		Notes:    req.Notes,
	}
	if err := client.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}
	if err := repos.Client.Create(&client); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create client"})
	}

	statistics.InvalidateDashboard(userID)
	return c.Status(fiber.StatusCreated).JSON(client)
}

// HandleGetClient returns one client owned by the user.
func HandleGetClient(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	client, err := repository.GetGlobalFactory().GetClientRepository().GetByID(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Client not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load client"})
	}

	avatarURL := ""
	if client.Email != "" {
		avatarURL = utils.GetGravatarURL(client.Email, 200)
	}
	return c.JSON(fiber.Map{"client": client, "avatar_url": avatarURL})
}

// HandleUpdateClient updates one client owned by the user.
func HandleUpdateClient(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	repo := repository.GetGlobalFactory().GetClientRepository()
	client, err := repo.GetByID(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Client not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load client"})
	}

	var req clientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	client.Name = req.Name
	client.Email = req.Email
	client.Phone = req.Phone
	client.Document = req.Document
	client.Address = req.Address
	client.Notes = req.Notes
	if err := client.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}
	if err := repo.Update(client); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update client"})
	}
	return c.JSON(client)
}

// HandleDeleteClient soft deletes one client owned by the user.
func HandleDeleteClient(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	if err := repository.GetGlobalFactory().GetClientRepository().Delete(id, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete client"})
	}
	statistics.InvalidateDashboard(userID)
	return c.SendStatus(fiber.StatusNoContent)
}
