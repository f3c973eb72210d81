package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Joelferreira98/SisFin/app/models"
	"github.com/Joelferreira98/SisFin/app/repository"
	"github.com/Joelferreira98/SisFin/internal/pkg/entitlements"
	"github.com/Joelferreira98/SisFin/internal/pkg/statistics"
)

type receivableRequest struct {
	ClientID    *uint           `json:"client_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date"`
}

// HandleListReceivables returns the user's receivables.
func HandleListReceivables(c *fiber.Ctx) error {
	userID := currentUserID(c)
	offset, limit := parsePagination(c)

	repo := repository.GetGlobalFactory().GetReceivableRepository()
	receivables, err := repo.ListByUser(userID, offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load receivables"})
	}
	total, err := repo.CountByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to count receivables"})
	}
	return c.JSON(fiber.Map{"receivables": receivables, "total": total})
}

// HandleCreateReceivable creates a receivable within the user's plan limits.
func HandleCreateReceivable(c *fiber.Ctx) error {
	userID := currentUserID(c)
	var req receivableRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "due_date must be YYYY-MM-DD"})
	}

	repos := repository.GetGlobalRepositories()

	sub, err := repos.Subscription.GetActiveByUser(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subscription"})
	}
	count, err := repos.Receivable.CountByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to count receivables"})
	}
	if !entitlements.ForSubscription(sub).CanCreateReceivable(count) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "plan_limit_reached", "message": "Receivable limit of your plan reached"})
	}

	if req.ClientID != nil {
		if _, err := repos.Client.GetByID(*req.ClientID, userID); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "Unknown client"})
		}
	}

	receivable := models.Receivable{
		UserID:      userID,
		ClientID:    req.ClientID,
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     dueDate,
		Status:      models.ReceivableStatusPending,
	}
	if err := receivable.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}
	if err := repos.Receivable.Create(&receivable); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create receivable"})
	}

	statistics.InvalidateDashboard(userID)
	return c.Status(fiber.StatusCreated).JSON(receivable)
}

// HandleGetReceivable returns one receivable owned by the user.
func HandleGetReceivable(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	receivable, err := repository.GetGlobalFactory().GetReceivableRepository().GetByID(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Receivable not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load receivable"})
	}
	return c.JSON(receivable)
}

// HandleUpdateReceivable updates description, amount, client and due date.
func HandleUpdateReceivable(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	repo := repository.GetGlobalFactory().GetReceivableRepository()
	receivable, err := repo.GetByID(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Receivable not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load receivable"})
	}

	var req receivableRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "due_date must be YYYY-MM-DD"})
	}

	receivable.ClientID = req.ClientID
	receivable.Description = req.Description
	receivable.Amount = req.Amount
	receivable.DueDate = dueDate
	if err := receivable.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}
	if err := repo.Update(receivable); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update receivable"})
	}

	statistics.InvalidateDashboard(userID)
	return c.JSON(receivable)
}

// HandleMarkReceivablePaid stamps a receivable as paid.
func HandleMarkReceivablePaid(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	repo := repository.GetGlobalFactory().GetReceivableRepository()
	receivable, err := repo.GetByID(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Receivable not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load receivable"})
	}

	if !receivable.IsPending() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "already_processed", "message": "Receivable is already paid"})
	}

	receivable.MarkPaid(time.Now())
	if err := repo.Update(receivable); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update receivable"})
	}

	statistics.InvalidateDashboard(userID)
	return c.JSON(receivable)
}

// HandleDeleteReceivable soft deletes one receivable owned by the user.
func HandleDeleteReceivable(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	if err := repository.GetGlobalFactory().GetReceivableRepository().Delete(id, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete receivable"})
	}
	statistics.InvalidateDashboard(userID)
	return c.SendStatus(fiber.StatusNoContent)
}
