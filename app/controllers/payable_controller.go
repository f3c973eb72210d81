package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Joelferreira98/SisFin/app/models"
	"github.com/Joelferreira98/SisFin/app/repository"
	"github.com/Joelferreira98/SisFin/internal/pkg/statistics"
)

type payableRequest struct {
	Supplier    string          `json:"supplier"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date"`
}

// HandleListPayables returns the user's payables.
func HandleListPayables(c *fiber.Ctx) error {
	userID := currentUserID(c)
	offset, limit := parsePagination(c)

	payables, err := repository.GetGlobalFactory().GetPayableRepository().ListByUser(userID, offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load payables"})
	}
	return c.JSON(fiber.Map{"payables": payables})
}

// HandleCreatePayable creates a payable.
func HandleCreatePayable(c *fiber.Ctx) error {
	userID := currentUserID(c)
	var req payableRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "due_date must be YYYY-MM-DD"})
	}

	payable := models.Payable{
		UserID:      userID,
		Supplier:    req.Supplier,
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     dueDate,
		Status:      models.PayableStatusPending,
	}
	if err := payable.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}
	if err := repository.GetGlobalFactory().GetPayableRepository().Create(&payable); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create payable"})
	}

	statistics.InvalidateDashboard(userID)
	return c.Status(fiber.StatusCreated).JSON(payable)
}

// HandleUpdatePayable updates one payable owned by the user.
func HandleUpdatePayable(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	repo := repository.GetGlobalFactory().GetPayableRepository()
	payable, err := repo.GetByID(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Payable not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load payable"})
	}

	var req payableRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "due_date must be YYYY-MM-DD"})
	}

	payable.Supplier = req.Supplier
	payable.Description = req.Description
	payable.Amount = req.Amount
	payable.DueDate = dueDate
	if err := payable.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}
	if err := repo.Update(payable); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update payable"})
	}

	statistics.InvalidateDashboard(userID)
	return c.JSON(payable)
}

// HandleMarkPayablePaid stamps a payable as paid.
func HandleMarkPayablePaid(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	repo := repository.GetGlobalFactory().GetPayableRepository()
	payable, err := repo.GetByID(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Payable not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load payable"})
	}

	if payable.Status != models.PayableStatusPending {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "already_processed", "message": "Payable is already paid"})
	}

	payable.MarkPaid(time.Now())
	if err := repo.Update(payable); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update payable"})
	}

	statistics.InvalidateDashboard(userID)
	return c.JSON(payable)
}

// HandleDeletePayable soft deletes one payable owned by the user.
func HandleDeletePayable(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	if err := repository.GetGlobalFactory().GetPayableRepository().Delete(id, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete payable"})
	}
	statistics.InvalidateDashboard(userID)
	return c.SendStatus(fiber.StatusNoContent)
}
