package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Joelferreira98/SisFin/app/models"
	"github.com/Joelferreira98/SisFin/app/repository"
	"github.com/Joelferreira98/SisFin/internal/pkg/scheduler"
)

type reminderRequest struct {
	Name            string `json:"name"`
	MessageTemplate string `json:"message_template"`
	TriggerType     string `json:"trigger_type"`
	TriggerDays     int    `json:"trigger_days"`
	TriggerTime     string `json:"trigger_time"`
	IsActive        *bool  `json:"is_active"`
}

// ReminderController exposes reminder rule CRUD plus the manual processing
// trigger, backed by the injected scheduler.
type ReminderController struct {
	scheduler *scheduler.ReminderScheduler
}

// NewReminderController creates a reminder controller bound to a scheduler.
func NewReminderController(s *scheduler.ReminderScheduler) *ReminderController {
	return &ReminderController{scheduler: s}
}

// HandleList returns the user's reminder rules.
func (rc *ReminderController) HandleList(c *fiber.Ctx) error {
	userID := currentUserID(c)
	reminders, err := repository.GetGlobalFactory().GetReminderRepository().ListByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load reminders"})
	}
	return c.JSON(fiber.Map{"reminders": reminders})
}

// HandleCreate creates a reminder rule.
func (rc *ReminderController) HandleCreate(c *fiber.Ctx) error {
	userID := currentUserID(c)
	var req reminderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	reminder := models.PaymentReminder{
		UserID:          userID,
		Name:            req.Name,
		MessageTemplate: req.MessageTemplate,
		TriggerType:     req.TriggerType,
		TriggerDays:     req.TriggerDays,
		TriggerTime:     req.TriggerTime,
		IsActive:        active,
	}
	if err := reminder.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}
	if err := repository.GetGlobalFactory().GetReminderRepository().Create(&reminder); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create reminder"})
	}
	return c.Status(fiber.StatusCreated).JSON(reminder)
}

// HandleUpdate updates the mutable fields of a reminder rule.
func (rc *ReminderController) HandleUpdate(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	repo := repository.GetGlobalFactory().GetReminderRepository()
	reminder, err := repo.GetByID(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Reminder not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load reminder"})
	}

	var req reminderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	reminder.Name = req.Name
	reminder.MessageTemplate = req.MessageTemplate
	reminder.TriggerType = req.TriggerType
	reminder.TriggerDays = req.TriggerDays
	reminder.TriggerTime = req.TriggerTime
	if req.IsActive != nil {
		reminder.IsActive = *req.IsActive
	}
	if err := reminder.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}
	if err := repo.Update(reminder); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update reminder"})
	}
	return c.JSON(reminder)
}

// HandleDelete soft deletes a reminder rule.
func (rc *ReminderController) HandleDelete(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	if err := repository.GetGlobalFactory().GetReminderRepository().Delete(id, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete reminder"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleTest runs one reminder processing pass immediately, skipping the
// time-of-day match. The once-per-day guard still applies.
func (rc *ReminderController) HandleTest(c *fiber.Ctx) error {
	if err := rc.scheduler.ProcessReminders(c.Context(), true); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Reminder processing failed"})
	}
	return c.JSON(fiber.Map{"message": "Reminder processing executed"})
}

// HandleListLogs returns the user's dispatch logs.
func (rc *ReminderController) HandleListLogs(c *fiber.Ctx) error {
	userID := currentUserID(c)
	offset, limit := parsePagination(c)

	logs, err := repository.GetGlobalFactory().GetReminderRepository().ListLogsByUser(userID, offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load reminder logs"})
	}
	return c.JSON(fiber.Map{"logs": logs})
}
