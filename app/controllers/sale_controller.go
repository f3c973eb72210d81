package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Joelferreira98/SisFin/app/models"
	"github.com/Joelferreira98/SisFin/app/repository"
	"github.com/Joelferreira98/SisFin/internal/pkg/env"
	"github.com/Joelferreira98/SisFin/internal/pkg/mail"
	"github.com/Joelferreira98/SisFin/internal/pkg/metrics/counter"
	"github.com/Joelferreira98/SisFin/internal/pkg/sales"
	"github.com/Joelferreira98/SisFin/internal/pkg/statistics"
)

type saleRequest struct {
	ClientID         uint            `json:"client_id"`
	Description      string          `json:"description"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	InstallmentCount int             `json:"installment_count"`
	FirstDueDate     string          `json:"first_due_date"`
}

type confirmSaleRequest struct {
	DocumentPhoto string `json:"document_photo"`
}

type reviewRequest struct {
	Notes  string `json:"notes"`
	Reason string `json:"reason"`
}

// SaleController exposes installment-sale CRUD, the owner review actions and
// the public token-based confirmation endpoints.
type SaleController struct {
	workflow *sales.Workflow
}

// NewSaleController creates a sale controller bound to the workflow service.
func NewSaleController(w *sales.Workflow) *SaleController {
	return &SaleController{workflow: w}
}

// HandleList returns the user's installment sales.
func (sc *SaleController) HandleList(c *fiber.Ctx) error {
	userID := currentUserID(c)
	offset, limit := parsePagination(c)

	salesList, err := repository.GetGlobalFactory().GetSaleRepository().ListByUser(userID, offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load sales"})
	}
	return c.JSON(fiber.Map{"sales": salesList})
}

// HandleCreate creates a pending sale with a fresh confirmation token.
func (sc *SaleController) HandleCreate(c *fiber.Ctx) error {
	userID := currentUserID(c)
	var req saleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	firstDueDate, err := parseDate(req.FirstDueDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "first_due_date must be YYYY-MM-DD"})
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.Client.GetByID(req.ClientID, userID); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "Unknown client"})
	}

	if req.InstallmentCount < 1 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "installment_count must be at least 1"})
	}

	sale := models.InstallmentSale{
		UserID:           userID,
		ClientID:         req.ClientID,
		Description:      req.Description,
		TotalAmount:      req.TotalAmount,
		InstallmentCount: req.InstallmentCount,
		InstallmentValue: req.TotalAmount.Div(decimal.NewFromInt(int64(req.InstallmentCount))).Round(2),
		FirstDueDate:     firstDueDate,
		Status:           models.SaleStatusPending,
	}
	sale.GenerateConfirmationToken()
	if err := sale.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}
	if err := repos.Sale.Create(&sale); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create sale"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"sale":             sale,
		"confirmation_url": sc.confirmationURL(sale.ConfirmationToken),
	})
}

// HandleGet returns one sale owned by the user, including its token link.
func (sc *SaleController) HandleGet(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	// Drain pending page-view counters so the owner sees a fresh count.
	if err := counter.FlushSaleViews(); err != nil {
		log.Warnf("Failed to flush sale view counters: %v", err)
	}

	sale, err := repository.GetGlobalFactory().GetSaleRepository().GetByID(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Sale not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load sale"})
	}
	return c.JSON(fiber.Map{
		"sale":             sale,
		"confirmation_url": sc.confirmationURL(sale.ConfirmationToken),
	})
}

// HandleApprove moves a confirmed sale to approved, generating installment
// receivables in one transaction.
func (sc *SaleController) HandleApprove(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	var req reviewRequest
	_ = c.BodyParser(&req)

	sale, err := sc.workflow.Approve(c.Context(), userID, id, req.Notes)
	if err != nil {
		return sc.workflowError(c, err)
	}

	statistics.InvalidateDashboard(userID)
	return c.JSON(sale)
}

// HandleReject moves a confirmed sale to rejected with a reason.
func (sc *SaleController) HandleReject(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	var req reviewRequest
	_ = c.BodyParser(&req)

	sale, err := sc.workflow.Reject(c.Context(), userID, id, req.Reason)
	if err != nil {
		return sc.workflowError(c, err)
	}
	return c.JSON(sale)
}

// HandleRegenerateToken reopens the flow with a fresh token.
func (sc *SaleController) HandleRegenerateToken(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	sale, err := sc.workflow.RegenerateToken(c.Context(), userID, id)
	if err != nil {
		return sc.workflowError(c, err)
	}
	return c.JSON(fiber.Map{
		"sale":             sale,
		"confirmation_url": sc.confirmationURL(sale.ConfirmationToken),
	})
}

// HandleSendLink emails the confirmation link to the sale's client.
func (sc *SaleController) HandleSendLink(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	sale, err := repository.GetGlobalFactory().GetSaleRepository().GetByID(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Sale not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load sale"})
	}

	if sale.Client == nil || sale.Client.Email == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "Client has no email address"})
	}

	url := sc.confirmationURL(sale.ConfirmationToken)
	if err := mail.SendSaleConfirmationLink(sale.Client.Email, sale.Client.Name, sale.Description, url); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to send email"})
	}
	return c.JSON(fiber.Map{"message": "Confirmation link sent", "confirmation_url": url})
}

// HandleDelete soft deletes a sale owned by the user.
func (sc *SaleController) HandleDelete(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	if err := repository.GetGlobalFactory().GetSaleRepository().Delete(id, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete sale"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandlePublicGet is the unauthenticated confirmation-page data endpoint.
// The token is the only credential.
func (sc *SaleController) HandlePublicGet(c *fiber.Ctx) error {
	token := c.Params("token")

	sale, err := sc.workflow.GetByToken(token)
	if err != nil {
		return sc.workflowError(c, err)
	}

	if err := counter.AddSaleView(sale.ID); err != nil {
		log.Warnf("Failed to count view for sale %d: %v", sale.ID, err)
	}

	// Expose only what the confirmation page needs.
	return c.JSON(fiber.Map{
		"description":       sale.Description,
		"total_amount":      sale.TotalAmount,
		"installment_count": sale.InstallmentCount,
		"installment_value": sale.InstallmentValue,
		"first_due_date":    sale.FirstDueDate.Format("2006-01-02"),
		"status":            sale.Status,
		"client_name":       clientName(sale),
		"client_signed_at":  formatTimePtr(sale.ClientSignedAt),
	})
}

// HandlePublicConfirm is the unauthenticated client signature step.
func (sc *SaleController) HandlePublicConfirm(c *fiber.Ctx) error {
	token := c.Params("token")

	var req confirmSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	sale, err := sc.workflow.ConfirmByToken(c.Context(), token, req.DocumentPhoto)
	if err != nil {
		return sc.workflowError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":          "Sale confirmed",
		"status":           sale.Status,
		"client_signed_at": formatTimePtr(sale.ClientSignedAt),
	})
}

// workflowError maps workflow sentinel errors onto distinct HTTP statuses:
// invalid token/id, already processed, wrong state, internal failure.
func (sc *SaleController) workflowError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, sales.ErrSaleNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Sale not found"})
	case errors.Is(err, sales.ErrAlreadyProcessed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "already_processed", "message": "Sale was already confirmed or reviewed"})
	case errors.Is(err, sales.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "invalid_state", "message": "Sale state does not allow this action"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Operation failed"})
	}
}

func (sc *SaleController) confirmationURL(token string) string {
	base := env.GetEnv("APP_PUBLIC_URL", "http://localhost:4000")
	return fmt.Sprintf("%s/confirm-sale/%s", base, token)
}

func clientName(sale *models.InstallmentSale) string {
	if sale.Client == nil {
		return ""
	}
	return sale.Client.Name
}
