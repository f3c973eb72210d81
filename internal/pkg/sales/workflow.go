package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Joelferreira98/SisFin/app/models"
	"github.com/Joelferreira98/SisFin/internal/pkg/notifier"
	"github.com/Joelferreira98/SisFin/internal/pkg/scheduler"
)

var (
	// ErrSaleNotFound maps an unknown id or token.
	ErrSaleNotFound = errors.New("installment sale not found")
	// ErrAlreadyProcessed rejects a second client confirmation.
	ErrAlreadyProcessed = errors.New("sale already confirmed or reviewed")
	// ErrInvalidState rejects owner actions outside the confirmed state and
	// token regeneration on an approved sale.
	ErrInvalidState = errors.New("sale is not in a state allowing this action")
)

// SaleStore is the slice of the sale repository the workflow needs.
type SaleStore interface {
	GetByID(id, userID uint) (*models.InstallmentSale, error)
	GetByToken(token string) (*models.InstallmentSale, error)
	Update(sale *models.InstallmentSale) error
	ApproveWithReceivables(sale *models.InstallmentSale, receivables []models.Receivable) error
}

// Workflow drives the installment-sale confirmation state machine:
// pending -> confirmed (client, via token), confirmed -> approved/rejected
// (owner), rejected -> pending (owner regenerates the token).
type Workflow struct {
	sales      SaleStore
	dispatcher notifier.Dispatcher
	now        func() time.Time
}

// NewWorkflow creates a sale confirmation workflow service.
func NewWorkflow(sales SaleStore, dispatcher notifier.Dispatcher) *Workflow {
	return &Workflow{
		sales:      sales,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// SetClock overrides the workflow clock for deterministic tests.
func (w *Workflow) SetClock(now func() time.Time) {
	w.now = now
}

// GetByToken resolves the public confirmation token to its sale.
func (w *Workflow) GetByToken(token string) (*models.InstallmentSale, error) {
	sale, err := w.sales.GetByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return sale, nil
}

// ConfirmByToken performs the public client step: it stamps the signature
// time, stores the document reference and moves pending -> confirmed. A sale
// already acted upon is rejected with ErrAlreadyProcessed and left untouched.
func (w *Workflow) ConfirmByToken(ctx context.Context, token, documentPhoto string) (*models.InstallmentSale, error) {
	_ = ctx
	sale, err := w.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if !sale.CanConfirm() {
		return nil, ErrAlreadyProcessed
	}

	now := w.now()
	sale.Status = models.SaleStatusConfirmed
	sale.DocumentPhoto = documentPhoto
	sale.ClientSignedAt = &now

	if err := w.sales.Update(sale); err != nil {
		return nil, fmt.Errorf("failed to confirm sale %d: %w", sale.ID, err)
	}
	return sale, nil
}

// Approve moves confirmed -> approved and materializes one receivable per
// installment in the same transaction. The client is notified best-effort
// after the transaction commits.
func (w *Workflow) Approve(ctx context.Context, userID, saleID uint, notes string) (*models.InstallmentSale, error) {
	sale, err := w.getOwned(saleID, userID)
	if err != nil {
		return nil, err
	}
	if !sale.CanReview() {
		return nil, ErrInvalidState
	}

	now := w.now()
	sale.Status = models.SaleStatusApproved
	sale.ReviewedAt = &now
	sale.ReviewNotes = notes

	receivables := BuildInstallments(sale)
	if err := w.sales.ApproveWithReceivables(sale, receivables); err != nil {
		return nil, err
	}

	w.notifyClient(ctx, sale, fmt.Sprintf(
		"Olá {cliente}! Sua venda parcelada \"%s\" foi aprovada. Serão %d parcelas de %s, primeira em %s.",
		sale.Description, sale.InstallmentCount,
		scheduler.FormatMoney(sale.InstallmentValue), scheduler.FormatDate(sale.FirstDueDate)))

	return sale, nil
}

// Reject moves confirmed -> rejected, recording the reason. No receivables
// are generated.
func (w *Workflow) Reject(ctx context.Context, userID, saleID uint, reason string) (*models.InstallmentSale, error) {
	sale, err := w.getOwned(saleID, userID)
	if err != nil {
		return nil, err
	}
	if !sale.CanReview() {
		return nil, ErrInvalidState
	}

	now := w.now()
	sale.Status = models.SaleStatusRejected
	sale.ReviewedAt = &now
	sale.ReviewNotes = reason

	if err := w.sales.Update(sale); err != nil {
		return nil, fmt.Errorf("failed to reject sale %d: %w", sale.ID, err)
	}

	w.notifyClient(ctx, sale, fmt.Sprintf(
		"Olá {cliente}! Sua venda parcelada \"%s\" não foi aprovada. Motivo: %s", sale.Description, reason))

	return sale, nil
}

// RegenerateToken reopens the flow with a fresh token, invalidating the old
// one. Allowed from any state except approved; signature and review fields
// are cleared and the sale returns to pending.
func (w *Workflow) RegenerateToken(ctx context.Context, userID, saleID uint) (*models.InstallmentSale, error) {
	_ = ctx
	sale, err := w.getOwned(saleID, userID)
	if err != nil {
		return nil, err
	}
	if sale.Status == models.SaleStatusApproved {
		return nil, ErrInvalidState
	}

	sale.GenerateConfirmationToken()
	sale.Status = models.SaleStatusPending
	sale.DocumentPhoto = ""
	sale.ClientSignedAt = nil
	sale.ReviewedAt = nil
	sale.ReviewNotes = ""

	if err := w.sales.Update(sale); err != nil {
		return nil, fmt.Errorf("failed to regenerate token for sale %d: %w", sale.ID, err)
	}
	return sale, nil
}

func (w *Workflow) getOwned(saleID, userID uint) (*models.InstallmentSale, error) {
	sale, err := w.sales.GetByID(saleID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return sale, nil
}

// notifyClient sends a WhatsApp message to the sale's client. Failures are
// logged only; the state transition has already been persisted.
func (w *Workflow) notifyClient(ctx context.Context, sale *models.InstallmentSale, template string) {
	if sale.Client == nil || !sale.Client.HasWhatsApp() {
		return
	}
	message := strings.ReplaceAll(template, "{cliente}", sale.Client.Name)
	if err := w.dispatcher.SendText(ctx, sale.UserID, sale.Client.Phone, message); err != nil {
		log.Errorf("[Sales] Failed to notify client %d about sale %d: %v", sale.ClientID, sale.ID, err)
	}
}

// BuildInstallments splits the sale total into InstallmentCount receivables
// with monthly due dates starting at FirstDueDate. Each installment is the
// total divided by the count rounded to two decimals; the last installment
// absorbs the rounding remainder so the amounts sum exactly to the total.
func BuildInstallments(sale *models.InstallmentSale) []models.Receivable {
	count := sale.InstallmentCount
	if count < 1 {
		count = 1
	}

	base := sale.TotalAmount.Div(decimal.NewFromInt(int64(count))).Round(2)
	last := sale.TotalAmount.Sub(base.Mul(decimal.NewFromInt(int64(count - 1))))

	clientID := sale.ClientID
	saleID := sale.ID
	receivables := make([]models.Receivable, 0, count)
	for i := 0; i < count; i++ {
		amount := base
		if i == count-1 {
			amount = last
		}
		number := i + 1
		total := count
		receivables = append(receivables, models.Receivable{
			UserID:            sale.UserID,
			ClientID:          &clientID,
			Description:       fmt.Sprintf("%s (%d/%d)", sale.Description, number, count),
			Amount:            amount,
			DueDate:           models.DateOnly(sale.FirstDueDate).AddDate(0, i, 0),
			Status:            models.ReceivableStatusPending,
			InstallmentNumber: &number,
			InstallmentCount:  &total,
			ParentSaleID:      &saleID,
		})
	}
	return receivables
}
