package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ReceivableStatusPending = "pending"
	ReceivableStatusPaid    = "paid"
)

// Receivable is a money amount owed to the user. It is created on manual
// entry, installment-sale approval or monthly subscription billing. Rows
// referenced by reminder logs are only ever soft-deleted.
type Receivable struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	UserID            uint            `gorm:"not null;index" json:"user_id"`
	ClientID          *uint           `gorm:"index" json:"client_id"`
	Client            *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Description       string          `gorm:"type:varchar(255);not null" json:"description" validate:"required,max=255"`
	Amount            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	DueDate           time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	Status            string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status" validate:"oneof=pending paid"`
	PaidAt            *time.Time      `gorm:"type:timestamp;default:null" json:"paid_at"`
	InstallmentNumber *int            `json:"installment_number,omitempty"`
	InstallmentCount  *int            `json:"installment_count,omitempty"`
	ParentSaleID      *uint           `gorm:"index" json:"parent_sale_id,omitempty"`
	SubscriptionID    *uint           `gorm:"index" json:"subscription_id,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (r *Receivable) Validate() error {
	v := validator.New()

	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrNonPositiveAmount
	}
	return v.Struct(r)
}

// IsPending reports whether the receivable still awaits payment.
func (r *Receivable) IsPending() bool {
	return r.Status == ReceivableStatusPending
}

// IsOverdue reports whether the due date has passed relative to now.
func (r *Receivable) IsOverdue(now time.Time) bool {
	return r.IsPending() && DateOnly(r.DueDate).Before(DateOnly(now))
}

// DaysOverdue returns whole days past due, zero when not overdue.
func (r *Receivable) DaysOverdue(now time.Time) int {
	d := int(DateOnly(now).Sub(DateOnly(r.DueDate)).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// MarkPaid stamps the receivable as paid at the given time.
func (r *Receivable) MarkPaid(now time.Time) {
	r.Status = ReceivableStatusPaid
	r.PaidAt = &now
}

// DateOnly truncates a time to its calendar date in local time.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
