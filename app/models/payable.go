package models

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrNonPositiveAmount rejects zero or negative money amounts.
var ErrNonPositiveAmount = errors.New("amount must be greater than zero")

const (
	PayableStatusPending = "pending"
	PayableStatusPaid    = "paid"
)

// Payable is a money amount the user owes, typically to a supplier.
type Payable struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Supplier    string          `gorm:"type:varchar(150);not null" json:"supplier" validate:"required,max=150"`
	Description string          `gorm:"type:varchar(255);not null" json:"description" validate:"required,max=255"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	DueDate     time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	Status      string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status" validate:"oneof=pending paid"`
	PaidAt      *time.Time      `gorm:"type:timestamp;default:null" json:"paid_at"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (p *Payable) Validate() error {
	v := validator.New()

	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrNonPositiveAmount
	}
	return v.Struct(p)
}

// MarkPaid stamps the payable as paid at the given time.
func (p *Payable) MarkPaid(now time.Time) {
	p.Status = PayableStatusPaid
	p.PaidAt = &now
}
