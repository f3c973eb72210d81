package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	SaleStatusPending   = "pending"
	SaleStatusConfirmed = "confirmed"
	SaleStatusApproved  = "approved"
	SaleStatusRejected  = "rejected"
)

// InstallmentSale is a proposed parceled sale. The client signs it through a
// public confirmation-token link, then the owner approves (materializing one
// receivable per installment) or rejects it. approved and rejected are
// terminal; a rejected sale can be reopened with a fresh token.
type InstallmentSale struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	UserID            uint            `gorm:"not null;index" json:"user_id"`
	ClientID          uint            `gorm:"not null;index" json:"client_id"`
	Client            *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Description       string          `gorm:"type:varchar(255);not null" json:"description" validate:"required,max=255"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	InstallmentCount  int             `gorm:"not null" json:"installment_count" validate:"min=1,max=120"`
	InstallmentValue  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"installment_value"`
	FirstDueDate      time.Time       `gorm:"type:date;not null" json:"first_due_date"`
	ConfirmationToken string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	Status            string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	DocumentPhoto     string          `gorm:"type:text" json:"document_photo,omitempty"`
	ClientSignedAt    *time.Time      `gorm:"type:timestamp;default:null" json:"client_signed_at"`
	ReviewedAt        *time.Time      `gorm:"type:timestamp;default:null" json:"reviewed_at"`
	ReviewNotes       string          `gorm:"type:text" json:"review_notes,omitempty"`
	ViewCount         int             `gorm:"not null;default:0" json:"view_count"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (s *InstallmentSale) Validate() error {
	v := validator.New()

	if s.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return ErrNonPositiveAmount
	}
	return v.Struct(s)
}

// GenerateConfirmationToken assigns a fresh unguessable bearer token,
// invalidating any previous value.
func (s *InstallmentSale) GenerateConfirmationToken() {
	s.ConfirmationToken = uuid.NewString()
}

// CanConfirm reports whether the client-side signature step is still open.
func (s *InstallmentSale) CanConfirm() bool {
	return s.Status == SaleStatusPending
}

// CanReview reports whether the owner may approve or reject the sale.
func (s *InstallmentSale) CanReview() bool {
	return s.Status == SaleStatusConfirmed
}

// IsTerminal reports whether the sale reached a final state.
func (s *InstallmentSale) IsTerminal() bool {
	return s.Status == SaleStatusApproved || s.Status == SaleStatusRejected
}
