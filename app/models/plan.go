package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Plan defines a subscription tier: its monthly price and the usage limits
// enforced by the entitlements package.
type Plan struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required,max=100"`
	Description    string          `gorm:"type:text" json:"description" validate:"max=1000"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	MaxClients     int             `gorm:"not null;default:0" json:"max_clients" validate:"min=0"`
	MaxReceivables int             `gorm:"not null;default:0" json:"max_receivables" validate:"min=0"`
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (p *Plan) Validate() error {
	v := validator.New()

	if p.Price.IsNegative() {
		return ErrNonPositiveAmount
	}
	return v.Struct(p)
}
