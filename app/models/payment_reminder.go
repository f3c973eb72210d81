package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	TriggerBeforeDue = "before_due"
	TriggerOnDue     = "on_due"
	TriggerAfterDue  = "after_due"
)

// PaymentReminder is a user-defined rule controlling when a WhatsApp payment
// reminder is sent for pending receivables. The message template supports the
// placeholders {cliente}, {valor}, {vencimento}, {descricao} and {dias_atraso}.
type PaymentReminder struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	Name            string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,max=150"`
	MessageTemplate string         `gorm:"type:text;not null" json:"message_template" validate:"required"`
	TriggerType     string         `gorm:"type:varchar(20);not null" json:"trigger_type" validate:"oneof=before_due on_due after_due"`
	TriggerDays     int            `gorm:"not null;default:0" json:"trigger_days" validate:"min=0,max=365"`
	TriggerTime     string         `gorm:"type:varchar(5);not null;default:'09:00'" json:"trigger_time" validate:"required,len=5"`
	IsActive        bool           `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *PaymentReminder) Validate() error {
	v := validator.New()

	if err := v.Struct(p); err != nil {
		return err
	}
	if _, err := time.Parse("15:04", p.TriggerTime); err != nil {
		return err
	}
	return nil
}

// TriggerDateFor returns the calendar date on which this rule fires for a
// receivable with the given due date.
func (p *PaymentReminder) TriggerDateFor(dueDate time.Time) time.Time {
	switch p.TriggerType {
	case TriggerBeforeDue:
		return DateOnly(dueDate).AddDate(0, 0, -p.TriggerDays)
	case TriggerAfterDue:
		return DateOnly(dueDate).AddDate(0, 0, p.TriggerDays)
	default:
		return DateOnly(dueDate)
	}
}
