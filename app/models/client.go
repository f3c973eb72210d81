package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Client is a customer of a SisFin user. The phone number is the WhatsApp
// destination for payment reminders and sale notifications.
type Client struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Name      string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Email     string         `gorm:"type:varchar(200);default:null" json:"email" validate:"omitempty,email,max=200"`
	Phone     string         `gorm:"type:varchar(20);default:null" json:"phone" validate:"max=20"`
	Document  string         `gorm:"type:varchar(20);default:null" json:"document" validate:"max=20"`
	Address   string         `gorm:"type:varchar(255);default:null" json:"address" validate:"max=255"`
	Notes     string         `gorm:"type:text" json:"notes" validate:"max=1000"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Client) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// HasWhatsApp reports whether the client can receive WhatsApp messages.
func (c *Client) HasWhatsApp() bool {
	return c.Phone != ""
}
