package models

import (
	"time"

	"gorm.io/gorm"
)

// UserSettings carries per-user channel configuration, most importantly the
// WhatsApp gateway instance used to dispatch payment reminders. A user without
// a configured instance has no usable channel; dispatches for that user fail
// until it is set (surfaced as failed reminder logs, never as a crash).
type UserSettings struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	WhatsAppInstance string    `gorm:"type:varchar(100);default:null" json:"whatsapp_instance"`
	WhatsAppAPIKey   string    `gorm:"type:varchar(191);default:null" json:"-"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasWhatsAppChannel reports whether the user configured a WhatsApp instance.
func (s *UserSettings) HasWhatsAppChannel() bool {
	return s.WhatsAppInstance != "" && s.WhatsAppAPIKey != ""
}

// GetOrCreateUserSettings loads the settings row for a user, creating an
// empty one on first access.
func GetOrCreateUserSettings(db *gorm.DB, userID uint) (*UserSettings, error) {
	var settings UserSettings
	err := db.Where("user_id = ?", userID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	settings = UserSettings{UserID: userID}
	if err := db.Create(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
