package repository

import (
	"github.com/Joelferreira98/SisFin/app/models"
	"gorm.io/gorm"
)

// settingsRepository implements the SettingsRepository interface
type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new user settings repository instance
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// GetByUser loads the settings row for a user, creating an empty one on
// first access.
func (r *settingsRepository) GetByUser(userID uint) (*models.UserSettings, error) {
	return models.GetOrCreateUserSettings(r.db, userID)
}

// Save persists the settings row
func (r *settingsRepository) Save(settings *models.UserSettings) error {
	return r.db.Save(settings).Error
}
