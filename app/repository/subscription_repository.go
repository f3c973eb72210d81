package repository

import (
	"time"

	"github.com/Joelferreira98/SisFin/app/models"
	"gorm.io/gorm"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Create creates a new user subscription in the database
func (r *subscriptionRepository) Create(sub *models.UserSubscription) error {
	return r.db.Create(sub).Error
}

// GetActiveByUser retrieves the user's current active subscription
func (r *subscriptionRepository) GetActiveByUser(userID uint) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := r.db.Preload("Plan").
		Where("user_id = ? AND status = ? AND (expires_at IS NULL OR expires_at > ?)",
			userID, models.SubscriptionStatusActive, time.Now()).
		Order("created_at DESC").First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListActive retrieves all currently active subscriptions with plans preloaded
func (r *subscriptionRepository) ListActive() ([]models.UserSubscription, error) {
	var subs []models.UserSubscription
	err := r.db.Preload("Plan").
		Where("status = ? AND (expires_at IS NULL OR expires_at > ?)", models.SubscriptionStatusActive, time.Now()).
		Find(&subs).Error
	return subs, err
}

// Update updates an existing subscription in the database
func (r *subscriptionRepository) Update(sub *models.UserSubscription) error {
	return r.db.Save(sub).Error
}

// Cancel marks a subscription canceled, scoped to its owner
func (r *subscriptionRepository) Cancel(id, userID uint) error {
	return r.db.Model(&models.UserSubscription{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("status", models.SubscriptionStatusCanceled).Error
}
