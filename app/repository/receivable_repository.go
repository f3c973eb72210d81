package repository

import (
	"fmt"
	"time"

	"github.com/Joelferreira98/SisFin/app/models"
	"gorm.io/gorm"
)

// Day of month a generated subscription charge falls due.
const subscriptionDueDay = 10

// receivableRepository implements the ReceivableRepository interface
type receivableRepository struct {
	db *gorm.DB
}

// NewReceivableRepository creates a new receivable repository instance
func NewReceivableRepository(db *gorm.DB) ReceivableRepository {
	return &receivableRepository{db: db}
}

// Create creates a new receivable in the database
func (r *receivableRepository) Create(receivable *models.Receivable) error {
	return r.db.Create(receivable).Error
}

// GetByID retrieves a receivable by ID scoped to its owner
func (r *receivableRepository) GetByID(id, userID uint) (*models.Receivable, error) {
	var receivable models.Receivable
	err := r.db.Preload("Client").Where("id = ? AND user_id = ?", id, userID).First(&receivable).Error
	if err != nil {
		return nil, err
	}
	return &receivable, nil
}

// ListByUser retrieves a paginated list of the user's receivables
func (r *receivableRepository) ListByUser(userID uint, offset, limit int) ([]models.Receivable, error) {
	var receivables []models.Receivable
	err := r.db.Preload("Client").Where("user_id = ?", userID).
		Order("due_date ASC").Offset(offset).Limit(limit).Find(&receivables).Error
	return receivables, err
}

// CountByUser returns the number of receivables owned by a user
func (r *receivableRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Receivable{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// PendingByUser retrieves all pending receivables of a user with their
// clients preloaded, as consumed by the reminder scheduler.
func (r *receivableRepository) PendingByUser(userID uint) ([]models.Receivable, error) {
	var receivables []models.Receivable
	err := r.db.Preload("Client").
		Where("user_id = ? AND status = ?", userID, models.ReceivableStatusPending).
		Order("due_date ASC").Find(&receivables).Error
	return receivables, err
}

// Update updates an existing receivable in the database
func (r *receivableRepository) Update(receivable *models.Receivable) error {
	return r.db.Save(receivable).Error
}

// Delete soft deletes a receivable scoped to its owner. Reminder logs keep
// their receivable reference; soft deletion preserves the audit trail.
func (r *receivableRepository) Delete(id, userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Receivable{}, id).Error
}

// SumByUserAndStatus sums receivable amounts for a user and status
func (r *receivableRepository) SumByUserAndStatus(userID uint, status string) (float64, error) {
	var total float64
	err := r.db.Model(&models.Receivable{}).
		Where("user_id = ? AND status = ?", userID, status).
		Select("COALESCE(SUM(amount), 0)").Row().Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum receivables: %w", err)
	}
	return total, nil
}

// CountOverdueByUser counts pending receivables past their due date
func (r *receivableRepository) CountOverdueByUser(userID uint, now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Receivable{}).
		Where("user_id = ? AND status = ? AND due_date < ?",
			userID, models.ReceivableStatusPending, models.DateOnly(now)).
		Count(&count).Error
	return count, err
}

// GenerateSubscriptionCharges materializes one receivable per active
// subscription for the month containing period. Already-charged
// subscriptions are skipped, so re-running within the same month is a no-op.
// Returns the number of receivables created.
func (r *receivableRepository) GenerateSubscriptionCharges(period time.Time) (int, error) {
	monthStart := time.Date(period.Year(), period.Month(), 1, 0, 0, 0, 0, period.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var subs []models.UserSubscription
	err := r.db.Preload("Plan").
		Where("status = ? AND (expires_at IS NULL OR expires_at > ?)", models.SubscriptionStatusActive, period).
		Find(&subs).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load active subscriptions: %w", err)
	}

	created := 0
	for _, sub := range subs {
		if sub.Plan == nil {
			continue
		}

		var existing int64
		err := r.db.Model(&models.Receivable{}).
			Where("subscription_id = ? AND due_date >= ? AND due_date < ?", sub.ID, monthStart, monthEnd).
			Count(&existing).Error
		if err != nil {
			return created, fmt.Errorf("failed to check existing charge for subscription %d: %w", sub.ID, err)
		}
		if existing > 0 {
			continue
		}

		subID := sub.ID
		charge := models.Receivable{
			UserID:         sub.UserID,
			Description:    fmt.Sprintf("Mensalidade plano %s (%02d/%d)", sub.Plan.Name, period.Month(), period.Year()),
			Amount:         sub.Plan.Price,
			DueDate:        time.Date(period.Year(), period.Month(), subscriptionDueDay, 0, 0, 0, 0, period.Location()),
			Status:         models.ReceivableStatusPending,
			SubscriptionID: &subID,
		}
		if err := r.db.Create(&charge).Error; err != nil {
			return created, fmt.Errorf("failed to create charge for subscription %d: %w", sub.ID, err)
		}
		created++
	}

	return created, nil
}
