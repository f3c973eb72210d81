package repository

import (
	"time"

	"github.com/Joelferreira98/SisFin/app/models"
	"gorm.io/gorm"
)

// reminderRepository implements the ReminderRepository interface
type reminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new reminder repository instance
func NewReminderRepository(db *gorm.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

// Create creates a new reminder rule in the database
func (r *reminderRepository) Create(reminder *models.PaymentReminder) error {
	return r.db.Create(reminder).Error
}

// GetByID retrieves a reminder rule by ID scoped to its owner
func (r *reminderRepository) GetByID(id, userID uint) (*models.PaymentReminder, error) {
	var reminder models.PaymentReminder
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&reminder).Error
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}

// ListByUser retrieves all reminder rules of a user
func (r *reminderRepository) ListByUser(userID uint) ([]models.PaymentReminder, error) {
	var reminders []models.PaymentReminder
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&reminders).Error
	return reminders, err
}

// ActiveByUser retrieves the active reminder rules of a user
func (r *reminderRepository) ActiveByUser(userID uint) ([]models.PaymentReminder, error) {
	var reminders []models.PaymentReminder
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).Find(&reminders).Error
	return reminders, err
}

// OwnersWithActiveRules returns the IDs of users owning at least one active
// reminder rule, the outer iteration unit of a scheduler tick.
func (r *reminderRepository) OwnersWithActiveRules() ([]uint, error) {
	var userIDs []uint
	err := r.db.Model(&models.PaymentReminder{}).
		Where("is_active = ?", true).
		Distinct().Pluck("user_id", &userIDs).Error
	return userIDs, err
}

// Update updates an existing reminder rule in the database
func (r *reminderRepository) Update(reminder *models.PaymentReminder) error {
	return r.db.Save(reminder).Error
}

// Delete soft deletes a reminder rule scoped to its owner
func (r *reminderRepository) Delete(id, userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.PaymentReminder{}, id).Error
}

// CreateLog appends a dispatch log row
func (r *reminderRepository) CreateLog(log *models.ReminderLog) error {
	return r.db.Create(log).Error
}

// LogExistsForDay reports whether a dispatch was already attempted for the
// (rule, receivable) pair on the calendar day containing day. This is the
// read side of the at-most-once-per-day guard; there is no transactional
// constraint behind it.
func (r *reminderRepository) LogExistsForDay(reminderID, receivableID uint, day time.Time) (bool, error) {
	dayStart := models.DateOnly(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int64
	err := r.db.Model(&models.ReminderLog{}).
		Where("reminder_id = ? AND receivable_id = ? AND sent_at >= ? AND sent_at < ?",
			reminderID, receivableID, dayStart, dayEnd).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListLogsByUser retrieves a paginated list of the user's dispatch logs
func (r *reminderRepository) ListLogsByUser(userID uint, offset, limit int) ([]models.ReminderLog, error) {
	var logs []models.ReminderLog
	err := r.db.Where("user_id = ?", userID).Order("sent_at DESC").Offset(offset).Limit(limit).Find(&logs).Error
	return logs, err
}
