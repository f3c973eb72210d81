package repository

import (
	"fmt"

	"github.com/Joelferreira98/SisFin/app/models"
	"gorm.io/gorm"
)

// payableRepository implements the PayableRepository interface
type payableRepository struct {
	db *gorm.DB
}

// NewPayableRepository creates a new payable repository instance
func NewPayableRepository(db *gorm.DB) PayableRepository {
	return &payableRepository{db: db}
}

// Create creates a new payable in the database
func (r *payableRepository) Create(payable *models.Payable) error {
	return r.db.Create(payable).Error
}

// GetByID retrieves a payable by ID scoped to its owner
func (r *payableRepository) GetByID(id, userID uint) (*models.Payable, error) {
	var payable models.Payable
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&payable).Error
	if err != nil {
		return nil, err
	}
	return &payable, nil
}

// ListByUser retrieves a paginated list of the user's payables
func (r *payableRepository) ListByUser(userID uint, offset, limit int) ([]models.Payable, error) {
	var payables []models.Payable
	err := r.db.Where("user_id = ?", userID).Order("due_date ASC").Offset(offset).Limit(limit).Find(&payables).Error
	return payables, err
}

// Update updates an existing payable in the database
func (r *payableRepository) Update(payable *models.Payable) error {
	return r.db.Save(payable).Error
}

// Delete soft deletes a payable scoped to its owner
func (r *payableRepository) Delete(id, userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Payable{}, id).Error
}

// SumByUserAndStatus sums payable amounts for a user and status
func (r *payableRepository) SumByUserAndStatus(userID uint, status string) (float64, error) {
	var total float64
	err := r.db.Model(&models.Payable{}).
		Where("user_id = ? AND status = ?", userID, status).
		Select("COALESCE(SUM(amount), 0)").Row().Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum payables: %w", err)
	}
	return total, nil
}
