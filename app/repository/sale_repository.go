package repository

import (
	"fmt"

	"github.com/Joelferreira98/SisFin/app/models"
	"gorm.io/gorm"
)

// saleRepository implements the SaleRepository interface
type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new installment-sale repository instance
func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

// Create creates a new installment sale in the database
func (r *saleRepository) Create(sale *models.InstallmentSale) error {
	return r.db.Create(sale).Error
}

// GetByID retrieves a sale by ID scoped to its owner
func (r *saleRepository) GetByID(id, userID uint) (*models.InstallmentSale, error) {
	var sale models.InstallmentSale
	err := r.db.Preload("Client").Where("id = ? AND user_id = ?", id, userID).First(&sale).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// GetByToken retrieves a sale by its public confirmation token
func (r *saleRepository) GetByToken(token string) (*models.InstallmentSale, error) {
	var sale models.InstallmentSale
	err := r.db.Preload("Client").Where("confirmation_token = ?", token).First(&sale).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListByUser retrieves a paginated list of the user's installment sales
func (r *saleRepository) ListByUser(userID uint, offset, limit int) ([]models.InstallmentSale, error) {
	var sales []models.InstallmentSale
	err := r.db.Preload("Client").Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&sales).Error
	return sales, err
}

// Update updates an existing sale in the database
func (r *saleRepository) Update(sale *models.InstallmentSale) error {
	return r.db.Save(sale).Error
}

// Delete soft deletes a sale scoped to its owner
func (r *saleRepository) Delete(id, userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.InstallmentSale{}, id).Error
}

// ApproveWithReceivables persists the approved sale and its generated
// installment receivables in one transaction. Either both land or neither
// does.
func (r *saleRepository) ApproveWithReceivables(sale *models.InstallmentSale, receivables []models.Receivable) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(sale).Error; err != nil {
			return fmt.Errorf("failed to save approved sale %d: %w", sale.ID, err)
		}
		for i := range receivables {
			if err := tx.Create(&receivables[i]).Error; err != nil {
				return fmt.Errorf("failed to create installment %d of sale %d: %w", i+1, sale.ID, err)
			}
		}
		return nil
	})
}
