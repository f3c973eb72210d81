package repository

import (
	"time"

	"github.com/Joelferreira98/SisFin/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// ClientRepository defines the interface for client-related database operations
type ClientRepository interface {
	Create(client *models.Client) error
	GetByID(id, userID uint) (*models.Client, error)
	ListByUser(userID uint, offset, limit int) ([]models.Client, error)
	CountByUser(userID uint) (int64, error)
	Search(userID uint, query string) ([]models.Client, error)
	Update(client *models.Client) error
	Delete(id, userID uint) error
}

// ReceivableRepository defines the interface for receivable operations,
// including the bulk monthly fan-out used by the billing scheduler.
type ReceivableRepository interface {
	Create(receivable *models.Receivable) error
	GetByID(id, userID uint) (*models.Receivable, error)
	ListByUser(userID uint, offset, limit int) ([]models.Receivable, error)
	CountByUser(userID uint) (int64, error)
	PendingByUser(userID uint) ([]models.Receivable, error)
	Update(receivable *models.Receivable) error
	Delete(id, userID uint) error
	SumByUserAndStatus(userID uint, status string) (float64, error)
	CountOverdueByUser(userID uint, now time.Time) (int64, error)
	GenerateSubscriptionCharges(period time.Time) (int, error)
}

// PayableRepository defines the interface for payable operations
type PayableRepository interface {
	Create(payable *models.Payable) error
	GetByID(id, userID uint) (*models.Payable, error)
	ListByUser(userID uint, offset, limit int) ([]models.Payable, error)
	Update(payable *models.Payable) error
	Delete(id, userID uint) error
	SumByUserAndStatus(userID uint, status string) (float64, error)
}

// ReminderRepository defines the interface for reminder rules and their
// append-only dispatch logs.
type ReminderRepository interface {
	Create(reminder *models.PaymentReminder) error
	GetByID(id, userID uint) (*models.PaymentReminder, error)
	ListByUser(userID uint) ([]models.PaymentReminder, error)
	ActiveByUser(userID uint) ([]models.PaymentReminder, error)
	OwnersWithActiveRules() ([]uint, error)
	Update(reminder *models.PaymentReminder) error
	Delete(id, userID uint) error
	CreateLog(log *models.ReminderLog) error
	LogExistsForDay(reminderID, receivableID uint, day time.Time) (bool, error)
	ListLogsByUser(userID uint, offset, limit int) ([]models.ReminderLog, error)
}

// SaleRepository defines the interface for installment-sale operations. The
// approval path runs in a single transaction so a sale is never marked
// approved without its receivables (or the other way around).
type SaleRepository interface {
	Create(sale *models.InstallmentSale) error
	GetByID(id, userID uint) (*models.InstallmentSale, error)
	GetByToken(token string) (*models.InstallmentSale, error)
	ListByUser(userID uint, offset, limit int) ([]models.InstallmentSale, error)
	Update(sale *models.InstallmentSale) error
	Delete(id, userID uint) error
	ApproveWithReceivables(sale *models.InstallmentSale, receivables []models.Receivable) error
}

// PlanRepository defines the interface for plan administration
type PlanRepository interface {
	Create(plan *models.Plan) error
	GetByID(id uint) (*models.Plan, error)
	ListActive() ([]models.Plan, error)
	ListAll() ([]models.Plan, error)
	Update(plan *models.Plan) error
	Delete(id uint) error
}

// SubscriptionRepository defines the interface for user subscriptions
type SubscriptionRepository interface {
	Create(sub *models.UserSubscription) error
	GetActiveByUser(userID uint) (*models.UserSubscription, error)
	ListActive() ([]models.UserSubscription, error)
	Update(sub *models.UserSubscription) error
	Cancel(id, userID uint) error
}

// SettingsRepository defines the interface for per-user channel settings
type SettingsRepository interface {
	GetByUser(userID uint) (*models.UserSettings, error)
	Save(settings *models.UserSettings) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Client       ClientRepository
	Receivable   ReceivableRepository
	Payable      PayableRepository
	Reminder     ReminderRepository
	Sale         SaleRepository
	Plan         PlanRepository
	Subscription SubscriptionRepository
	Settings     SettingsRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Client:       NewClientRepository(db),
		Receivable:   NewReceivableRepository(db),
		Payable:      NewPayableRepository(db),
		Reminder:     NewReminderRepository(db),
		Sale:         NewSaleRepository(db),
		Plan:         NewPlanRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Settings:     NewSettingsRepository(db),
	}
}
