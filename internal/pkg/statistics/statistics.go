package statistics

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/Joelferreira98/SisFin/app/models"
	"github.com/Joelferreira98/SisFin/app/repository"
	"github.com/Joelferreira98/SisFin/internal/pkg/cache"
)

const (
	cacheKeyDashboard = "statistics:dashboard:%d" // per user id
	cacheExpiration   = 5 * time.Minute
)

// DashboardData summarizes a user's financial position for the dashboard.
type DashboardData struct {
	ClientCount       int64   `json:"client_count"`
	PendingReceivable float64 `json:"pending_receivable"`
	PaidReceivable    float64 `json:"paid_receivable"`
	PendingPayable    float64 `json:"pending_payable"`
	OverdueCount      int64   `json:"overdue_count"`
}

// GetDashboard returns the user's dashboard summary, served from the Redis
// cache when fresh.
func GetDashboard(repos *repository.Repositories, userID uint) (*DashboardData, error) {
	key := fmt.Sprintf(cacheKeyDashboard, userID)
	if cached, err := cache.Get(key); err == nil {
		var data DashboardData
		if err := json.Unmarshal([]byte(cached), &data); err == nil {
			return &data, nil
		}
	}

	data, err := computeDashboard(repos, userID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(data); err == nil {
		if err := cache.Set(key, payload, cacheExpiration); err != nil {
			log.Debugf("[Statistics] Failed to cache dashboard for user %d: %v", userID, err)
		}
	}
	return data, nil
}

// InvalidateDashboard drops the cached summary after a mutating operation.
func InvalidateDashboard(userID uint) {
	if err := cache.Delete(fmt.Sprintf(cacheKeyDashboard, userID)); err != nil {
		log.Debugf("[Statistics] Failed to invalidate dashboard for user %d: %v", userID, err)
	}
}

func computeDashboard(repos *repository.Repositories, userID uint) (*DashboardData, error) {
	clientCount, err := repos.Client.CountByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}

	pendingReceivable, err := repos.Receivable.SumByUserAndStatus(userID, models.ReceivableStatusPending)
	if err != nil {
		return nil, err
	}
	paidReceivable, err := repos.Receivable.SumByUserAndStatus(userID, models.ReceivableStatusPaid)
	if err != nil {
		return nil, err
	}
	pendingPayable, err := repos.Payable.SumByUserAndStatus(userID, models.PayableStatusPending)
	if err != nil {
		return nil, err
	}
	overdueCount, err := repos.Receivable.CountOverdueByUser(userID, time.Now())
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		ClientCount:       clientCount,
		PendingReceivable: pendingReceivable,
		PaidReceivable:    paidReceivable,
		PendingPayable:    pendingPayable,
		OverdueCount:      overdueCount,
	}, nil
}
