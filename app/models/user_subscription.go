package models

import "time"

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusExpired  = "expired"
)

// UserSubscription links a user to a plan for an active period. Active
// subscriptions are billed by the monthly billing scheduler.
type UserSubscription struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index:idx_user_subscriptions_user_status,priority:1" json:"user_id"`
	PlanID    uint       `gorm:"not null;index" json:"plan_id"`
	Plan      *Plan      `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Status    string     `gorm:"type:varchar(20);not null;default:'active';index:idx_user_subscriptions_user_status,priority:2" json:"status"`
	StartedAt time.Time  `gorm:"not null" json:"started_at"`
	ExpiresAt *time.Time `gorm:"type:timestamp;default:null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether the subscription entitles the user right now.
func (s *UserSubscription) IsActive(now time.Time) bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}
