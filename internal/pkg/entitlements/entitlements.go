package entitlements

import (
	"github.com/Joelferreira98/SisFin/app/models"
)

// Default limits applied to users without an active subscription.
const (
	FreeMaxClients     = 10
	FreeMaxReceivables = 50
)

// Limits are the usage caps in effect for a user. Zero means unlimited.
type Limits struct {
	MaxClients     int
	MaxReceivables int
}

// ForSubscription derives the effective limits from an active subscription,
// falling back to the free tier when sub is nil or carries no plan.
func ForSubscription(sub *models.UserSubscription) Limits {
	if sub == nil || sub.Plan == nil {
		return Limits{MaxClients: FreeMaxClients, MaxReceivables: FreeMaxReceivables}
	}
	return Limits{
		MaxClients:     sub.Plan.MaxClients,
		MaxReceivables: sub.Plan.MaxReceivables,
	}
}

// CanCreateClient reports whether another client fits within the limits.
func (l Limits) CanCreateClient(current int64) bool {
	return l.MaxClients == 0 || current < int64(l.MaxClients)
}

// CanCreateReceivable reports whether another receivable fits within the limits.
func (l Limits) CanCreateReceivable(current int64) bool {
	return l.MaxReceivables == 0 || current < int64(l.MaxReceivables)
}
