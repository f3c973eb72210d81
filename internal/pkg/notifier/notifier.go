package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/Joelferreira98/SisFin/app/repository"
	"github.com/Joelferreira98/SisFin/internal/pkg/whatsapp"
)

// ErrChannelNotConfigured is returned when the owning user has no usable
// WhatsApp channel. Dispatch callers log it as a failed attempt.
var ErrChannelNotConfigured = errors.New("no whatsapp channel configured for user")

// Dispatcher sends a text message to a phone number on behalf of a user.
// The user selects the outbound channel (their gateway instance).
type Dispatcher interface {
	SendText(ctx context.Context, userID uint, phone, message string) error
}

// WhatsAppDispatcher selects the owner's gateway instance from user settings
// and delivers through the WhatsApp client.
type WhatsAppDispatcher struct {
	client   *whatsapp.Client
	settings repository.SettingsRepository
}

// NewWhatsAppDispatcher creates a dispatcher bound to a gateway client and
// the settings repository.
func NewWhatsAppDispatcher(client *whatsapp.Client, settings repository.SettingsRepository) *WhatsAppDispatcher {
	return &WhatsAppDispatcher{client: client, settings: settings}
}

// SendText implements Dispatcher.
func (d *WhatsAppDispatcher) SendText(ctx context.Context, userID uint, phone, message string) error {
	if d.client == nil {
		return whatsapp.ErrNotConfigured
	}
	if phone == "" {
		return errors.New("destination phone is empty")
	}

	settings, err := d.settings.GetByUser(userID)
	if err != nil {
		return fmt.Errorf("failed to load channel settings for user %d: %w", userID, err)
	}
	if !settings.HasWhatsAppChannel() {
		return ErrChannelNotConfigured
	}

	return d.client.SendText(ctx, settings.WhatsAppInstance, settings.WhatsAppAPIKey, phone, message)
}
