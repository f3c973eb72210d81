package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTriggerDateFor(t *testing.T) {
	due := time.Date(2024, 6, 10, 17, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		rule PaymentReminder
		want time.Time
	}{
		{
			name: "before due",
			rule: PaymentReminder{TriggerType: TriggerBeforeDue, TriggerDays: 3},
			want: time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "on due",
			rule: PaymentReminder{TriggerType: TriggerOnDue},
			want: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "after due",
			rule: PaymentReminder{TriggerType: TriggerAfterDue, TriggerDays: 5},
			want: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "before due across month boundary",
			rule: PaymentReminder{TriggerType: TriggerBeforeDue, TriggerDays: 15},
			want: time.Date(2024, 5, 26, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rule.TriggerDateFor(due)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestPaymentReminderValidate(t *testing.T) {
	rule := PaymentReminder{
		UserID:          1,
		Name:            "Aviso",
		MessageTemplate: "Olá {cliente}",
		TriggerType:     TriggerBeforeDue,
		TriggerDays:     3,
		TriggerTime:     "09:00",
	}
	assert.NoError(t, rule.Validate())

	bad := rule
	bad.TriggerTime = "25:99"
	assert.Error(t, bad.Validate())

	bad = rule
	bad.TriggerType = "someday"
	assert.Error(t, bad.Validate())
}
