package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceivableOverdue(t *testing.T) {
	r := Receivable{
		Status:  ReceivableStatusPending,
		DueDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	}

	assert.False(t, r.IsOverdue(time.Date(2024, 6, 9, 23, 0, 0, 0, time.UTC)))
	assert.False(t, r.IsOverdue(time.Date(2024, 6, 10, 23, 59, 0, 0, time.UTC)), "due today is not overdue")
	assert.True(t, r.IsOverdue(time.Date(2024, 6, 11, 0, 1, 0, 0, time.UTC)))

	assert.Equal(t, 0, r.DaysOverdue(time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 5, r.DaysOverdue(time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, r.DaysOverdue(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)))
}

func TestReceivablePaidNeverOverdue(t *testing.T) {
	r := Receivable{
		Status:  ReceivableStatusPaid,
		DueDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.False(t, r.IsOverdue(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
}

func TestReceivableMarkPaid(t *testing.T) {
	r := Receivable{Status: ReceivableStatusPending}
	now := time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC)

	r.MarkPaid(now)

	assert.Equal(t, ReceivableStatusPaid, r.Status)
	require.NotNil(t, r.PaidAt)
	assert.Equal(t, now, *r.PaidAt)
}

func TestReceivableValidateAmount(t *testing.T) {
	clientID := uint(1)
	r := Receivable{
		UserID:      1,
		ClientID:    &clientID,
		Description: "Mensalidade",
		Amount:      decimal.RequireFromString("10.00"),
		DueDate:     time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Status:      ReceivableStatusPending,
	}
	assert.NoError(t, r.Validate())

	r.Amount = decimal.Zero
	assert.ErrorIs(t, r.Validate(), ErrNonPositiveAmount)

	r.Amount = decimal.RequireFromString("-5")
	assert.ErrorIs(t, r.Validate(), ErrNonPositiveAmount)
}
