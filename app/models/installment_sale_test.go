package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstallmentSaleStateHelpers(t *testing.T) {
	s := InstallmentSale{Status: SaleStatusPending}
	assert.True(t, s.CanConfirm())
	assert.False(t, s.CanReview())
	assert.False(t, s.IsTerminal())

	s.Status = SaleStatusConfirmed
	assert.False(t, s.CanConfirm())
	assert.True(t, s.CanReview())
	assert.False(t, s.IsTerminal())

	s.Status = SaleStatusApproved
	assert.False(t, s.CanConfirm())
	assert.False(t, s.CanReview())
	assert.True(t, s.IsTerminal())

	s.Status = SaleStatusRejected
	assert.True(t, s.IsTerminal())
}

func TestGenerateConfirmationToken(t *testing.T) {
	s := InstallmentSale{}
	s.GenerateConfirmationToken()
	first := s.ConfirmationToken
	assert.NotEmpty(t, first)

	s.GenerateConfirmationToken()
	assert.NotEqual(t, first, s.ConfirmationToken)
}
