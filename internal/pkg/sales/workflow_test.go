package sales

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Joelferreira98/SisFin/app/models"
)

type fakeSaleStore struct {
	sales    map[uint]*models.InstallmentSale
	approved []models.Receivable
}

func newFakeSaleStore(sales ...*models.InstallmentSale) *fakeSaleStore {
	m := make(map[uint]*models.InstallmentSale)
	for _, s := range sales {
		m[s.ID] = s
	}
	return &fakeSaleStore{sales: m}
}

func (f *fakeSaleStore) GetByID(id, userID uint) (*models.InstallmentSale, error) {
	s, ok := f.sales[id]
	if !ok || s.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSaleStore) GetByToken(token string) (*models.InstallmentSale, error) {
	for _, s := range f.sales {
		if s.ConfirmationToken == token {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSaleStore) Update(sale *models.InstallmentSale) error {
	cp := *sale
	f.sales[sale.ID] = &cp
	return nil
}

func (f *fakeSaleStore) ApproveWithReceivables(sale *models.InstallmentSale, receivables []models.Receivable) error {
	cp := *sale
	f.sales[sale.ID] = &cp
	f.approved = append(f.approved, receivables...)
	return nil
}

type noopDispatcher struct{}

func (noopDispatcher) SendText(context.Context, uint, string, string) error { return nil }

func testSale(status string) *models.InstallmentSale {
	return &models.InstallmentSale{
		ID:                1,
		UserID:            1,
		ClientID:          7,
		Description:       "Notebook",
		TotalAmount:       decimal.RequireFromString("1200.00"),
		InstallmentCount:  12,
		InstallmentValue:  decimal.RequireFromString("100.00"),
		FirstDueDate:      time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC),
		ConfirmationToken: "tok-123",
		Status:            status,
	}
}

func newTestWorkflow(store SaleStore) *Workflow {
	w := NewWorkflow(store, noopDispatcher{})
	w.SetClock(func() time.Time { return time.Date(2024, 6, 20, 10, 0, 0, 0, time.UTC) })
	return w
}

func TestConfirmByToken(t *testing.T) {
	store := newFakeSaleStore(testSale(models.SaleStatusPending))
	w := newTestWorkflow(store)

	sale, err := w.ConfirmByToken(context.Background(), "tok-123", "photo.jpg")
	require.NoError(t, err)

	assert.Equal(t, models.SaleStatusConfirmed, sale.Status)
	assert.Equal(t, "photo.jpg", sale.DocumentPhoto)
	require.NotNil(t, sale.ClientSignedAt)

	stored := store.sales[1]
	assert.Equal(t, models.SaleStatusConfirmed, stored.Status)
}

func TestConfirmByTokenUnknownToken(t *testing.T) {
	store := newFakeSaleStore(testSale(models.SaleStatusPending))
	w := newTestWorkflow(store)

	_, err := w.ConfirmByToken(context.Background(), "nope", "")
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestConfirmByTokenSecondAttemptRejected(t *testing.T) {
	store := newFakeSaleStore(testSale(models.SaleStatusPending))
	w := newTestWorkflow(store)

	first, err := w.ConfirmByToken(context.Background(), "tok-123", "photo.jpg")
	require.NoError(t, err)
	firstSignedAt := *first.ClientSignedAt

	w.SetClock(func() time.Time { return time.Date(2024, 6, 21, 10, 0, 0, 0, time.UTC) })
	_, err = w.ConfirmByToken(context.Background(), "tok-123", "other.jpg")
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	// The stored sale keeps the first signature.
	stored := store.sales[1]
	assert.Equal(t, firstSignedAt, *stored.ClientSignedAt)
	assert.Equal(t, "photo.jpg", stored.DocumentPhoto)
}

func TestApproveGeneratesInstallments(t *testing.T) {
	store := newFakeSaleStore(testSale(models.SaleStatusConfirmed))
	w := newTestWorkflow(store)

	sale, err := w.Approve(context.Background(), 1, 1, "ok")
	require.NoError(t, err)
	assert.Equal(t, models.SaleStatusApproved, sale.Status)
	require.NotNil(t, sale.ReviewedAt)

	require.Len(t, store.approved, 12)
	for i, r := range store.approved {
		assert.True(t, r.Amount.Equal(decimal.RequireFromString("100.00")), "installment %d amount", i+1)
		assert.Equal(t, models.ReceivableStatusPending, r.Status)
		require.NotNil(t, r.InstallmentNumber)
		assert.Equal(t, i+1, *r.InstallmentNumber)
		wantDue := time.Date(2024, time.Month(7+i), 10, 0, 0, 0, 0, time.UTC)
		assert.True(t, r.DueDate.Equal(wantDue), "installment %d due %s, want %s", i+1, r.DueDate, wantDue)
	}
	assert.Equal(t, "Notebook (1/12)", store.approved[0].Description)
}

func TestApproveRequiresConfirmedState(t *testing.T) {
	for _, status := range []string{models.SaleStatusPending, models.SaleStatusApproved, models.SaleStatusRejected} {
		store := newFakeSaleStore(testSale(status))
		w := newTestWorkflow(store)

		_, err := w.Approve(context.Background(), 1, 1, "")
		assert.ErrorIs(t, err, ErrInvalidState, "status %s", status)
		assert.Empty(t, store.approved)
	}
}

func TestApproveUnknownSale(t *testing.T) {
	w := newTestWorkflow(newFakeSaleStore())
	_, err := w.Approve(context.Background(), 1, 99, "")
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestApproveWrongOwner(t *testing.T) {
	store := newFakeSaleStore(testSale(models.SaleStatusConfirmed))
	w := newTestWorkflow(store)

	_, err := w.Approve(context.Background(), 2, 1, "")
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestReject(t *testing.T) {
	store := newFakeSaleStore(testSale(models.SaleStatusConfirmed))
	w := newTestWorkflow(store)

	sale, err := w.Reject(context.Background(), 1, 1, "documento ilegível")
	require.NoError(t, err)
	assert.Equal(t, models.SaleStatusRejected, sale.Status)
	assert.Equal(t, "documento ilegível", sale.ReviewNotes)
	assert.Empty(t, store.approved)
}

func TestRegenerateTokenReopensFlow(t *testing.T) {
	rejected := testSale(models.SaleStatusRejected)
	signedAt := time.Date(2024, 6, 18, 0, 0, 0, 0, time.UTC)
	rejected.ClientSignedAt = &signedAt
	rejected.DocumentPhoto = "old.jpg"
	rejected.ReviewNotes = "ruim"
	store := newFakeSaleStore(rejected)
	w := newTestWorkflow(store)

	sale, err := w.RegenerateToken(context.Background(), 1, 1)
	require.NoError(t, err)

	assert.Equal(t, models.SaleStatusPending, sale.Status)
	assert.NotEqual(t, "tok-123", sale.ConfirmationToken)
	assert.NotEmpty(t, sale.ConfirmationToken)
	assert.Nil(t, sale.ClientSignedAt)
	assert.Empty(t, sale.DocumentPhoto)
	assert.Empty(t, sale.ReviewNotes)

	// The old token no longer resolves.
	_, err = w.GetByToken("tok-123")
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestRegenerateTokenImpossibleAfterApproval(t *testing.T) {
	store := newFakeSaleStore(testSale(models.SaleStatusApproved))
	w := newTestWorkflow(store)

	_, err := w.RegenerateToken(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestBuildInstallmentsLastAbsorbsRemainder(t *testing.T) {
	sale := testSale(models.SaleStatusConfirmed)
	sale.TotalAmount = decimal.RequireFromString("100.00")
	sale.InstallmentCount = 3

	receivables := BuildInstallments(sale)
	require.Len(t, receivables, 3)

	assert.True(t, receivables[0].Amount.Equal(decimal.RequireFromString("33.33")))
	assert.True(t, receivables[1].Amount.Equal(decimal.RequireFromString("33.33")))
	assert.True(t, receivables[2].Amount.Equal(decimal.RequireFromString("33.34")))

	sum := decimal.Zero
	for _, r := range receivables {
		sum = sum.Add(r.Amount)
	}
	assert.True(t, sum.Equal(sale.TotalAmount))
}

func TestBuildInstallmentsSingle(t *testing.T) {
	sale := testSale(models.SaleStatusConfirmed)
	sale.TotalAmount = decimal.RequireFromString("250.00")
	sale.InstallmentCount = 1

	receivables := BuildInstallments(sale)
	require.Len(t, receivables, 1)
	assert.True(t, receivables[0].Amount.Equal(sale.TotalAmount))
	assert.True(t, receivables[0].DueDate.Equal(models.DateOnly(sale.FirstDueDate)))
}

func TestBuildInstallmentsMonthEndDates(t *testing.T) {
	sale := testSale(models.SaleStatusConfirmed)
	sale.InstallmentCount = 3
	sale.FirstDueDate = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	receivables := BuildInstallments(sale)
	require.Len(t, receivables, 3)

	// AddDate normalizes Jan 31 + 1 month to Mar 2.
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), receivables[0].DueDate)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), receivables[1].DueDate)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), receivables[2].DueDate)
}
