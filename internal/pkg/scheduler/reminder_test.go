package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joelferreira98/SisFin/app/models"
)

type fakeReminderStore struct {
	rules []models.PaymentReminder
	logs  []models.ReminderLog
}

func (f *fakeReminderStore) OwnersWithActiveRules() ([]uint, error) {
	seen := map[uint]bool{}
	var ids []uint
	for _, r := range f.rules {
		if r.IsActive && !seen[r.UserID] {
			seen[r.UserID] = true
			ids = append(ids, r.UserID)
		}
	}
	return ids, nil
}

func (f *fakeReminderStore) ActiveByUser(userID uint) ([]models.PaymentReminder, error) {
	var out []models.PaymentReminder
	for _, r := range f.rules {
		if r.UserID == userID && r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReminderStore) LogExistsForDay(reminderID, receivableID uint, day time.Time) (bool, error) {
	want := models.DateOnly(day)
	for _, l := range f.logs {
		if l.ReminderID == reminderID && l.ReceivableID == receivableID && models.DateOnly(l.SentAt).Equal(want) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReminderStore) CreateLog(log *models.ReminderLog) error {
	f.logs = append(f.logs, *log)
	return nil
}

type fakeReceivableStore struct {
	receivables []models.Receivable
}

func (f *fakeReceivableStore) PendingByUser(userID uint) ([]models.Receivable, error) {
	var out []models.Receivable
	for _, r := range f.receivables {
		if r.UserID == userID && r.Status == models.ReceivableStatusPending {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeDispatcher struct {
	sent []string
	err  error
}

func (f *fakeDispatcher) SendText(_ context.Context, _ uint, _, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, message)
	return nil
}

func testClient() *models.Client {
	return &models.Client{ID: 7, UserID: 1, Name: "Maria", Phone: "+5511999990000"}
}

func testReceivable() models.Receivable {
	return models.Receivable{
		ID:          20,
		UserID:      1,
		Client:      testClient(),
		Description: "Mensalidade",
		Amount:      decimal.RequireFromString("150.00"),
		DueDate:     time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Status:      models.ReceivableStatusPending,
	}
}

func testRule() models.PaymentReminder {
	return models.PaymentReminder{
		ID:              10,
		UserID:          1,
		Name:            "Aviso 3 dias antes",
		MessageTemplate: "Olá {cliente}, {descricao} de {valor} vence em {vencimento}.",
		TriggerType:     models.TriggerBeforeDue,
		TriggerDays:     3,
		TriggerTime:     "09:00",
		IsActive:        true,
	}
}

func newTestScheduler(reminders *fakeReminderStore, receivables *fakeReceivableStore, dispatcher *fakeDispatcher, now time.Time) *ReminderScheduler {
	s := NewReminderScheduler(reminders, receivables, dispatcher)
	s.SetClock(func() time.Time { return now })
	return s
}

func TestProcessRemindersDispatchesDueRule(t *testing.T) {
	reminders := &fakeReminderStore{rules: []models.PaymentReminder{testRule()}}
	receivables := &fakeReceivableStore{receivables: []models.Receivable{testReceivable()}}
	dispatcher := &fakeDispatcher{}

	// Due 2024-06-10, rule fires 3 days before at 09:00.
	now := time.Date(2024, 6, 7, 9, 0, 0, 0, time.UTC)
	s := newTestScheduler(reminders, receivables, dispatcher, now)

	require.NoError(t, s.ProcessReminders(context.Background(), false))

	require.Len(t, dispatcher.sent, 1)
	assert.Contains(t, dispatcher.sent[0], "Maria")
	assert.Contains(t, dispatcher.sent[0], "150,00")
	assert.Contains(t, dispatcher.sent[0], "10/06/2024")

	require.Len(t, reminders.logs, 1)
	assert.Equal(t, models.ReminderLogStatusSent, reminders.logs[0].Status)
	assert.Equal(t, uint(10), reminders.logs[0].ReminderID)
	assert.Equal(t, uint(20), reminders.logs[0].ReceivableID)
}

func TestProcessRemindersSkipsWrongTime(t *testing.T) {
	reminders := &fakeReminderStore{rules: []models.PaymentReminder{testRule()}}
	receivables := &fakeReceivableStore{receivables: []models.Receivable{testReceivable()}}
	dispatcher := &fakeDispatcher{}

	now := time.Date(2024, 6, 7, 10, 0, 0, 0, time.UTC)
	s := newTestScheduler(reminders, receivables, dispatcher, now)

	require.NoError(t, s.ProcessReminders(context.Background(), false))
	assert.Empty(t, dispatcher.sent)
	assert.Empty(t, reminders.logs)
}

func TestProcessRemindersForceBypassesTimeOnly(t *testing.T) {
	reminders := &fakeReminderStore{rules: []models.PaymentReminder{testRule()}}
	receivables := &fakeReceivableStore{receivables: []models.Receivable{testReceivable()}}
	dispatcher := &fakeDispatcher{}

	// Right date, wrong time of day.
	now := time.Date(2024, 6, 7, 14, 30, 0, 0, time.UTC)
	s := newTestScheduler(reminders, receivables, dispatcher, now)

	require.NoError(t, s.ProcessReminders(context.Background(), true))
	require.Len(t, dispatcher.sent, 1)

	// Wrong date stays skipped even with force.
	dispatcher.sent = nil
	reminders.logs = nil
	s.SetClock(func() time.Time { return time.Date(2024, 6, 8, 14, 30, 0, 0, time.UTC) })
	require.NoError(t, s.ProcessReminders(context.Background(), true))
	assert.Empty(t, dispatcher.sent)
}

func TestProcessRemindersOncePerDay(t *testing.T) {
	reminders := &fakeReminderStore{rules: []models.PaymentReminder{testRule()}}
	receivables := &fakeReceivableStore{receivables: []models.Receivable{testReceivable()}}
	dispatcher := &fakeDispatcher{}

	now := time.Date(2024, 6, 7, 9, 0, 0, 0, time.UTC)
	s := newTestScheduler(reminders, receivables, dispatcher, now)

	require.NoError(t, s.ProcessReminders(context.Background(), false))
	require.NoError(t, s.ProcessReminders(context.Background(), false))

	assert.Len(t, dispatcher.sent, 1)
	assert.Len(t, reminders.logs, 1)
}

func TestProcessRemindersFailureWritesFailedLog(t *testing.T) {
	reminders := &fakeReminderStore{rules: []models.PaymentReminder{testRule()}}
	receivables := &fakeReceivableStore{receivables: []models.Receivable{testReceivable()}}
	dispatcher := &fakeDispatcher{err: errors.New("gateway timeout")}

	now := time.Date(2024, 6, 7, 9, 0, 0, 0, time.UTC)
	s := newTestScheduler(reminders, receivables, dispatcher, now)

	require.NoError(t, s.ProcessReminders(context.Background(), false))

	require.Len(t, reminders.logs, 1)
	assert.Equal(t, models.ReminderLogStatusFailed, reminders.logs[0].Status)
	assert.Equal(t, "gateway timeout", reminders.logs[0].ErrorMessage)
}

func TestProcessRemindersSkipsReceivableWithoutChannel(t *testing.T) {
	noPhone := testReceivable()
	noPhone.ID = 21
	noPhone.Client = &models.Client{ID: 8, UserID: 1, Name: "Sem Telefone"}

	subscriptionCharge := testReceivable()
	subscriptionCharge.ID = 22
	subscriptionCharge.Client = nil
	subscriptionCharge.ClientID = nil

	reminders := &fakeReminderStore{rules: []models.PaymentReminder{testRule()}}
	receivables := &fakeReceivableStore{receivables: []models.Receivable{noPhone, subscriptionCharge}}
	dispatcher := &fakeDispatcher{}

	now := time.Date(2024, 6, 7, 9, 0, 0, 0, time.UTC)
	s := newTestScheduler(reminders, receivables, dispatcher, now)

	require.NoError(t, s.ProcessReminders(context.Background(), false))
	assert.Empty(t, dispatcher.sent)
	assert.Empty(t, reminders.logs)
}

func TestProcessRemindersOnDueAndAfterDue(t *testing.T) {
	onDue := testRule()
	onDue.ID = 11
	onDue.TriggerType = models.TriggerOnDue
	onDue.TriggerDays = 0

	afterDue := testRule()
	afterDue.ID = 12
	afterDue.TriggerType = models.TriggerAfterDue
	afterDue.TriggerDays = 5
	afterDue.MessageTemplate = "Atrasado há {dias_atraso} dias"

	reminders := &fakeReminderStore{rules: []models.PaymentReminder{onDue, afterDue}}
	receivables := &fakeReceivableStore{receivables: []models.Receivable{testReceivable()}}
	dispatcher := &fakeDispatcher{}

	s := newTestScheduler(reminders, receivables, dispatcher, time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, s.ProcessReminders(context.Background(), false))
	require.Len(t, dispatcher.sent, 1)

	s.SetClock(func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC) })
	require.NoError(t, s.ProcessReminders(context.Background(), false))
	require.Len(t, dispatcher.sent, 2)
	assert.Equal(t, "Atrasado há 5 dias", dispatcher.sent[1])
}

func TestReminderSchedulerStartStop(t *testing.T) {
	s := NewReminderScheduler(&fakeReminderStore{}, &fakeReceivableStore{}, &fakeDispatcher{})

	assert.False(t, s.IsRunning())

	s.Start()
	assert.True(t, s.IsRunning())

	// Second Start is a no-op.
	s.Start()
	assert.True(t, s.IsRunning())

	s.Stop()
	assert.False(t, s.IsRunning())

	// Stop on a stopped scheduler is safe.
	s.Stop()
	assert.False(t, s.IsRunning())
}
