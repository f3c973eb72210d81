package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/Joelferreira98/SisFin/app/models"
	"github.com/Joelferreira98/SisFin/internal/pkg/notifier"
)

// ReminderStore is the slice of the reminder repository the scheduler needs.
type ReminderStore interface {
	OwnersWithActiveRules() ([]uint, error)
	ActiveByUser(userID uint) ([]models.PaymentReminder, error)
	LogExistsForDay(reminderID, receivableID uint, day time.Time) (bool, error)
	CreateLog(log *models.ReminderLog) error
}

// ReceivableStore is the slice of the receivable repository the scheduler needs.
type ReceivableStore interface {
	PendingByUser(userID uint) ([]models.Receivable, error)
}

// ReminderScheduler evaluates all active reminder rules against pending
// receivables on an hourly tick and dispatches due WhatsApp messages. Work is
// processed sequentially, user by user, rule by rule; per-pair failures are
// logged and never abort the tick.
type ReminderScheduler struct {
	reminders   ReminderStore
	receivables ReceivableStore
	dispatcher  notifier.Dispatcher

	interval time.Duration
	now      func() time.Time

	ticker  *time.Ticker
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewReminderScheduler creates a reminder scheduler with an hourly cadence.
func NewReminderScheduler(reminders ReminderStore, receivables ReceivableStore, dispatcher notifier.Dispatcher) *ReminderScheduler {
	return &ReminderScheduler{
		reminders:   reminders,
		receivables: receivables,
		dispatcher:  dispatcher,
		interval:    time.Hour,
		now:         time.Now,
	}
}

// SetClock overrides the scheduler's clock, used by tests to drive ticks
// deterministically.
func (s *ReminderScheduler) SetClock(now func() time.Time) {
	s.now = now
}

// Start launches the periodic tick loop. Calling Start on a running
// scheduler is a no-op.
func (s *ReminderScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.stopCh = make(chan struct{})
	s.running = true
	s.ticker = time.NewTicker(s.interval)

	s.wg.Add(1)
	go s.run()

	log.Info("[ReminderScheduler] Started (hourly)")
}

// Stop halts the tick loop and waits for an in-flight tick to finish.
// Calling Stop on a stopped scheduler is a no-op.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.ticker.Stop()
	close(s.stopCh)
	s.running = false
	s.wg.Wait()

	log.Info("[ReminderScheduler] Stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *ReminderScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *ReminderScheduler) run() {
	defer s.wg.Done()
	for {
		select {
		case <-s.stopCh:
			return
		case <-s.ticker.C:
			if err := s.ProcessReminders(context.Background(), false); err != nil {
				log.Errorf("[ReminderScheduler] Tick failed: %v", err)
			}
		}
	}
}

// ProcessReminders runs one full evaluation pass. With force set, the
// time-of-day equality check is skipped (manual test trigger); the date math
// and the once-per-day guard still apply.
func (s *ReminderScheduler) ProcessReminders(ctx context.Context, force bool) error {
	now := s.now()

	userIDs, err := s.reminders.OwnersWithActiveRules()
	if err != nil {
		return err
	}

	for _, userID := range userIDs {
		if err := s.processUser(ctx, userID, now, force); err != nil {
			// Data-access errors are terminal for this user only.
			log.Errorf("[ReminderScheduler] Skipping user %d: %v", userID, err)
		}
	}
	return nil
}

func (s *ReminderScheduler) processUser(ctx context.Context, userID uint, now time.Time, force bool) error {
	rules, err := s.reminders.ActiveByUser(userID)
	if err != nil {
		return err
	}
	if len(rules) == 0 {
		return nil
	}

	receivables, err := s.receivables.PendingByUser(userID)
	if err != nil {
		return err
	}

	for _, rule := range rules {
		if !force && !s.timeMatches(rule, now) {
			continue
		}
		for _, receivable := range receivables {
			if !s.dateMatches(rule, receivable, now) {
				continue
			}
			s.dispatchPair(ctx, rule, receivable, now)
		}
	}
	return nil
}

// timeMatches compares the rule's HH:MM trigger time against the current
// minute as formatted strings. A tick that misses the exact minute skips the
// rule until the next matching tick; that mirrors the configured cadence and
// is intentionally not widened into a tolerance window.
func (s *ReminderScheduler) timeMatches(rule models.PaymentReminder, now time.Time) bool {
	return now.Format("15:04") == rule.TriggerTime
}

func (s *ReminderScheduler) dateMatches(rule models.PaymentReminder, receivable models.Receivable, now time.Time) bool {
	return rule.TriggerDateFor(receivable.DueDate).Equal(models.DateOnly(now))
}

// dispatchPair renders and sends one reminder, writing a log row whether the
// dispatch succeeded or failed. The once-per-day guard is a read-before-write
// check against existing logs.
func (s *ReminderScheduler) dispatchPair(ctx context.Context, rule models.PaymentReminder, receivable models.Receivable, now time.Time) {
	exists, err := s.reminders.LogExistsForDay(rule.ID, receivable.ID, now)
	if err != nil {
		log.Errorf("[ReminderScheduler] Log lookup failed for rule %d / receivable %d: %v", rule.ID, receivable.ID, err)
		return
	}
	if exists {
		return
	}

	if receivable.Client == nil || !receivable.Client.HasWhatsApp() {
		// Subscription charges and clients without a phone have no channel.
		return
	}

	message := RenderTemplate(rule.MessageTemplate, ReminderData{
		ClientName:  receivable.Client.Name,
		Amount:      receivable.Amount,
		DueDate:     receivable.DueDate,
		Description: receivable.Description,
		DaysOverdue: receivable.DaysOverdue(now),
	})

	entry := models.ReminderLog{
		UserID:       rule.UserID,
		ReminderID:   rule.ID,
		ReceivableID: receivable.ID,
		ClientID:     receivable.Client.ID,
		Message:      message,
		Status:       models.ReminderLogStatusSent,
		SentAt:       now,
	}

	if err := s.dispatcher.SendText(ctx, rule.UserID, receivable.Client.Phone, message); err != nil {
		entry.Status = models.ReminderLogStatusFailed
		entry.ErrorMessage = err.Error()
		log.Errorf("[ReminderScheduler] Dispatch failed for rule %d / receivable %d: %v", rule.ID, receivable.ID, err)
	}

	if err := s.reminders.CreateLog(&entry); err != nil {
		log.Errorf("[ReminderScheduler] Failed to write reminder log for rule %d / receivable %d: %v", rule.ID, receivable.ID, err)
	}
}
