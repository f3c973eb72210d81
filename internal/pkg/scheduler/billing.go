package scheduler

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// ChargeGenerator is the bulk fan-out the billing scheduler delegates to.
type ChargeGenerator interface {
	GenerateSubscriptionCharges(period time.Time) (int, error)
}

// BillingScheduler materializes the monthly subscription receivables. It
// ticks daily (plus once at startup) and only generates on the first day of
// the month; RunNow bypasses that guard for manual triggers.
type BillingScheduler struct {
	charges ChargeGenerator

	interval time.Duration
	now      func() time.Time

	ticker  *time.Ticker
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewBillingScheduler creates a billing scheduler with a daily cadence.
func NewBillingScheduler(charges ChargeGenerator) *BillingScheduler {
	return &BillingScheduler{
		charges:  charges,
		interval: 24 * time.Hour,
		now:      time.Now,
	}
}

// SetClock overrides the scheduler's clock for deterministic tests.
func (s *BillingScheduler) SetClock(now func() time.Time) {
	s.now = now
}

// Start launches the daily tick loop and runs one immediate pass. Calling
// Start on a running scheduler is a no-op.
func (s *BillingScheduler) Start() {
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

	log.Info("[BillingScheduler] Started (daily)")
}

// Stop halts the tick loop. Calling Stop on a stopped scheduler is a no-op.
func (s *BillingScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.ticker.Stop()
	close(s.stopCh)
	s.running = false
	s.wg.Wait()

	log.Info("[BillingScheduler] Stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *BillingScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *BillingScheduler) run() {
	defer s.wg.Done()

	// Immediate pass at startup, then daily.
	s.Tick()

	for {
		select {
		case <-s.stopCh:
			return
		case <-s.ticker.C:
			s.Tick()
		}
	}
}

// Tick runs one scheduled pass: a no-op unless today is the first day of the
// month. Errors are logged and swallowed; the next attempt is the next tick.
func (s *BillingScheduler) Tick() {
	now := s.now()
	if now.Day() != 1 {
		return
	}

	created, err := s.charges.GenerateSubscriptionCharges(now)
	if err != nil {
		log.Errorf("[BillingScheduler] Monthly generation failed: %v", err)
		return
	}
	log.Infof("[BillingScheduler] Generated %d subscription charges for %s", created, now.Format("01/2006"))
}

// RunNow generates charges for the current month regardless of the
// day-of-month guard (administrative manual trigger).
func (s *BillingScheduler) RunNow() (int, error) {
	return s.charges.GenerateSubscriptionCharges(s.now())
}
