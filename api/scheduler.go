/*
scheduler.go - Daily advance billing scheduler

PURPOSE:
  Once a day, generates next month's rent obligations for every
  organization (look-ahead billing: tenants see next month's charge
  before it is due).

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Target month is always the calendar month AFTER the current one
  - Pure scheduling wrapper: all business logic lives in the
    orchestrator, which takes an explicit (organization, month) and is
    idempotent - re-running a day that already generated is a no-op of
    skips, and an aborted run is simply retried in full next time with
    no cleanup

CONFIGURATION:
  - CheckInterval: How often to run (default: 24 hours)
  - Enabled: Whether the scheduler is active (default: true)

USAGE:
  scheduler := NewAdvanceScheduler(store, handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: TriggerGeneration endpoint (manual trigger / backfill)
  - billing/orchestrator.go: The generation logic
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/lettings-engine/billing"
	"github.com/warp/lettings-engine/store/sqlite"
)

// AdvanceScheduler triggers look-ahead rent generation daily.
type AdvanceScheduler struct {
	Store         *sqlite.Store
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewAdvanceScheduler creates a new scheduler.
func NewAdvanceScheduler(store *sqlite.Store, handler *Handler) *AdvanceScheduler {
	return &AdvanceScheduler{
		Store:         store,
		Handler:       handler,
		CheckInterval: 24 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (as *AdvanceScheduler) Start() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if !as.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	as.ticker = time.NewTicker(as.CheckInterval)
	as.wg.Add(1)

	go as.run()

	log.Printf("[Scheduler] Started with check interval: %v", as.CheckInterval)
}

// Stop stops the scheduler.
func (as *AdvanceScheduler) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.ticker != nil {
		as.ticker.Stop()
		close(as.stop)
		as.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (as *AdvanceScheduler) run() {
	defer as.wg.Done()

	// Run immediately on start; generation is idempotent so an extra run
	// after a restart only produces skips.
	as.checkAndProcess()

	for {
		select {
		case <-as.ticker.C:
			as.checkAndProcess()
		case <-as.stop:
			return
		}
	}
}

func (as *AdvanceScheduler) checkAndProcess() {
	ctx := context.Background()
	target := TargetMonth(time.Now())

	log.Printf("[Scheduler] Generating rent for %s", target)

	orgs, err := as.Store.ListOrganizations(ctx)
	if err != nil {
		// Whole-run failure: log and wait for the next tick. Look-ahead
		// generation means tomorrow's run recovers everything.
		log.Printf("[Scheduler] Error listing organizations: %v", err)
		return
	}

	created, skipped, failures := 0, 0, 0
	for _, org := range orgs {
		report := as.Handler.RunGeneration(ctx, org.ID, target)
		if !report.Success {
			log.Printf("[Scheduler] Run failed for %s: %s", org.ID, report.Error)
			failures++
			continue
		}
		created += report.PaymentsCreated
		skipped += report.PaymentsSkipped
	}

	log.Printf("[Scheduler] Completed %s: %d created, %d skipped, %d failed orgs",
		target, created, skipped, failures)
}

// RunNow triggers an immediate run (for testing/admin).
func (as *AdvanceScheduler) RunNow() {
	as.checkAndProcess()
}

// TargetMonth returns the month the advance scheduler bills for at a
// given moment: the calendar month after the current one.
func TargetMonth(now time.Time) billing.Month {
	return billing.MonthOf(billing.DateOf(now)).Next()
}
