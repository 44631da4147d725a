/*
scheduler.go - Periodic monthly-report generator

PURPOSE:
  Once a calendar month has closed, regenerates that month's report for
  every trainee so admins read fresh figures without triggering the
  computation by hand. Reports are derived caches, so regenerating an
  already-generated month is harmless.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Each tick targets the previous calendar month (the last closed one)
  - Skips the tick when that month was already generated this run

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether the scheduler is active (default: true)

USAGE:
  scheduler := NewReportScheduler(summaries, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: GetMonthlyReport (on-demand regeneration)
  - tracking/summaries.go: RefreshAllMonthly
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/trainee-engine/tracking"
)

// ReportScheduler regenerates last month's reports in the background.
type ReportScheduler struct {
	Summaries     *tracking.SummaryService
	Logger        *logrus.Logger
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex

	// now is injectable so tests can pin the wall clock.
	now func() time.Time

	lastGenerated string // "YYYY-MM" of the most recently generated month
}

// NewReportScheduler creates a new scheduler.
func NewReportScheduler(summaries *tracking.SummaryService, logger *logrus.Logger) *ReportScheduler {
	return &ReportScheduler{
		Summaries:     summaries,
		Logger:        logger,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		now:           time.Now,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (rs *ReportScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.Logger.Info("report scheduler disabled, not starting")
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.wg.Add(1)

	go rs.run()

	rs.Logger.WithField("interval", rs.CheckInterval.String()).Info("report scheduler started")
}

// Stop stops the scheduler.
func (rs *ReportScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.Logger.Info("report scheduler stopped")
	}
}

func (rs *ReportScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.generate()

	for {
		select {
		case <-rs.ticker.C:
			rs.generate()
		case <-rs.stop:
			return
		}
	}
}

func (rs *ReportScheduler) generate() {
	ctx := context.Background()

	// Target the last closed calendar month. AddDate normalizes
	// nonexistent dates (Mar 31 minus one month lands in early March),
	// so subtract a day from the first of the current month instead.
	now := rs.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	target := first.AddDate(0, 0, -1)
	key := target.Format("2006-01")

	rs.mu.Lock()
	done := rs.lastGenerated == key
	rs.mu.Unlock()
	if done {
		return
	}

	n, err := rs.Summaries.RefreshAllMonthly(ctx, target.Year(), target.Month())
	if err != nil {
		rs.Logger.WithError(err).Error("monthly report generation failed")
		return
	}

	rs.mu.Lock()
	rs.lastGenerated = key
	rs.mu.Unlock()

	rs.Logger.WithFields(logrus.Fields{"month": key, "reports": n}).Info("monthly reports generated")
}
