package api

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/trainee-engine/engine"
	"github.com/warp/trainee-engine/engine/store"
	"github.com/warp/trainee-engine/tracking"
)

func schedulerFixture(t *testing.T) (*store.Memory, *ReportScheduler) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	mem := store.NewMemory()
	return mem, NewReportScheduler(tracking.NewSummaryService(mem, logger), logger)
}

func lastMonth() (int, time.Month, engine.Date) {
	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	target := first.AddDate(0, 0, -1)
	return target.Year(), target.Month(), engine.NewDate(target.Year(), target.Month(), 10)
}

func TestReportScheduler_GeneratesLastClosedMonth(t *testing.T) {
	mem, rs := schedulerFixture(t)
	ctx := context.Background()

	year, month, recDate := lastMonth()

	tr := engine.Trainee{
		ID:                 "tr-ojt",
		Name:               "Sam",
		Type:               engine.TypeOJT,
		TotalRequiredHours: engine.DecPtr(500),
		StartDate:          recDate.AddDays(-60),
		Status:             engine.TraineeActive,
	}
	require.NoError(t, mem.SaveTrainee(ctx, tr))

	rec, err := engine.WithComputedHours(engine.TimeRecord{
		ID:        "rec-1",
		TraineeID: tr.ID,
		Date:      recDate,
		AMTimeIn:  engine.MustClock("08:00"),
		AMTimeOut: engine.MustClock("12:00"),
		Status:    engine.StatusHalfDayAM,
	})
	require.NoError(t, err)
	require.NoError(t, mem.CreateTimeRecord(ctx, rec))

	rs.generate()

	report, err := mem.GetMonthlyReport(ctx, tr.ID, year, int(month))
	require.NoError(t, err)
	assert.Equal(t, "4.00", report.TotalHoursWorked.StringFixed(2))
}

func TestReportScheduler_SkipsAlreadyGeneratedMonth(t *testing.T) {
	mem, rs := schedulerFixture(t)
	ctx := context.Background()

	year, month, recDate := lastMonth()

	tr := engine.Trainee{
		ID:                 "tr-ojt",
		Name:               "Sam",
		Type:               engine.TypeOJT,
		TotalRequiredHours: engine.DecPtr(500),
		StartDate:          recDate.AddDays(-60),
		Status:             engine.TraineeActive,
	}
	require.NoError(t, mem.SaveTrainee(ctx, tr))

	rs.generate()

	// A record added after the month was generated is not picked up until
	// the next process run; the tick is a no-op for a generated month.
	rec, err := engine.WithComputedHours(engine.TimeRecord{
		ID:        "rec-late",
		TraineeID: tr.ID,
		Date:      recDate,
		AMTimeIn:  engine.MustClock("08:00"),
		AMTimeOut: engine.MustClock("12:00"),
		Status:    engine.StatusHalfDayAM,
	})
	require.NoError(t, err)
	require.NoError(t, mem.CreateTimeRecord(ctx, rec))

	rs.generate()

	report, err := mem.GetMonthlyReport(ctx, tr.ID, year, int(month))
	require.NoError(t, err)
	assert.True(t, report.TotalHoursWorked.IsZero())
}

func TestReportScheduler_TargetsClosedMonthAtMonthEnd(t *testing.T) {
	// March 31 follows a 28-day February; naive month subtraction from
	// the wall clock would land in March and generate the open month.
	mem, rs := schedulerFixture(t)
	ctx := context.Background()

	rs.now = func() time.Time {
		return time.Date(2027, time.March, 31, 12, 0, 0, 0, time.UTC)
	}

	tr := engine.Trainee{
		ID:                 "tr-ojt",
		Name:               "Sam",
		Type:               engine.TypeOJT,
		TotalRequiredHours: engine.DecPtr(500),
		StartDate:          engine.NewDate(2027, time.January, 4),
		Status:             engine.TraineeActive,
	}
	require.NoError(t, mem.SaveTrainee(ctx, tr))

	rec, err := engine.WithComputedHours(engine.TimeRecord{
		ID:        "rec-feb",
		TraineeID: tr.ID,
		Date:      engine.NewDate(2027, time.February, 15),
		AMTimeIn:  engine.MustClock("08:00"),
		AMTimeOut: engine.MustClock("12:00"),
		Status:    engine.StatusHalfDayAM,
	})
	require.NoError(t, err)
	require.NoError(t, mem.CreateTimeRecord(ctx, rec))

	rs.generate()

	report, err := mem.GetMonthlyReport(ctx, tr.ID, 2027, 2)
	require.NoError(t, err)
	assert.Equal(t, "4.00", report.TotalHoursWorked.StringFixed(2))

	// The open month must not have been generated or claimed the dedup key.
	_, err = mem.GetMonthlyReport(ctx, tr.ID, 2027, 3)
	assert.ErrorIs(t, err, engine.ErrRecordNotFound)
}

func TestReportScheduler_DisabledDoesNotStart(t *testing.T) {
	_, rs := schedulerFixture(t)
	rs.Enabled = false

	rs.Start()
	rs.Stop() // no ticker was created; must not block or panic
}
