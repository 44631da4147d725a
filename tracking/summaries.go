package tracking

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/trainee-engine/engine"
)

// SummaryService recomputes the derived aggregate caches from time records
// and persists them. Summaries are never edited in place: any refresh is a
// full recomputation from the current rows, so a back-dated amendment is
// reflected by simply refreshing again.
type SummaryService struct {
	store  engine.Store
	logger *logrus.Logger
}

func NewSummaryService(store engine.Store, logger *logrus.Logger) *SummaryService {
	return &SummaryService{store: store, logger: logger}
}

// RefreshWeekly recomputes and caches the weekly summary for the
// Monday-Sunday window containing date. The Monday snap happens here;
// the engine aggregator itself requires an aligned week start.
func (s *SummaryService) RefreshWeekly(ctx context.Context, traineeID engine.TraineeID, date engine.Date) (engine.WeeklySummary, error) {
	t, err := s.store.GetTrainee(ctx, traineeID)
	if err != nil {
		return engine.WeeklySummary{}, err
	}

	week := engine.WeekOf(date)
	records, err := s.store.TimeRecordsInRange(ctx, traineeID, week.Start, week.End)
	if err != nil {
		return engine.WeeklySummary{}, err
	}

	summary, err := engine.ComputeWeeklySummary(t, week.Start, records)
	if err != nil {
		return engine.WeeklySummary{}, err
	}

	if err := s.store.SaveWeeklySummary(ctx, summary); err != nil {
		return engine.WeeklySummary{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"trainee_id":     traineeID,
		"week_start":     summary.WeekStart.String(),
		"total_hours":    summary.TotalHoursWorked.String(),
		"billable_hours": summary.BillableHours.String(),
	}).Debug("weekly summary refreshed")

	return summary, nil
}

// RefreshMonthly recomputes and caches the monthly report for the trainee.
func (s *SummaryService) RefreshMonthly(ctx context.Context, traineeID engine.TraineeID, year int, month time.Month) (engine.MonthlyReport, error) {
	t, err := s.store.GetTrainee(ctx, traineeID)
	if err != nil {
		return engine.MonthlyReport{}, err
	}

	period := engine.MonthPeriod(year, month)
	records, err := s.store.TimeRecordsInRange(ctx, traineeID, period.Start, period.End)
	if err != nil {
		return engine.MonthlyReport{}, err
	}

	report, err := engine.ComputeMonthlyReport(t, year, month, records)
	if err != nil {
		return engine.MonthlyReport{}, err
	}

	if err := s.store.SaveMonthlyReport(ctx, report); err != nil {
		return engine.MonthlyReport{}, err
	}

	return report, nil
}

// RefreshAllMonthly regenerates the month's report for every trainee.
// Driven by the periodic report generator; trainees whose config fails a
// calculation are skipped and logged rather than aborting the batch.
func (s *SummaryService) RefreshAllMonthly(ctx context.Context, year int, month time.Month) (int, error) {
	trainees, err := s.store.ListTrainees(ctx)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, t := range trainees {
		if _, err := s.RefreshMonthly(ctx, t.ID, year, month); err != nil {
			s.logger.WithError(err).WithField("trainee_id", t.ID).Warn("monthly report skipped")
			continue
		}
		refreshed++
	}

	s.logger.WithFields(logrus.Fields{
		"year": year, "month": int(month), "refreshed": refreshed,
	}).Info("monthly reports generated")

	return refreshed, nil
}
