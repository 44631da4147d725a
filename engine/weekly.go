/*
weekly.go - Weekly and monthly aggregation with the pay-cap rule

PURPOSE:
  Turns a trainee's time records within a window into the payroll-relevant
  aggregate. This is the central calculation that answers "how much does
  this trainee get paid this week?"

THE CAP RULE:
  total_hours_worked is always the unbounded sum. billable_hours is where
  the ceiling applies:

    paid_intern / unpaid_intern:  billable = min(total, max_weekly_hours)
    ojt:                          billable = total (no weekly ceiling)

  gross_pay = billable * hourly_rate, and only paid_intern has a rate, so
  gross_pay is zero for everyone else.

EXAMPLE:
  paid_intern, max_weekly_hours=16, five 4-hour days (20h):
    total_hours_worked = 20, billable_hours = 16, gross_pay = 16 * rate

WINDOW OWNERSHIP:
  The aggregator trusts its weekStart and filters records to the
  [weekStart, weekStart+6] window; it does NOT snap arbitrary dates to a
  Monday. Callers wanting "the week containing date X" go through
  WeekOf(x) first.

SEE ALSO:
  - progress.go: Lifetime (uncapped, unwindowed) OJT totals
  - clock.go: WeekOf / MonthPeriod window helpers
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// WEEKLY SUMMARY
// =============================================================================

// ComputeWeeklySummary aggregates a trainee's records for the Monday-Sunday
// window starting at weekStart. Records outside the window are ignored.
//
// Zero records in range is not an error: every output is zero.
//
// Deterministic: identical inputs yield bit-identical summaries, so the
// result is safe to persist over any previously cached value.
func ComputeWeeklySummary(t Trainee, weekStart Date, records []TimeRecord) (WeeklySummary, error) {
	period := WeekPeriod(weekStart)

	total, present, _ := sumPeriod(period, records)

	billable, pay, err := applyCap(t, total)
	if err != nil {
		return WeeklySummary{}, err
	}

	return WeeklySummary{
		TraineeID:        t.ID,
		WeekStart:        period.Start,
		WeekEnd:          period.End,
		TotalHoursWorked: total,
		BillableHours:    billable,
		GrossPay:         pay,
		DaysPresent:      present,
	}, nil
}

// =============================================================================
// MONTHLY REPORT
// =============================================================================

// ComputeMonthlyReport applies the weekly derivation pattern to a calendar
// month, additionally counting absent-status records.
//
// The cap is weekly, so billable hours are derived by grouping the month's
// records into their Monday-aligned weeks and capping each week's total
// separately. For a week straddling a month boundary only the in-month
// records count toward that week's group.
func ComputeMonthlyReport(t Trainee, year int, month time.Month, records []TimeRecord) (MonthlyReport, error) {
	period := MonthPeriod(year, month)

	total, present, absent := sumPeriod(period, records)

	weeks := make(map[Date]decimal.Decimal)
	for _, rec := range records {
		if !period.Contains(rec.Date) {
			continue
		}
		ws := rec.Date.StartOfWeek()
		weeks[ws] = weeks[ws].Add(rec.TotalHours)
	}

	billable := decimal.Zero
	pay := decimal.Zero
	for _, weekTotal := range weeks {
		wb, wp, err := applyCap(t, round2(weekTotal))
		if err != nil {
			return MonthlyReport{}, err
		}
		billable = billable.Add(wb)
		pay = pay.Add(wp)
	}

	return MonthlyReport{
		TraineeID:        t.ID,
		Year:             year,
		Month:            int(month),
		TotalHoursWorked: total,
		BillableHours:    round2(billable),
		GrossPay:         round2(pay),
		DaysPresent:      present,
		DaysAbsent:       absent,
	}, nil
}

// =============================================================================
// SHARED DERIVATION
// =============================================================================

// sumPeriod folds the records inside the period into the raw aggregate:
// unbounded hour total, days present (absent excluded), days absent.
func sumPeriod(p Period, records []TimeRecord) (total decimal.Decimal, present, absent int) {
	total = decimal.Zero
	for _, rec := range records {
		if !p.Contains(rec.Date) {
			continue
		}
		total = total.Add(rec.TotalHours)
		if rec.CountsAsPresent() {
			present++
		} else {
			absent++
		}
	}
	return round2(total), present, absent
}

// applyCap derives billable hours and gross pay from the unbounded total.
// Fails fast with a TraineeConfigError when a field the trainee type
// requires is missing: the calculators never invent a cap or a rate.
func applyCap(t Trainee, total decimal.Decimal) (billable, pay decimal.Decimal, err error) {
	billable = total

	if t.IsCapped() {
		if t.MaxWeeklyHours == nil {
			return decimal.Zero, decimal.Zero, &TraineeConfigError{
				TraineeID: t.ID, Field: "max_weekly_hours", Reason: "missing for capped trainee type",
			}
		}
		if total.GreaterThan(*t.MaxWeeklyHours) {
			billable = *t.MaxWeeklyHours
		}
	}

	pay = decimal.Zero
	if t.IsPaid() {
		if t.HourlyRate == nil {
			return decimal.Zero, decimal.Zero, &TraineeConfigError{
				TraineeID: t.ID, Field: "hourly_rate", Reason: "missing for paid_intern",
			}
		}
		pay = round2(billable.Mul(*t.HourlyRate))
	}

	return round2(billable), pay, nil
}
