/*
Package engine computes derived time-tracking figures for trainees.

PURPOSE:
  This package contains the pure calculation core of the system: per-day
  worked hours from AM/PM clock-in/out pairs, weekly payroll totals capped
  by a per-trainee weekly ceiling, monthly reports, and OJT completion
  progress against a required-hours target.

KEY CONCEPTS IN THIS FILE (types.go):
  - Trainee: Configuration for one person's engagement (type, rate, caps)
  - TimeRecord: One calendar day's attendance with AM/PM sessions
  - WeeklySummary / MonthlyReport: Derived aggregates (caches, not truth)
  - OJTProgress: Computed completion view, never stored

DESIGN PRINCIPLES:
  1. Purity: Every computation is a stateless function over explicit inputs.
     Persistence and config access live with the caller (see store.go).
  2. Precision: Uses decimal.Decimal for hours and pay to avoid
     floating-point drift; stored fields carry exactly 2 decimal places.
  3. Derived fields stay derived: AMHours/PMHours/TotalHours are recomputed
     whenever the underlying times change, never set independently.
  4. Determinism: Recomputing an aggregate from the same records yields
     bit-identical output, so summaries are safe to overwrite at any time.

USAGE:
  rec := engine.TimeRecord{
      TraineeID: "tr-1",
      Date:      engine.NewDate(2025, time.March, 10),
      AMTimeIn:  engine.MustClock("08:00"),
      AMTimeOut: engine.MustClock("12:00"),
      Status:    engine.StatusPresent,
  }
  if v := engine.ValidateTimeRecord(rec, engine.Today()); len(v) > 0 { ... }
  breakdown, err := engine.ComputeHours(rec)

SEE ALSO:
  - validate.go: Record and trainee-config rule checks
  - hours.go: AM/PM/total hour derivation
  - weekly.go: Weekly and monthly aggregation with pay caps
  - progress.go: OJT completion percentage
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type TraineeID string
type RecordID string

// =============================================================================
// TRAINEE - Engagement configuration
// =============================================================================

type TraineeType string

const (
	TypePaidIntern   TraineeType = "paid_intern"
	TypeUnpaidIntern TraineeType = "unpaid_intern"
	TypeOJT          TraineeType = "ojt"
)

type TraineeStatus string

const (
	TraineeActive     TraineeStatus = "active"
	TraineeCompleted  TraineeStatus = "completed"
	TraineeTerminated TraineeStatus = "terminated"
)

// Trainee is the configuration for one person's engagement at a company.
//
// Field presence follows the trainee type:
//   - HourlyRate is set iff paid_intern (>= 0)
//   - MaxWeeklyHours is required for paid_intern and unpaid_intern,
//     ignored for ojt (ojt has no weekly ceiling)
//   - TotalRequiredHours is required for ojt only (> 0)
//
// Trainees are never physically removed; terminated ones are soft-marked
// via Status.
type Trainee struct {
	ID   TraineeID
	Name string
	Type TraineeType

	HourlyRate         *decimal.Decimal
	MaxWeeklyHours     *decimal.Decimal
	TotalRequiredHours *decimal.Decimal

	StartDate Date
	EndDate   *Date
	Status    TraineeStatus
}

// IsCapped reports whether the weekly billable-hours ceiling applies.
func (t Trainee) IsCapped() bool {
	return t.Type == TypePaidIntern || t.Type == TypeUnpaidIntern
}

// IsPaid reports whether gross pay is computed for this trainee.
func (t Trainee) IsPaid() bool { return t.Type == TypePaidIntern }

// =============================================================================
// TIME RECORD - One calendar day's attendance
// =============================================================================

type RecordStatus string

const (
	StatusPresent   RecordStatus = "present"
	StatusHalfDayAM RecordStatus = "half_day_am"
	StatusHalfDayPM RecordStatus = "half_day_pm"
	StatusAbsent    RecordStatus = "absent"
)

// TimeRecord is one calendar day's attendance for one trainee.
// At most one record exists per (TraineeID, Date).
//
// AMHours, PMHours and TotalHours are derived from the raw clock times by
// ComputeHours and must never be set independently.
type TimeRecord struct {
	ID        RecordID
	TraineeID TraineeID
	Date      Date

	AMTimeIn  *ClockTime
	AMTimeOut *ClockTime
	PMTimeIn  *ClockTime
	PMTimeOut *ClockTime

	AMHours    decimal.Decimal
	PMHours    decimal.Decimal
	TotalHours decimal.Decimal

	Status RecordStatus
	Notes  string
}

// HasAMSession reports whether both AM endpoints are present.
func (r TimeRecord) HasAMSession() bool { return r.AMTimeIn != nil && r.AMTimeOut != nil }

// HasPMSession reports whether both PM endpoints are present.
func (r TimeRecord) HasPMSession() bool { return r.PMTimeIn != nil && r.PMTimeOut != nil }

// CountsAsPresent reports whether the record counts toward days_present.
// Absent records are excluded; all half-day and full-day statuses count.
func (r TimeRecord) CountsAsPresent() bool { return r.Status != StatusAbsent }

// =============================================================================
// AGGREGATES - Derived caches, recomputed on demand
// =============================================================================

// WeeklySummary is the cached aggregate over a trainee's records within one
// Monday-Sunday window. One summary exists per (TraineeID, WeekStart).
// It is derived state: recomputation from the same records is idempotent and
// overwrites any prior value.
type WeeklySummary struct {
	TraineeID TraineeID
	WeekStart Date
	WeekEnd   Date // always WeekStart + 6 days

	TotalHoursWorked decimal.Decimal
	BillableHours    decimal.Decimal
	GrossPay         decimal.Decimal
	DaysPresent      int
}

// MonthlyReport applies the same derivation pattern to a calendar month,
// additionally tracking absences.
type MonthlyReport struct {
	TraineeID TraineeID
	Year      int
	Month     int // 1-12

	TotalHoursWorked decimal.Decimal
	BillableHours    decimal.Decimal
	GrossPay         decimal.Decimal
	DaysPresent      int
	DaysAbsent       int
}

// OJTProgress is the computed completion view for an ojt trainee.
// It is never stored; callers recompute it from the lifetime record set.
//
// RemainingHours may go negative when rendered hours exceed the requirement.
// The subtraction is preserved literally rather than clamped to zero.
type OJTProgress struct {
	TraineeID            TraineeID
	TotalRequiredHours   decimal.Decimal
	HoursRendered        decimal.Decimal
	RemainingHours       decimal.Decimal
	CompletionPercentage decimal.Decimal
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

// round2 rounds half away from zero to 2 decimal places. Every stored
// hour/pay field in this package carries exactly this precision.
func round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// Dec builds a decimal from a float. Test and wiring convenience.
func Dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// DecPtr builds a *decimal.Decimal from a float. Config convenience.
func DecPtr(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}
