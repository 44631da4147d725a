/*
validate.go - Record and trainee-config business rules

PURPOSE:
  Pure, single-pass rule checks. A validation run collects one Violation
  per violated rule and returns the full set, so a form layer can surface
  every problem to the user at once instead of failing on the first.

RECORD RULES (in evaluation order):
  1. AM session order:       am_time_out > am_time_in when both set
  2. PM session order:       pm_time_out > pm_time_in when both set
  3. Session overlap:        pm_time_in > am_time_out when both set
  4. Present needs a session: status=present requires at least one
                              complete (in+out) session
  5. No future dates:        record date <= business "today"

  Rules 1-3 compare raw ClockTimes; the hour calculator relies on these
  having passed, so callers must run ValidateTimeRecord before
  ComputeHours on user-supplied data.

CONFIG RULES:
  paid_intern   => hourly_rate present and >= 0, max_weekly_hours present
  unpaid_intern => max_weekly_hours present
  ojt           => total_required_hours present and > 0
  any           => end_date (if set) > start_date

SEE ALSO:
  - errors.go: RuleCode constants and the Violations set type
  - hours.go: Consumes records these checks have accepted
*/
package engine

import "fmt"

// =============================================================================
// TIME RECORD VALIDATION
// =============================================================================

// ValidateTimeRecord checks a candidate record against the session and date
// rules. today is the business calendar date the future-date rule compares
// against. The returned set is empty when the candidate is valid.
//
// Pure predicate: no side effects, no store access.
func ValidateTimeRecord(rec TimeRecord, today Date) Violations {
	var vs Violations

	if rec.AMTimeIn != nil && rec.AMTimeOut != nil && !rec.AMTimeOut.After(*rec.AMTimeIn) {
		vs = append(vs, Violation{
			Code:    RuleInvalidSessionOrder,
			Session: SessionAM,
			Message: fmt.Sprintf("am_time_out %s must be after am_time_in %s", rec.AMTimeOut, rec.AMTimeIn),
		})
	}

	if rec.PMTimeIn != nil && rec.PMTimeOut != nil && !rec.PMTimeOut.After(*rec.PMTimeIn) {
		vs = append(vs, Violation{
			Code:    RuleInvalidSessionOrder,
			Session: SessionPM,
			Message: fmt.Sprintf("pm_time_out %s must be after pm_time_in %s", rec.PMTimeOut, rec.PMTimeIn),
		})
	}

	if rec.AMTimeOut != nil && rec.PMTimeIn != nil && !rec.PMTimeIn.After(*rec.AMTimeOut) {
		vs = append(vs, Violation{
			Code:    RuleSessionOverlap,
			Message: fmt.Sprintf("pm_time_in %s must be after am_time_out %s", rec.PMTimeIn, rec.AMTimeOut),
		})
	}

	if rec.Status == StatusPresent && !rec.HasAMSession() && !rec.HasPMSession() {
		vs = append(vs, Violation{
			Code:    RuleIncompleteSession,
			Message: "status present requires at least one complete time_in/time_out session",
		})
	}

	if rec.Date.After(today) {
		vs = append(vs, Violation{
			Code:    RuleFutureDate,
			Message: fmt.Sprintf("record date %s is after today %s", rec.Date, today),
		})
	}

	return vs
}

// =============================================================================
// TRAINEE CONFIG VALIDATION
// =============================================================================

// ValidateTrainee checks the cross-field config invariants for a trainee.
// Admin create/update paths run this before persisting; the calculators
// additionally guard the fields they need and fail fast with
// ErrInvalidTraineeConfig if handed corrupt data.
func ValidateTrainee(t Trainee) Violations {
	var vs Violations

	switch t.Type {
	case TypePaidIntern:
		if t.HourlyRate == nil {
			vs = append(vs, Violation{
				Code:    RuleMissingHourlyRate,
				Message: "paid_intern requires hourly_rate",
			})
		} else if t.HourlyRate.IsNegative() {
			vs = append(vs, Violation{
				Code:    RuleNegativeHourlyRate,
				Message: "hourly_rate must be >= 0",
			})
		}
		if t.MaxWeeklyHours == nil {
			vs = append(vs, Violation{
				Code:    RuleMissingWeeklyCap,
				Message: "paid_intern requires max_weekly_hours",
			})
		}
	case TypeUnpaidIntern:
		if t.MaxWeeklyHours == nil {
			vs = append(vs, Violation{
				Code:    RuleMissingWeeklyCap,
				Message: "unpaid_intern requires max_weekly_hours",
			})
		}
	case TypeOJT:
		if t.TotalRequiredHours == nil || !t.TotalRequiredHours.IsPositive() {
			vs = append(vs, Violation{
				Code:    RuleMissingRequiredHours,
				Message: "ojt requires total_required_hours > 0",
			})
		}
	}

	if t.EndDate != nil && !t.EndDate.After(t.StartDate) {
		vs = append(vs, Violation{
			Code:    RuleEndDateBeforeStartDate,
			Message: fmt.Sprintf("end_date %s must be after start_date %s", t.EndDate, t.StartDate),
		})
	}

	return vs
}
