/*
progress.go - OJT completion progress against the required-hours target

PURPOSE:
  Answers "how far along is this OJT trainee?" from the lifetime record
  set: hours rendered, hours remaining, and completion percentage.

  Unlike the weekly aggregate this has no date window and no cap; every
  recorded hour counts toward the requirement.

POLICY NOTES:
  - remaining_hours preserves the literal subtraction and goes negative
    when a trainee overshoots the requirement. Clamping to zero was
    considered and rejected; the overshoot is information.
  - completion_percentage is rounded to 2 decimals and is exactly 100.00
    when rendered == required.

GUARD:
  total_required_hours must be > 0. A zero or missing value is corrupt
  trainee data; the calculator fails with ErrInvalidTraineeConfig instead
  of dividing by zero.
*/
package engine

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ComputeOJTProgress computes the completion view for one ojt trainee from
// its full (lifetime) record set.
func ComputeOJTProgress(t Trainee, records []TimeRecord) (OJTProgress, error) {
	if t.Type != TypeOJT {
		return OJTProgress{}, &TraineeConfigError{
			TraineeID: t.ID, Field: "trainee_type", Reason: "progress is only defined for ojt trainees",
		}
	}
	if t.TotalRequiredHours == nil || !t.TotalRequiredHours.IsPositive() {
		return OJTProgress{}, &TraineeConfigError{
			TraineeID: t.ID, Field: "total_required_hours", Reason: "must be > 0",
		}
	}

	rendered := decimal.Zero
	for _, rec := range records {
		rendered = rendered.Add(rec.TotalHours)
	}
	rendered = round2(rendered)

	required := *t.TotalRequiredHours

	return OJTProgress{
		TraineeID:            t.ID,
		TotalRequiredHours:   required,
		HoursRendered:        rendered,
		RemainingHours:       round2(required.Sub(rendered)),
		CompletionPercentage: round2(rendered.Div(required).Mul(hundred)),
	}, nil
}
