/*
hours.go - Derives am_hours, pm_hours and total_hours from raw clock times

PURPOSE:
  The system of record computes hours once, here, and every aggregate
  downstream (weekly, monthly, OJT progress) sums the stored derived
  fields. Relocating this out of database generated columns keeps the
  rounding semantics testable independent of any engine.

ROUNDING CONTRACT:
  Each session's hours are computed from its raw minute duration, then
  rounded half away from zero to exactly 2 decimal places. total_hours is
  the sum of the two rounded session fields (which is exact at 2dp, so no
  intermediate rounding error can accumulate).

  A session with either endpoint missing contributes 0. That is the only
  place a missing value becomes a silent zero; inverted endpoints are a
  hard NegativeDuration error, never a wrapped or negative result.

SEE ALSO:
  - validate.go: Must run first on user-supplied data
  - weekly.go: Sums TotalHours over a period
*/
package engine

import "github.com/shopspring/decimal"

var minutesPerHour = decimal.NewFromInt(60)

// HourBreakdown is the derived hour triple for one time record.
// All three fields carry exactly 2 decimal places.
type HourBreakdown struct {
	AMHours    decimal.Decimal
	PMHours    decimal.Decimal
	TotalHours decimal.Decimal
}

// ComputeHours derives the hour breakdown from a record's raw clock times.
//
// Assumes ValidateTimeRecord has already accepted the record; if called
// with an inverted session anyway it fails with a NegativeDurationError
// wrapping ErrNegativeDuration.
func ComputeHours(rec TimeRecord) (HourBreakdown, error) {
	am, err := sessionHours(SessionAM, rec.AMTimeIn, rec.AMTimeOut)
	if err != nil {
		return HourBreakdown{}, err
	}
	pm, err := sessionHours(SessionPM, rec.PMTimeIn, rec.PMTimeOut)
	if err != nil {
		return HourBreakdown{}, err
	}

	return HourBreakdown{
		AMHours:    am,
		PMHours:    pm,
		TotalHours: round2(am.Add(pm)),
	}, nil
}

// WithComputedHours returns a copy of the record with its derived fields
// recomputed. Helper for the write path, which must never persist stale
// hour fields.
func WithComputedHours(rec TimeRecord) (TimeRecord, error) {
	b, err := ComputeHours(rec)
	if err != nil {
		return rec, err
	}
	rec.AMHours = b.AMHours
	rec.PMHours = b.PMHours
	rec.TotalHours = b.TotalHours
	return rec, nil
}

// sessionHours computes one session's hours at 2 decimal places.
// Both endpoints absent (or just one) => 0, by contract.
func sessionHours(s Session, in, out *ClockTime) (decimal.Decimal, error) {
	if in == nil || out == nil {
		return decimal.Zero, nil
	}
	mins := in.MinutesUntil(*out)
	if mins < 0 {
		return decimal.Zero, &NegativeDurationError{Session: s, TimeIn: *in, TimeOut: *out}
	}
	return round2(decimal.NewFromInt(int64(mins)).Div(minutesPerHour)), nil
}
