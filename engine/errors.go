/*
errors.go - Centralized error types for the computation engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers (service layer, HTTP handlers) map these to user-facing
  responses.

ERROR CATEGORIES:
  1. Validation rule codes - returned as a collected set, never thrown
     one at a time (a form layer wants every problem at once)
  2. Calculation errors - fail-fast errors from the hour,
     weekly and progress calculators, which assume pre-validated input
  3. Store errors - lookup/uniqueness failures from persistence

  Every error here is local and recoverable by the caller. Nothing in
  this package is process-fatal.

USAGE:
  violations := engine.ValidateTimeRecord(rec, engine.Today())
  if violations.Has(engine.RuleFutureDate) { ... }

  _, err := engine.ComputeHours(rec)
  if errors.Is(err, engine.ErrNegativeDuration) { ... }

SEE ALSO:
  - validate.go: Produces Violations
  - hours.go, weekly.go, progress.go: Produce the calculation errors
*/
package engine

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// VALIDATION RULE CODES - Collected, not thrown
// =============================================================================

// RuleCode identifies one violated business rule. Validation returns the
// full set of violated codes so a caller can report all problems at once.
type RuleCode string

const (
	// Time-record rules (ValidateTimeRecord)
	RuleInvalidSessionOrder RuleCode = "invalid_session_order" // session time-out not after time-in
	RuleSessionOverlap      RuleCode = "session_overlap"       // PM starts before or at AM end
	RuleIncompleteSession   RuleCode = "incomplete_session_for_present"
	RuleFutureDate          RuleCode = "future_date_not_allowed"

	// Trainee-config rules (ValidateTrainee)
	RuleMissingHourlyRate      RuleCode = "missing_hourly_rate"
	RuleNegativeHourlyRate     RuleCode = "negative_hourly_rate"
	RuleMissingWeeklyCap       RuleCode = "missing_max_weekly_hours"
	RuleMissingRequiredHours   RuleCode = "missing_total_required_hours"
	RuleEndDateBeforeStartDate RuleCode = "end_date_before_start_date"
)

// Session names which half-day session a violation refers to.
type Session string

const (
	SessionAM Session = "am"
	SessionPM Session = "pm"
)

// Violation is one violated rule with enough context to render a message.
type Violation struct {
	Code    RuleCode
	Session Session // set for session-scoped rules, empty otherwise
	Message string
}

func (v Violation) Error() string {
	if v.Session != "" {
		return fmt.Sprintf("%s(%s): %s", v.Code, v.Session, v.Message)
	}
	return fmt.Sprintf("%s: %s", v.Code, v.Message)
}

// Violations is the set of violated rules from one validation pass.
// An empty set means the candidate is valid.
type Violations []Violation

// Has reports whether any violation carries the given code.
func (vs Violations) Has(code RuleCode) bool {
	for _, v := range vs {
		if v.Code == code {
			return true
		}
	}
	return false
}

// HasSession reports whether the given code was violated for the given session.
func (vs Violations) HasSession(code RuleCode, session Session) bool {
	for _, v := range vs {
		if v.Code == code && v.Session == session {
			return true
		}
	}
	return false
}

func (vs Violations) Error() string {
	msgs := make([]string, len(vs))
	for i, v := range vs {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNegativeDuration is returned when the hour calculator is invoked on
	// a session whose time-out precedes its time-in. Unreachable when
	// ValidateTimeRecord runs first.
	ErrNegativeDuration = errors.New("negative session duration")

	// ErrInvalidTraineeConfig is returned when a required config field
	// (hourly_rate for paid_intern, total_required_hours for ojt) is missing
	// or non-positive at the point a calculation needs it.
	ErrInvalidTraineeConfig = errors.New("invalid trainee config")

	// ErrTraineeNotFound is returned when a referenced trainee doesn't exist.
	ErrTraineeNotFound = errors.New("trainee not found")

	// ErrRecordNotFound is returned when a referenced time record doesn't exist.
	ErrRecordNotFound = errors.New("time record not found")

	// ErrDuplicateRecord is returned when a second record is created for the
	// same (trainee, date). This enforces the per-day uniqueness invariant.
	ErrDuplicateRecord = errors.New("duplicate time record for date")

	// ErrEditWindowClosed is returned when a record dated more than 7 days
	// ago is edited. Enforced by the data-access layer, not the pure engine.
	ErrEditWindowClosed = errors.New("record edit window closed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NegativeDurationError identifies which session had inverted endpoints.
type NegativeDurationError struct {
	Session Session
	TimeIn  ClockTime
	TimeOut ClockTime
}

func (e *NegativeDurationError) Error() string {
	return fmt.Sprintf("negative %s session duration: out %s before in %s",
		e.Session, e.TimeOut, e.TimeIn)
}

func (e *NegativeDurationError) Unwrap() error { return ErrNegativeDuration }

// TraineeConfigError names the missing/invalid field for a trainee.
type TraineeConfigError struct {
	TraineeID TraineeID
	Field     string
	Reason    string
}

func (e *TraineeConfigError) Error() string {
	return fmt.Sprintf("invalid trainee config for %s: %s %s", e.TraineeID, e.Field, e.Reason)
}

func (e *TraineeConfigError) Unwrap() error { return ErrInvalidTraineeConfig }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	var vs Violations
	return errors.Is(err, ErrNegativeDuration) ||
		errors.Is(err, ErrInvalidTraineeConfig) ||
		errors.Is(err, ErrDuplicateRecord) ||
		errors.Is(err, ErrEditWindowClosed) ||
		errors.As(err, &vs)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTraineeNotFound) || errors.Is(err, ErrRecordNotFound)
}
