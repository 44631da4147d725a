package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/trainee-engine/engine"
)

// =============================================================================
// TIME RECORD RULES
// =============================================================================

func TestValidateTimeRecord_FullDay_Valid(t *testing.T) {
	vs := engine.ValidateTimeRecord(fullDayRecord(), march10())
	assert.Empty(t, vs)
}

func TestValidateTimeRecord_MorningOnlyPresent_Valid(t *testing.T) {
	// GIVEN: am 08:00-12:00 only, status=present
	// THEN: Valid; one complete session satisfies the present rule

	rec := fullDayRecord()
	rec.PMTimeIn = nil
	rec.PMTimeOut = nil

	vs := engine.ValidateTimeRecord(rec, march10())
	assert.Empty(t, vs)
}

func TestValidateTimeRecord_InvertedAM_Rejected(t *testing.T) {
	// GIVEN: am_time_in=08:00, am_time_out=07:00
	// THEN: Rejected with the am session-order rule

	rec := fullDayRecord()
	rec.AMTimeOut = engine.MustClock("07:00")
	rec.PMTimeIn = nil
	rec.PMTimeOut = nil

	vs := engine.ValidateTimeRecord(rec, march10())
	require.NotEmpty(t, vs)
	assert.True(t, vs.HasSession(engine.RuleInvalidSessionOrder, engine.SessionAM))
	assert.False(t, vs.HasSession(engine.RuleInvalidSessionOrder, engine.SessionPM))
}

func TestValidateTimeRecord_InvertedPM_Rejected(t *testing.T) {
	rec := fullDayRecord()
	rec.PMTimeOut = engine.MustClock("12:30")

	vs := engine.ValidateTimeRecord(rec, march10())
	assert.True(t, vs.HasSession(engine.RuleInvalidSessionOrder, engine.SessionPM))
}

func TestValidateTimeRecord_EqualEndpoints_Rejected(t *testing.T) {
	// time_out must be strictly after time_in
	rec := fullDayRecord()
	rec.AMTimeOut = engine.MustClock("08:00")

	vs := engine.ValidateTimeRecord(rec, march10())
	assert.True(t, vs.HasSession(engine.RuleInvalidSessionOrder, engine.SessionAM))
}

func TestValidateTimeRecord_PMStartsBeforeAMEnds_Overlap(t *testing.T) {
	// GIVEN: am ends 12:00, pm starts 11:30
	// THEN: SessionOverlap

	rec := fullDayRecord()
	rec.PMTimeIn = engine.MustClock("11:30")

	vs := engine.ValidateTimeRecord(rec, march10())
	assert.True(t, vs.Has(engine.RuleSessionOverlap))
}

func TestValidateTimeRecord_PMStartsAtAMEnd_Overlap(t *testing.T) {
	// pm_time_in must be strictly after am_time_out; equality overlaps
	rec := fullDayRecord()
	rec.PMTimeIn = engine.MustClock("12:00")

	vs := engine.ValidateTimeRecord(rec, march10())
	assert.True(t, vs.Has(engine.RuleSessionOverlap))
}

func TestValidateTimeRecord_PresentWithoutCompleteSession_Rejected(t *testing.T) {
	// GIVEN: status=present with only a dangling am_time_in
	// THEN: IncompleteSessionForPresent

	rec := engine.TimeRecord{
		Date:     march10(),
		AMTimeIn: engine.MustClock("08:00"),
		Status:   engine.StatusPresent,
	}

	vs := engine.ValidateTimeRecord(rec, march10())
	assert.True(t, vs.Has(engine.RuleIncompleteSession))
}

func TestValidateTimeRecord_AbsentWithoutSessions_Valid(t *testing.T) {
	rec := engine.TimeRecord{Date: march10(), Status: engine.StatusAbsent}

	vs := engine.ValidateTimeRecord(rec, march10())
	assert.Empty(t, vs)
}

func TestValidateTimeRecord_FutureDate_Rejected(t *testing.T) {
	// GIVEN: record dated tomorrow
	// THEN: FutureDateNotAllowed

	today := march10()
	rec := fullDayRecord()
	rec.Date = today.AddDays(1)

	vs := engine.ValidateTimeRecord(rec, today)
	assert.True(t, vs.Has(engine.RuleFutureDate))
}

func TestValidateTimeRecord_DatedToday_Valid(t *testing.T) {
	// The boundary: today itself is not a future date
	vs := engine.ValidateTimeRecord(fullDayRecord(), march10())
	assert.Empty(t, vs)
}

func TestValidateTimeRecord_CollectsAllViolations(t *testing.T) {
	// GIVEN: inverted am session AND a future date
	// THEN: Both rules are reported in one pass

	today := march10()
	rec := engine.TimeRecord{
		Date:      today.AddDays(3),
		AMTimeIn:  engine.MustClock("08:00"),
		AMTimeOut: engine.MustClock("07:00"),
		Status:    engine.StatusPresent,
	}

	vs := engine.ValidateTimeRecord(rec, today)
	assert.Len(t, vs, 2)
	assert.True(t, vs.HasSession(engine.RuleInvalidSessionOrder, engine.SessionAM))
	assert.True(t, vs.Has(engine.RuleFutureDate))
}

// =============================================================================
// TRAINEE CONFIG RULES
// =============================================================================

func paidIntern() engine.Trainee {
	return engine.Trainee{
		ID:             "tr-paid",
		Name:           "Alex",
		Type:           engine.TypePaidIntern,
		HourlyRate:     engine.DecPtr(100),
		MaxWeeklyHours: engine.DecPtr(16),
		StartDate:      engine.NewDate(2025, time.January, 6),
		Status:         engine.TraineeActive,
	}
}

func TestValidateTrainee_PaidIntern_Valid(t *testing.T) {
	assert.Empty(t, engine.ValidateTrainee(paidIntern()))
}

func TestValidateTrainee_PaidIntern_MissingRate(t *testing.T) {
	tr := paidIntern()
	tr.HourlyRate = nil

	vs := engine.ValidateTrainee(tr)
	assert.True(t, vs.Has(engine.RuleMissingHourlyRate))
}

func TestValidateTrainee_PaidIntern_NegativeRate(t *testing.T) {
	tr := paidIntern()
	tr.HourlyRate = engine.DecPtr(-1)

	vs := engine.ValidateTrainee(tr)
	assert.True(t, vs.Has(engine.RuleNegativeHourlyRate))
}

func TestValidateTrainee_PaidIntern_ZeroRate_Valid(t *testing.T) {
	// hourly_rate >= 0; zero is allowed
	tr := paidIntern()
	tr.HourlyRate = engine.DecPtr(0)

	assert.Empty(t, engine.ValidateTrainee(tr))
}

func TestValidateTrainee_UnpaidIntern_MissingCap(t *testing.T) {
	tr := engine.Trainee{
		ID:        "tr-unpaid",
		Type:      engine.TypeUnpaidIntern,
		StartDate: engine.NewDate(2025, time.January, 6),
		Status:    engine.TraineeActive,
	}

	vs := engine.ValidateTrainee(tr)
	assert.True(t, vs.Has(engine.RuleMissingWeeklyCap))
}

func TestValidateTrainee_OJT_RequiresPositiveRequiredHours(t *testing.T) {
	tr := engine.Trainee{
		ID:                 "tr-ojt",
		Type:               engine.TypeOJT,
		TotalRequiredHours: engine.DecPtr(0),
		StartDate:          engine.NewDate(2025, time.January, 6),
		Status:             engine.TraineeActive,
	}

	vs := engine.ValidateTrainee(tr)
	assert.True(t, vs.Has(engine.RuleMissingRequiredHours))

	tr.TotalRequiredHours = engine.DecPtr(500)
	assert.Empty(t, engine.ValidateTrainee(tr))
}

func TestValidateTrainee_EndDateNotAfterStart_Rejected(t *testing.T) {
	tr := paidIntern()
	end := tr.StartDate
	tr.EndDate = &end

	vs := engine.ValidateTrainee(tr)
	assert.True(t, vs.Has(engine.RuleEndDateBeforeStartDate))
}
