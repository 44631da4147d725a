package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/trainee-engine/engine"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testTrainee() engine.Trainee {
	end := engine.NewDate(2025, time.June, 30)
	return engine.Trainee{
		ID:             "tr-1",
		Name:           "Alex",
		Type:           engine.TypePaidIntern,
		HourlyRate:     engine.DecPtr(100),
		MaxWeeklyHours: engine.DecPtr(16),
		StartDate:      engine.NewDate(2025, time.January, 6),
		EndDate:        &end,
		Status:         engine.TraineeActive,
	}
}

func testRecord(id engine.RecordID, date engine.Date) engine.TimeRecord {
	rec, err := engine.WithComputedHours(engine.TimeRecord{
		ID:        id,
		TraineeID: "tr-1",
		Date:      date,
		AMTimeIn:  engine.MustClock("08:00"),
		AMTimeOut: engine.MustClock("12:00"),
		PMTimeIn:  engine.MustClock("13:00"),
		PMTimeOut: engine.MustClock("17:00"),
		Status:    engine.StatusPresent,
		Notes:     "full day",
	})
	if err != nil {
		panic(err)
	}
	return rec
}

// =============================================================================
// TRAINEES
// =============================================================================

func TestSQLite_Trainee_RoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	want := testTrainee()
	require.NoError(t, s.SaveTrainee(ctx, want))

	got, err := s.GetTrainee(ctx, want.ID)
	require.NoError(t, err)

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Type, got.Type)
	assert.True(t, want.HourlyRate.Equal(*got.HourlyRate))
	assert.True(t, want.MaxWeeklyHours.Equal(*got.MaxWeeklyHours))
	assert.Nil(t, got.TotalRequiredHours)
	assert.True(t, want.StartDate.Equal(got.StartDate))
	require.NotNil(t, got.EndDate)
	assert.True(t, want.EndDate.Equal(*got.EndDate))
	assert.Equal(t, want.Status, got.Status)
}

func TestSQLite_Trainee_SaveIsUpsert(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	tr := testTrainee()
	require.NoError(t, s.SaveTrainee(ctx, tr))

	tr.Status = engine.TraineeTerminated
	tr.Name = "Alex B"
	require.NoError(t, s.SaveTrainee(ctx, tr))

	got, err := s.GetTrainee(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, engine.TraineeTerminated, got.Status)
	assert.Equal(t, "Alex B", got.Name)

	all, err := s.ListTrainees(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLite_Trainee_NotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.GetTrainee(context.Background(), "nobody")
	assert.ErrorIs(t, err, engine.ErrTraineeNotFound)
}

func TestSQLite_ActiveOJTTrainees_Filters(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveTrainee(ctx, testTrainee())) // paid intern

	ojt := engine.Trainee{
		ID: "tr-ojt", Name: "Sam", Type: engine.TypeOJT,
		TotalRequiredHours: engine.DecPtr(500),
		StartDate:          engine.NewDate(2025, time.January, 6),
		Status:             engine.TraineeActive,
	}
	require.NoError(t, s.SaveTrainee(ctx, ojt))

	done := ojt
	done.ID = "tr-done"
	done.Status = engine.TraineeCompleted
	require.NoError(t, s.SaveTrainee(ctx, done))

	got, err := s.ActiveOJTTrainees(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, engine.TraineeID("tr-ojt"), got[0].ID)
}

// =============================================================================
// TIME RECORDS
// =============================================================================

func TestSQLite_TimeRecord_RoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveTrainee(ctx, testTrainee()))

	date := engine.NewDate(2025, time.March, 10)
	want := testRecord("rec-1", date)
	require.NoError(t, s.CreateTimeRecord(ctx, want))

	got, err := s.GetTimeRecord(ctx, "tr-1", date)
	require.NoError(t, err)

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, *want.AMTimeIn, *got.AMTimeIn)
	assert.Equal(t, *want.PMTimeOut, *got.PMTimeOut)
	assert.Equal(t, "4.00", got.AMHours.StringFixed(2))
	assert.Equal(t, "8.00", got.TotalHours.StringFixed(2))
	assert.Equal(t, engine.StatusPresent, got.Status)
	assert.Equal(t, "full day", got.Notes)
}

func TestSQLite_TimeRecord_NullSessions(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveTrainee(ctx, testTrainee()))

	rec := engine.TimeRecord{
		ID:        "rec-absent",
		TraineeID: "tr-1",
		Date:      engine.NewDate(2025, time.March, 10),
		Status:    engine.StatusAbsent,
	}
	require.NoError(t, s.CreateTimeRecord(ctx, rec))

	got, err := s.GetTimeRecord(ctx, "tr-1", rec.Date)
	require.NoError(t, err)
	assert.Nil(t, got.AMTimeIn)
	assert.Nil(t, got.PMTimeOut)
	assert.True(t, got.TotalHours.IsZero())
}

func TestSQLite_TimeRecord_DuplicateDay(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveTrainee(ctx, testTrainee()))

	date := engine.NewDate(2025, time.March, 10)
	require.NoError(t, s.CreateTimeRecord(ctx, testRecord("rec-1", date)))

	err := s.CreateTimeRecord(ctx, testRecord("rec-2", date))
	assert.ErrorIs(t, err, engine.ErrDuplicateRecord)
}

func TestSQLite_TimeRecord_Update(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveTrainee(ctx, testTrainee()))

	date := engine.NewDate(2025, time.March, 10)
	rec := testRecord("rec-1", date)
	require.NoError(t, s.CreateTimeRecord(ctx, rec))

	rec.PMTimeIn = nil
	rec.PMTimeOut = nil
	rec.Status = engine.StatusHalfDayAM
	rec, err := engine.WithComputedHours(rec)
	require.NoError(t, err)
	require.NoError(t, s.UpdateTimeRecord(ctx, rec))

	got, err := s.GetTimeRecord(ctx, "tr-1", date)
	require.NoError(t, err)
	assert.Nil(t, got.PMTimeIn)
	assert.Equal(t, "4.00", got.TotalHours.StringFixed(2))
	assert.Equal(t, engine.StatusHalfDayAM, got.Status)
}

func TestSQLite_TimeRecord_UpdateMissing(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveTrainee(ctx, testTrainee()))

	err := s.UpdateTimeRecord(ctx, testRecord("rec-x", engine.NewDate(2025, time.March, 10)))
	assert.ErrorIs(t, err, engine.ErrRecordNotFound)
}

func TestSQLite_TimeRecordsInRange(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveTrainee(ctx, testTrainee()))

	base := engine.NewDate(2025, time.March, 10)
	for i := 0; i < 5; i++ {
		rec := testRecord(engine.RecordID("rec-"+string(rune('a'+i))), base.AddDays(i*2))
		require.NoError(t, s.CreateTimeRecord(ctx, rec))
	}

	// Inclusive on both ends.
	got, err := s.TimeRecordsInRange(ctx, "tr-1", base.AddDays(2), base.AddDays(6))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Date.Equal(base.AddDays(2)))
	assert.True(t, got[2].Date.Equal(base.AddDays(6)))

	all, err := s.TimeRecords(ctx, "tr-1")
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

// =============================================================================
// SUMMARIES AND REPORTS
// =============================================================================

func TestSQLite_WeeklySummary_Upsert(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveTrainee(ctx, testTrainee()))

	weekStart := engine.NewDate(2025, time.March, 10)
	sum := engine.WeeklySummary{
		TraineeID:        "tr-1",
		WeekStart:        weekStart,
		WeekEnd:          weekStart.AddDays(6),
		TotalHoursWorked: engine.Dec(20),
		BillableHours:    engine.Dec(16),
		GrossPay:         engine.Dec(1600),
		DaysPresent:      5,
	}
	require.NoError(t, s.SaveWeeklySummary(ctx, sum))

	sum.TotalHoursWorked = engine.Dec(24)
	require.NoError(t, s.SaveWeeklySummary(ctx, sum))

	got, err := s.GetWeeklySummary(ctx, "tr-1", weekStart)
	require.NoError(t, err)
	assert.Equal(t, "24.00", got.TotalHoursWorked.StringFixed(2))
	assert.Equal(t, "1600.00", got.GrossPay.StringFixed(2))
	assert.True(t, got.WeekEnd.Equal(weekStart.AddDays(6)))
	assert.Equal(t, 5, got.DaysPresent)
}

func TestSQLite_MonthlyReport_RoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveTrainee(ctx, testTrainee()))

	r := engine.MonthlyReport{
		TraineeID:        "tr-1",
		Year:             2025,
		Month:            3,
		TotalHoursWorked: engine.Dec(88),
		BillableHours:    engine.Dec(64),
		GrossPay:         engine.Dec(6400),
		DaysPresent:      11,
		DaysAbsent:       2,
	}
	require.NoError(t, s.SaveMonthlyReport(ctx, r))

	got, err := s.GetMonthlyReport(ctx, "tr-1", 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, "88.00", got.TotalHoursWorked.StringFixed(2))
	assert.Equal(t, 11, got.DaysPresent)
	assert.Equal(t, 2, got.DaysAbsent)

	_, err = s.GetMonthlyReport(ctx, "tr-1", 2025, 4)
	assert.ErrorIs(t, err, engine.ErrRecordNotFound)
}

func TestSQLite_Reset_Clears(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveTrainee(ctx, testTrainee()))
	require.NoError(t, s.CreateTimeRecord(ctx, testRecord("rec-1", engine.NewDate(2025, time.March, 10))))

	require.NoError(t, s.Reset(ctx))

	all, err := s.ListTrainees(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
