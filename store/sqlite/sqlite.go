/*
Package sqlite provides a SQLite-backed implementation of engine.Store.

PURPOSE:
  Production persistence for trainees, per-day time records and the derived
  aggregate caches. In production the same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

KEY TABLES:
  trainees:          Engagement configuration (soft-deleted via status)
  time_records:      One attendance row per (trainee_id, date)
  weekly_summaries:  Cached weekly aggregates, overwritten on refresh
  monthly_reports:   Cached monthly aggregates, overwritten on refresh

VALUE ENCODING:
  Decimal fields (hours, rates, pay) are stored as TEXT so round-tripping
  never loses precision. Dates are YYYY-MM-DD strings, clock times "HH:MM";
  both sort correctly as text so range queries use plain comparisons.

UNIQUENESS:
  UNIQUE(trainee_id, date) on time_records enforces one attendance row per
  calendar day. A violated insert surfaces as engine.ErrDuplicateRecord.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. Opened with WAL mode so readers
  don't block. Each read serves a consistent snapshot, which is the
  consistency contract the engine's callers rely on.

USAGE:
  store, err := sqlite.New("./data/trainees.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - engine/store.go: Interface definitions
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/trainee-engine/engine"
)

// Store implements engine.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ engine.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trainees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		trainee_type TEXT NOT NULL,
		hourly_rate TEXT,
		max_weekly_hours TEXT,
		total_required_hours TEXT,
		start_date TEXT NOT NULL,
		end_date TEXT,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trainees_type_status
		ON trainees(trainee_type, status);

	CREATE TABLE IF NOT EXISTS time_records (
		id TEXT PRIMARY KEY,
		trainee_id TEXT NOT NULL REFERENCES trainees(id),
		date TEXT NOT NULL,
		am_time_in TEXT,
		am_time_out TEXT,
		pm_time_in TEXT,
		pm_time_out TEXT,
		am_hours TEXT NOT NULL,
		pm_hours TEXT NOT NULL,
		total_hours TEXT NOT NULL,
		status TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		UNIQUE(trainee_id, date)
	);

	-- Range scans for weekly/monthly aggregation (hot path)
	CREATE INDEX IF NOT EXISTS idx_time_records_trainee_date
		ON time_records(trainee_id, date);

	CREATE TABLE IF NOT EXISTS weekly_summaries (
		trainee_id TEXT NOT NULL REFERENCES trainees(id),
		week_start TEXT NOT NULL,
		week_end TEXT NOT NULL,
		total_hours_worked TEXT NOT NULL,
		billable_hours TEXT NOT NULL,
		gross_pay TEXT NOT NULL,
		days_present INTEGER NOT NULL,
		PRIMARY KEY(trainee_id, week_start)
	);

	CREATE TABLE IF NOT EXISTS monthly_reports (
		trainee_id TEXT NOT NULL REFERENCES trainees(id),
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		total_hours_worked TEXT NOT NULL,
		billable_hours TEXT NOT NULL,
		gross_pay TEXT NOT NULL,
		days_present INTEGER NOT NULL,
		days_absent INTEGER NOT NULL,
		PRIMARY KEY(trainee_id, year, month)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRAINEES
// =============================================================================

func (s *Store) SaveTrainee(ctx context.Context, t engine.Trainee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trainees (id, name, trainee_type, hourly_rate, max_weekly_hours,
			total_required_hours, start_date, end_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			trainee_type = excluded.trainee_type,
			hourly_rate = excluded.hourly_rate,
			max_weekly_hours = excluded.max_weekly_hours,
			total_required_hours = excluded.total_required_hours,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			status = excluded.status`,
		string(t.ID), t.Name, string(t.Type),
		decimalToNull(t.HourlyRate), decimalToNull(t.MaxWeeklyHours), decimalToNull(t.TotalRequiredHours),
		t.StartDate.String(), dateToNull(t.EndDate), string(t.Status),
	)
	return err
}

func (s *Store) GetTrainee(ctx context.Context, id engine.TraineeID) (engine.Trainee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, trainee_type, hourly_rate, max_weekly_hours,
			total_required_hours, start_date, end_date, status
		FROM trainees WHERE id = ?`, string(id))

	t, err := scanTrainee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Trainee{}, engine.ErrTraineeNotFound
	}
	return t, err
}

func (s *Store) ListTrainees(ctx context.Context) ([]engine.Trainee, error) {
	return s.queryTrainees(ctx, `
		SELECT id, name, trainee_type, hourly_rate, max_weekly_hours,
			total_required_hours, start_date, end_date, status
		FROM trainees ORDER BY id`)
}

func (s *Store) ActiveOJTTrainees(ctx context.Context) ([]engine.Trainee, error) {
	return s.queryTrainees(ctx, `
		SELECT id, name, trainee_type, hourly_rate, max_weekly_hours,
			total_required_hours, start_date, end_date, status
		FROM trainees WHERE trainee_type = ? AND status = ? ORDER BY id`,
		string(engine.TypeOJT), string(engine.TraineeActive))
}

func (s *Store) queryTrainees(ctx context.Context, query string, args ...any) ([]engine.Trainee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Trainee
	for rows.Next() {
		t, err := scanTrainee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrainee(row rowScanner) (engine.Trainee, error) {
	var (
		t                         engine.Trainee
		id, ttype, status         string
		rate, weeklyCap, required sql.NullString
		startDate                 string
		endDate                   sql.NullString
	)
	if err := row.Scan(&id, &t.Name, &ttype, &rate, &weeklyCap, &required, &startDate, &endDate, &status); err != nil {
		return engine.Trainee{}, err
	}

	t.ID = engine.TraineeID(id)
	t.Type = engine.TraineeType(ttype)
	t.Status = engine.TraineeStatus(status)

	var err error
	if t.HourlyRate, err = nullToDecimal(rate); err != nil {
		return engine.Trainee{}, err
	}
	if t.MaxWeeklyHours, err = nullToDecimal(weeklyCap); err != nil {
		return engine.Trainee{}, err
	}
	if t.TotalRequiredHours, err = nullToDecimal(required); err != nil {
		return engine.Trainee{}, err
	}
	if t.StartDate, err = engine.ParseDate(startDate); err != nil {
		return engine.Trainee{}, err
	}
	if t.EndDate, err = nullToDate(endDate); err != nil {
		return engine.Trainee{}, err
	}
	return t, nil
}

// =============================================================================
// TIME RECORDS
// =============================================================================

func (s *Store) CreateTimeRecord(ctx context.Context, rec engine.TimeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO time_records (id, trainee_id, date, am_time_in, am_time_out,
			pm_time_in, pm_time_out, am_hours, pm_hours, total_hours, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(rec.ID), string(rec.TraineeID), rec.Date.String(),
		clockToNull(rec.AMTimeIn), clockToNull(rec.AMTimeOut),
		clockToNull(rec.PMTimeIn), clockToNull(rec.PMTimeOut),
		rec.AMHours.String(), rec.PMHours.String(), rec.TotalHours.String(),
		string(rec.Status), rec.Notes,
	)
	if isUniqueViolation(err) {
		return engine.ErrDuplicateRecord
	}
	return err
}

func (s *Store) UpdateTimeRecord(ctx context.Context, rec engine.TimeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE time_records SET am_time_in = ?, am_time_out = ?, pm_time_in = ?,
			pm_time_out = ?, am_hours = ?, pm_hours = ?, total_hours = ?,
			status = ?, notes = ?
		WHERE trainee_id = ? AND date = ?`,
		clockToNull(rec.AMTimeIn), clockToNull(rec.AMTimeOut),
		clockToNull(rec.PMTimeIn), clockToNull(rec.PMTimeOut),
		rec.AMHours.String(), rec.PMHours.String(), rec.TotalHours.String(),
		string(rec.Status), rec.Notes,
		string(rec.TraineeID), rec.Date.String(),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return engine.ErrRecordNotFound
	}
	return nil
}

func (s *Store) GetTimeRecord(ctx context.Context, id engine.TraineeID, date engine.Date) (engine.TimeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, trainee_id, date, am_time_in, am_time_out, pm_time_in,
			pm_time_out, am_hours, pm_hours, total_hours, status, notes
		FROM time_records WHERE trainee_id = ? AND date = ?`,
		string(id), date.String())

	rec, err := scanTimeRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.TimeRecord{}, engine.ErrRecordNotFound
	}
	return rec, err
}

func (s *Store) TimeRecordsInRange(ctx context.Context, id engine.TraineeID, from, to engine.Date) ([]engine.TimeRecord, error) {
	return s.queryTimeRecords(ctx, `
		SELECT id, trainee_id, date, am_time_in, am_time_out, pm_time_in,
			pm_time_out, am_hours, pm_hours, total_hours, status, notes
		FROM time_records
		WHERE trainee_id = ? AND date >= ? AND date <= ?
		ORDER BY date`,
		string(id), from.String(), to.String())
}

func (s *Store) TimeRecords(ctx context.Context, id engine.TraineeID) ([]engine.TimeRecord, error) {
	return s.queryTimeRecords(ctx, `
		SELECT id, trainee_id, date, am_time_in, am_time_out, pm_time_in,
			pm_time_out, am_hours, pm_hours, total_hours, status, notes
		FROM time_records WHERE trainee_id = ? ORDER BY date`,
		string(id))
}

func (s *Store) queryTimeRecords(ctx context.Context, query string, args ...any) ([]engine.TimeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.TimeRecord
	for rows.Next() {
		rec, err := scanTimeRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanTimeRecord(row rowScanner) (engine.TimeRecord, error) {
	var (
		rec                        engine.TimeRecord
		id, traineeID, date        string
		amIn, amOut, pmIn, pmOut   sql.NullString
		amHours, pmHours, totalHrs string
		status                     string
	)
	if err := row.Scan(&id, &traineeID, &date, &amIn, &amOut, &pmIn, &pmOut,
		&amHours, &pmHours, &totalHrs, &status, &rec.Notes); err != nil {
		return engine.TimeRecord{}, err
	}

	rec.ID = engine.RecordID(id)
	rec.TraineeID = engine.TraineeID(traineeID)
	rec.Status = engine.RecordStatus(status)

	var err error
	if rec.Date, err = engine.ParseDate(date); err != nil {
		return engine.TimeRecord{}, err
	}
	if rec.AMTimeIn, err = nullToClock(amIn); err != nil {
		return engine.TimeRecord{}, err
	}
	if rec.AMTimeOut, err = nullToClock(amOut); err != nil {
		return engine.TimeRecord{}, err
	}
	if rec.PMTimeIn, err = nullToClock(pmIn); err != nil {
		return engine.TimeRecord{}, err
	}
	if rec.PMTimeOut, err = nullToClock(pmOut); err != nil {
		return engine.TimeRecord{}, err
	}
	if rec.AMHours, err = decimal.NewFromString(amHours); err != nil {
		return engine.TimeRecord{}, err
	}
	if rec.PMHours, err = decimal.NewFromString(pmHours); err != nil {
		return engine.TimeRecord{}, err
	}
	if rec.TotalHours, err = decimal.NewFromString(totalHrs); err != nil {
		return engine.TimeRecord{}, err
	}
	return rec, nil
}

// =============================================================================
// AGGREGATE CACHES
// =============================================================================

func (s *Store) SaveWeeklySummary(ctx context.Context, sum engine.WeeklySummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO weekly_summaries (trainee_id, week_start, week_end,
			total_hours_worked, billable_hours, gross_pay, days_present)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(trainee_id, week_start) DO UPDATE SET
			week_end = excluded.week_end,
			total_hours_worked = excluded.total_hours_worked,
			billable_hours = excluded.billable_hours,
			gross_pay = excluded.gross_pay,
			days_present = excluded.days_present`,
		string(sum.TraineeID), sum.WeekStart.String(), sum.WeekEnd.String(),
		sum.TotalHoursWorked.String(), sum.BillableHours.String(),
		sum.GrossPay.String(), sum.DaysPresent,
	)
	return err
}

func (s *Store) GetWeeklySummary(ctx context.Context, id engine.TraineeID, weekStart engine.Date) (engine.WeeklySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		sum                   engine.WeeklySummary
		traineeID, start, end string
		total, billable, pay  string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT trainee_id, week_start, week_end, total_hours_worked,
			billable_hours, gross_pay, days_present
		FROM weekly_summaries WHERE trainee_id = ? AND week_start = ?`,
		string(id), weekStart.String(),
	).Scan(&traineeID, &start, &end, &total, &billable, &pay, &sum.DaysPresent)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.WeeklySummary{}, engine.ErrRecordNotFound
	}
	if err != nil {
		return engine.WeeklySummary{}, err
	}

	sum.TraineeID = engine.TraineeID(traineeID)
	if sum.WeekStart, err = engine.ParseDate(start); err != nil {
		return engine.WeeklySummary{}, err
	}
	if sum.WeekEnd, err = engine.ParseDate(end); err != nil {
		return engine.WeeklySummary{}, err
	}
	if sum.TotalHoursWorked, err = decimal.NewFromString(total); err != nil {
		return engine.WeeklySummary{}, err
	}
	if sum.BillableHours, err = decimal.NewFromString(billable); err != nil {
		return engine.WeeklySummary{}, err
	}
	if sum.GrossPay, err = decimal.NewFromString(pay); err != nil {
		return engine.WeeklySummary{}, err
	}
	return sum, nil
}

func (s *Store) SaveMonthlyReport(ctx context.Context, r engine.MonthlyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO monthly_reports (trainee_id, year, month, total_hours_worked,
			billable_hours, gross_pay, days_present, days_absent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(trainee_id, year, month) DO UPDATE SET
			total_hours_worked = excluded.total_hours_worked,
			billable_hours = excluded.billable_hours,
			gross_pay = excluded.gross_pay,
			days_present = excluded.days_present,
			days_absent = excluded.days_absent`,
		string(r.TraineeID), r.Year, r.Month,
		r.TotalHoursWorked.String(), r.BillableHours.String(),
		r.GrossPay.String(), r.DaysPresent, r.DaysAbsent,
	)
	return err
}

func (s *Store) GetMonthlyReport(ctx context.Context, id engine.TraineeID, year, month int) (engine.MonthlyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		r                    engine.MonthlyReport
		traineeID            string
		total, billable, pay string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT trainee_id, year, month, total_hours_worked, billable_hours,
			gross_pay, days_present, days_absent
		FROM monthly_reports WHERE trainee_id = ? AND year = ? AND month = ?`,
		string(id), year, month,
	).Scan(&traineeID, &r.Year, &r.Month, &total, &billable, &pay, &r.DaysPresent, &r.DaysAbsent)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.MonthlyReport{}, engine.ErrRecordNotFound
	}
	if err != nil {
		return engine.MonthlyReport{}, err
	}

	r.TraineeID = engine.TraineeID(traineeID)
	if r.TotalHoursWorked, err = decimal.NewFromString(total); err != nil {
		return engine.MonthlyReport{}, err
	}
	if r.BillableHours, err = decimal.NewFromString(billable); err != nil {
		return engine.MonthlyReport{}, err
	}
	if r.GrossPay, err = decimal.NewFromString(pay); err != nil {
		return engine.MonthlyReport{}, err
	}
	return r, nil
}

// Reset wipes all data. Dev/demo use only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"monthly_reports", "weekly_summaries", "time_records", "trainees"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// VALUE ENCODING HELPERS
// =============================================================================

func decimalToNull(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullToDecimal(s sql.NullString) (*decimal.Decimal, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func dateToNull(d *engine.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullToDate(s sql.NullString) (*engine.Date, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := engine.ParseDate(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func clockToNull(c *engine.ClockTime) any {
	if c == nil {
		return nil
	}
	return c.String()
}

func nullToClock(s sql.NullString) (*engine.ClockTime, error) {
	if !s.Valid {
		return nil, nil
	}
	c, err := engine.ParseClock(s.String)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
