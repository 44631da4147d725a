/*
store.go - Persistence interface the engine's callers implement

PURPOSE:
  The computation core is pure; everything stateful lives behind this
  interface and is injected by the caller. The engine package defines the
  contract, implementations live elsewhere:

  - engine/store:  In-memory implementation for tests/dev
  - store/sqlite:  Production SQLite implementation

OWNERSHIP RULES:
  - TimeRecord hour fields are derived; implementations persist what the
    service layer hands them and never recompute on their own.
  - Summaries and reports are caches: Save* overwrites any prior row for
    the same key. Recomputation is idempotent, so blind overwrite is safe.
  - The (trainee_id, date) uniqueness invariant is enforced here (unique
    index or equivalent) as well as in the service layer.
  - Implementations serve each call from a consistent snapshot of rows;
    transactional consistency across concurrent edits is this layer's
    responsibility, not the engine's.

SEE ALSO:
  - store/memory.go: Reference implementation
  - store/sqlite/sqlite.go: Production implementation
*/
package engine

import "context"

// Store is the data-access contract for trainees, time records and the
// derived aggregate caches.
type Store interface {
	TraineeStore
	RecordStore
	SummaryStore
}

// TraineeStore handles trainee configuration rows.
type TraineeStore interface {
	// SaveTrainee inserts or updates a trainee.
	SaveTrainee(ctx context.Context, t Trainee) error

	// GetTrainee returns ErrTraineeNotFound if the id is unknown.
	GetTrainee(ctx context.Context, id TraineeID) (Trainee, error)

	// ListTrainees returns all trainees, any status.
	ListTrainees(ctx context.Context) ([]Trainee, error)

	// ActiveOJTTrainees returns trainees with type=ojt and status=active,
	// the input set for batch progress computation.
	ActiveOJTTrainees(ctx context.Context) ([]Trainee, error)
}

// RecordStore handles per-day attendance rows.
type RecordStore interface {
	// CreateTimeRecord inserts a record. Returns ErrDuplicateRecord if a
	// record already exists for (TraineeID, Date).
	CreateTimeRecord(ctx context.Context, rec TimeRecord) error

	// UpdateTimeRecord replaces the record for (TraineeID, Date).
	// Returns ErrRecordNotFound if none exists.
	UpdateTimeRecord(ctx context.Context, rec TimeRecord) error

	// GetTimeRecord returns ErrRecordNotFound if none exists.
	GetTimeRecord(ctx context.Context, id TraineeID, date Date) (TimeRecord, error)

	// TimeRecordsInRange returns records with from <= date <= to,
	// ordered by date.
	TimeRecordsInRange(ctx context.Context, id TraineeID, from, to Date) ([]TimeRecord, error)

	// TimeRecords returns the trainee's full record set ordered by date.
	// Input for lifetime OJT progress.
	TimeRecords(ctx context.Context, id TraineeID) ([]TimeRecord, error)
}

// SummaryStore handles the derived aggregate caches.
type SummaryStore interface {
	// SaveWeeklySummary overwrites the summary for (TraineeID, WeekStart).
	SaveWeeklySummary(ctx context.Context, s WeeklySummary) error

	// GetWeeklySummary returns ErrRecordNotFound if none is cached.
	GetWeeklySummary(ctx context.Context, id TraineeID, weekStart Date) (WeeklySummary, error)

	// SaveMonthlyReport overwrites the report for (TraineeID, Year, Month).
	SaveMonthlyReport(ctx context.Context, r MonthlyReport) error

	// GetMonthlyReport returns ErrRecordNotFound if none is cached.
	GetMonthlyReport(ctx context.Context, id TraineeID, year, month int) (MonthlyReport, error)
}
