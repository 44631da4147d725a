/*
Package tracking orchestrates the pure engine against a Store.

It is the "external collaborator" side of the engine's contract: it fetches
raw rows, runs validation and computation, and writes derived values back.
The engine never touches the store; this package never does math.

SERVICES:
  RecordService:   Time-record create/amend with validation, derived-hour
                   recomputation, and the 7-day edit window
  SummaryService:  Weekly/monthly aggregate recomputation and caching
  ProgressService: Single and batch OJT completion views
*/
package tracking

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/warp/trainee-engine/engine"
)

// EditWindowDays is how far back a trainee may still create or amend a
// record. Older records are frozen; corrections go through an admin.
const EditWindowDays = 7

// RecordService handles the time-record write path.
type RecordService struct {
	store  engine.Store
	logger *logrus.Logger

	// now is injectable so tests can pin the business "today".
	now func() engine.Date
}

func NewRecordService(store engine.Store, logger *logrus.Logger) *RecordService {
	return &RecordService{store: store, logger: logger, now: engine.Today}
}

// WithNow overrides the business-date source. Tests only.
func (s *RecordService) WithNow(now func() engine.Date) *RecordService {
	s.now = now
	return s
}

// RecordInput is a candidate record as collected by the validation
// front-end: typed times, no derived fields.
type RecordInput struct {
	Date      engine.Date
	AMTimeIn  *engine.ClockTime
	AMTimeOut *engine.ClockTime
	PMTimeIn  *engine.ClockTime
	PMTimeOut *engine.ClockTime
	Status    engine.RecordStatus
	Notes     string
}

// Submit validates and stores a new record for the trainee. On rule
// violations the full set is returned as the error so the caller can
// report every problem at once.
func (s *RecordService) Submit(ctx context.Context, traineeID engine.TraineeID, in RecordInput) (engine.TimeRecord, error) {
	if _, err := s.store.GetTrainee(ctx, traineeID); err != nil {
		return engine.TimeRecord{}, err
	}

	today := s.now()
	rec := engine.TimeRecord{
		ID:        engine.RecordID(uuid.NewString()),
		TraineeID: traineeID,
		Date:      in.Date,
		AMTimeIn:  in.AMTimeIn,
		AMTimeOut: in.AMTimeOut,
		PMTimeIn:  in.PMTimeIn,
		PMTimeOut: in.PMTimeOut,
		Status:    in.Status,
		Notes:     in.Notes,
	}

	if vs := engine.ValidateTimeRecord(rec, today); len(vs) > 0 {
		return engine.TimeRecord{}, vs
	}
	if err := s.checkEditWindow(rec.Date, today); err != nil {
		return engine.TimeRecord{}, err
	}

	rec, err := engine.WithComputedHours(rec)
	if err != nil {
		return engine.TimeRecord{}, err
	}

	if err := s.store.CreateTimeRecord(ctx, rec); err != nil {
		return engine.TimeRecord{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"trainee_id":  traineeID,
		"date":        rec.Date.String(),
		"total_hours": rec.TotalHours.String(),
	}).Info("time record created")

	return rec, nil
}

// Amend replaces the record for (trainee, date) with revalidated fields and
// freshly derived hours. Only records dated within the edit window are
// mutable.
func (s *RecordService) Amend(ctx context.Context, traineeID engine.TraineeID, in RecordInput) (engine.TimeRecord, error) {
	existing, err := s.store.GetTimeRecord(ctx, traineeID, in.Date)
	if err != nil {
		return engine.TimeRecord{}, err
	}

	today := s.now()
	if err := s.checkEditWindow(existing.Date, today); err != nil {
		return engine.TimeRecord{}, err
	}

	rec := existing
	rec.AMTimeIn = in.AMTimeIn
	rec.AMTimeOut = in.AMTimeOut
	rec.PMTimeIn = in.PMTimeIn
	rec.PMTimeOut = in.PMTimeOut
	rec.Status = in.Status
	rec.Notes = in.Notes

	if vs := engine.ValidateTimeRecord(rec, today); len(vs) > 0 {
		return engine.TimeRecord{}, vs
	}

	rec, err = engine.WithComputedHours(rec)
	if err != nil {
		return engine.TimeRecord{}, err
	}

	if err := s.store.UpdateTimeRecord(ctx, rec); err != nil {
		return engine.TimeRecord{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"trainee_id":  traineeID,
		"date":        rec.Date.String(),
		"total_hours": rec.TotalHours.String(),
	}).Info("time record amended")

	return rec, nil
}

// Records returns the trainee's records in [from, to], ordered by date.
func (s *RecordService) Records(ctx context.Context, traineeID engine.TraineeID, from, to engine.Date) ([]engine.TimeRecord, error) {
	return s.store.TimeRecordsInRange(ctx, traineeID, from, to)
}

func (s *RecordService) checkEditWindow(date, today engine.Date) error {
	if date.Before(today.AddDays(-EditWindowDays)) {
		return engine.ErrEditWindowClosed
	}
	return nil
}

// =============================================================================
// TRAINEE ADMIN - Thin config CRUD (validation + store glue)
// =============================================================================

// TraineeService handles trainee config writes. Pure glue: the cross-field
// rules live in engine.ValidateTrainee.
type TraineeService struct {
	store  engine.Store
	logger *logrus.Logger

	// now is injectable so tests can pin the business "today".
	now func() engine.Date
}

func NewTraineeService(store engine.Store, logger *logrus.Logger) *TraineeService {
	return &TraineeService{store: store, logger: logger, now: engine.Today}
}

// WithNow overrides the business-date source. Tests only.
func (s *TraineeService) WithNow(now func() engine.Date) *TraineeService {
	s.now = now
	return s
}

// Save validates and persists a trainee, assigning an ID when absent.
func (s *TraineeService) Save(ctx context.Context, t engine.Trainee) (engine.Trainee, error) {
	if t.ID == "" {
		t.ID = engine.TraineeID(uuid.NewString())
	}
	if vs := engine.ValidateTrainee(t); len(vs) > 0 {
		return engine.Trainee{}, vs
	}
	if err := s.store.SaveTrainee(ctx, t); err != nil {
		return engine.Trainee{}, err
	}
	s.logger.WithFields(logrus.Fields{
		"trainee_id": t.ID,
		"type":       t.Type,
		"status":     t.Status,
	}).Info("trainee saved")
	return t, nil
}

// Get fetches one trainee's config.
func (s *TraineeService) Get(ctx context.Context, id engine.TraineeID) (engine.Trainee, error) {
	return s.store.GetTrainee(ctx, id)
}

// List returns all trainees, any status.
func (s *TraineeService) List(ctx context.Context) ([]engine.Trainee, error) {
	return s.store.ListTrainees(ctx)
}

// Terminate soft-marks a trainee. Trainees are never physically removed.
func (s *TraineeService) Terminate(ctx context.Context, id engine.TraineeID) (engine.Trainee, error) {
	return s.setStatus(ctx, id, engine.TraineeTerminated)
}

// Complete marks an engagement finished, setting EndDate when unset.
func (s *TraineeService) Complete(ctx context.Context, id engine.TraineeID) (engine.Trainee, error) {
	return s.setStatus(ctx, id, engine.TraineeCompleted)
}

func (s *TraineeService) setStatus(ctx context.Context, id engine.TraineeID, status engine.TraineeStatus) (engine.Trainee, error) {
	t, err := s.store.GetTrainee(ctx, id)
	if err != nil {
		return engine.Trainee{}, err
	}
	t.Status = status
	if t.EndDate == nil {
		today := s.now()
		if today.After(t.StartDate) {
			t.EndDate = &today
		}
	}
	if err := s.store.SaveTrainee(ctx, t); err != nil {
		return engine.Trainee{}, err
	}
	s.logger.WithFields(logrus.Fields{"trainee_id": id, "status": status}).Info("trainee status changed")
	return t, nil
}
