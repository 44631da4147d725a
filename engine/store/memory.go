// Package store provides an in-memory engine.Store implementation
// (for testing/dev).
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/trainee-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	trainees map[engine.TraineeID]engine.Trainee
	records  map[recordKey]engine.TimeRecord
	weekly   map[weekKey]engine.WeeklySummary
	monthly  map[monthKey]engine.MonthlyReport
}

type recordKey struct {
	TraineeID engine.TraineeID
	Date      string // YYYY-MM-DD
}

type weekKey struct {
	TraineeID engine.TraineeID
	WeekStart string
}

type monthKey struct {
	TraineeID engine.TraineeID
	Year      int
	Month     int
}

func NewMemory() *Memory {
	return &Memory{
		trainees: make(map[engine.TraineeID]engine.Trainee),
		records:  make(map[recordKey]engine.TimeRecord),
		weekly:   make(map[weekKey]engine.WeeklySummary),
		monthly:  make(map[monthKey]engine.MonthlyReport),
	}
}

var _ engine.Store = (*Memory)(nil)

// -----------------------------------------------------------------------------
// Trainees
// -----------------------------------------------------------------------------

func (m *Memory) SaveTrainee(_ context.Context, t engine.Trainee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trainees[t.ID] = t
	return nil
}

func (m *Memory) GetTrainee(_ context.Context, id engine.TraineeID) (engine.Trainee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.trainees[id]
	if !ok {
		return engine.Trainee{}, engine.ErrTraineeNotFound
	}
	return t, nil
}

func (m *Memory) ListTrainees(_ context.Context) ([]engine.Trainee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]engine.Trainee, 0, len(m.trainees))
	for _, t := range m.trainees {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ActiveOJTTrainees(_ context.Context) ([]engine.Trainee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []engine.Trainee
	for _, t := range m.trainees {
		if t.Type == engine.TypeOJT && t.Status == engine.TraineeActive {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// -----------------------------------------------------------------------------
// Time records
// -----------------------------------------------------------------------------

func (m *Memory) CreateTimeRecord(_ context.Context, rec engine.TimeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := recordKey{TraineeID: rec.TraineeID, Date: rec.Date.String()}
	if _, exists := m.records[k]; exists {
		return engine.ErrDuplicateRecord
	}
	m.records[k] = rec
	return nil
}

func (m *Memory) UpdateTimeRecord(_ context.Context, rec engine.TimeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := recordKey{TraineeID: rec.TraineeID, Date: rec.Date.String()}
	if _, exists := m.records[k]; !exists {
		return engine.ErrRecordNotFound
	}
	m.records[k] = rec
	return nil
}

func (m *Memory) GetTimeRecord(_ context.Context, id engine.TraineeID, date engine.Date) (engine.TimeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[recordKey{TraineeID: id, Date: date.String()}]
	if !ok {
		return engine.TimeRecord{}, engine.ErrRecordNotFound
	}
	return rec, nil
}

func (m *Memory) TimeRecordsInRange(_ context.Context, id engine.TraineeID, from, to engine.Date) ([]engine.TimeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []engine.TimeRecord
	for _, rec := range m.records {
		if rec.TraineeID == id && rec.Date.AfterOrEqual(from) && rec.Date.BeforeOrEqual(to) {
			out = append(out, rec)
		}
	}
	sortByDate(out)
	return out, nil
}

func (m *Memory) TimeRecords(_ context.Context, id engine.TraineeID) ([]engine.TimeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []engine.TimeRecord
	for _, rec := range m.records {
		if rec.TraineeID == id {
			out = append(out, rec)
		}
	}
	sortByDate(out)
	return out, nil
}

func sortByDate(recs []engine.TimeRecord) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].Date.Before(recs[j].Date) })
}

// -----------------------------------------------------------------------------
// Aggregate caches
// -----------------------------------------------------------------------------

func (m *Memory) SaveWeeklySummary(_ context.Context, s engine.WeeklySummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weekly[weekKey{TraineeID: s.TraineeID, WeekStart: s.WeekStart.String()}] = s
	return nil
}

func (m *Memory) GetWeeklySummary(_ context.Context, id engine.TraineeID, weekStart engine.Date) (engine.WeeklySummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.weekly[weekKey{TraineeID: id, WeekStart: weekStart.String()}]
	if !ok {
		return engine.WeeklySummary{}, engine.ErrRecordNotFound
	}
	return s, nil
}

func (m *Memory) SaveMonthlyReport(_ context.Context, r engine.MonthlyReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.monthly[monthKey{TraineeID: r.TraineeID, Year: r.Year, Month: r.Month}] = r
	return nil
}

func (m *Memory) GetMonthlyReport(_ context.Context, id engine.TraineeID, year, month int) (engine.MonthlyReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.monthly[monthKey{TraineeID: id, Year: year, Month: month}]
	if !ok {
		return engine.MonthlyReport{}, engine.ErrRecordNotFound
	}
	return r, nil
}
